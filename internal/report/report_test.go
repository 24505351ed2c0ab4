package report

import (
	"strings"
	"testing"

	"mashop-dashboard/internal/series"
)

func TestBuild_SubstitutesAllPlaceholders(t *testing.T) {
	price := 1500000.0
	maps := []string{"미나르숲:남겨진 용의 둥지"}
	daily := map[string][]series.DailyPack{
		maps[0]: {{Label: "2025-06-01", X: []string{"01:00"}, Y: []*float64{&price}, Hover: [][5]string{{"01:00", "150만", "12", "2025-06-01", "일"}}}},
	}
	points := map[string][]series.Point{
		maps[0]: {{Date: "2025-06-01", Time: "01:00", Weekday: "일", Price: price}},
	}

	html, err := Build(maps, daily, points, 14, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, placeholder := range []string{
		"__MAPS_JSON__", "__DAILY_JSON__", "__POINTS_JSON__",
		"__HOUR_ORDER__", "__DEFAULT_DAYS__", "__MIN_TRADE__",
	} {
		if strings.Contains(html, placeholder) {
			t.Errorf("placeholder %s not substituted", placeholder)
		}
	}

	for _, want := range []string{
		`"미나르숲:남겨진 용의 둥지"`,
		`"label":"2025-06-01"`,
		`"price":1500000`,
		`"tradeCount":null`,
		`const MIN_TRADE = 5;`,
		`data-days="14"`,
		`"01:00"`,
		`"00:00"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestBuild_EmptyProjections(t *testing.T) {
	maps := []string{"빈맵"}
	html, err := Build(maps,
		map[string][]series.DailyPack{"빈맵": {}},
		map[string][]series.Point{"빈맵": {}},
		14, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, `"빈맵":[]`) {
		t.Error("expected empty array payloads for a map without data")
	}
}
