// Package report assembles the static dashboard page. The HTML/JS
// template is fixed; assembly is string substitution of the JSON
// payloads and two configuration scalars — all interactivity is
// client-side.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"mashop-dashboard/internal/model"
	"mashop-dashboard/internal/series"
)

//go:embed template.html
var templateHTML string

// Build renders the dashboard page for the given maps and their
// projections. daily and points are keyed by map keyword.
func Build(maps []string, daily map[string][]series.DailyPack, points map[string][]series.Point, defaultDays int, minTrade float64) (string, error) {
	mapsJSON, err := json.Marshal(maps)
	if err != nil {
		return "", fmt.Errorf("marshal maps: %w", err)
	}
	dailyJSON, err := json.Marshal(daily)
	if err != nil {
		return "", fmt.Errorf("marshal daily series: %w", err)
	}
	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("marshal points: %w", err)
	}
	hourOrderJSON, err := json.Marshal(model.HourOrder())
	if err != nil {
		return "", fmt.Errorf("marshal hour order: %w", err)
	}

	r := strings.NewReplacer(
		"__DEFAULT_DAYS__", strconv.Itoa(defaultDays),
		"__MIN_TRADE__", strconv.FormatFloat(minTrade, 'f', -1, 64),
		"__MAPS_JSON__", string(mapsJSON),
		"__DAILY_JSON__", string(dailyJSON),
		"__POINTS_JSON__", string(pointsJSON),
		"__HOUR_ORDER__", string(hourOrderJSON),
	)
	return r.Replace(templateHTML), nil
}
