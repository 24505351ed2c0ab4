package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher(handler http.HandlerFunc) (*MashopFetcher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewMashopFetcher(srv.URL, "", 5*time.Second), srv
}

func TestFetchPeriod_BareList(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("keyword") != "미나르숲:남겨진 용의 둥지" {
			t.Errorf("keyword not passed: %q", q.Get("keyword"))
		}
		if q.Get("startDate") != "2025-06-01" || q.Get("endDate") != "2025-06-07" {
			t.Errorf("date range not passed: %q..%q", q.Get("startDate"), q.Get("endDate"))
		}
		w.Write([]byte(`[{"dateTime":"2025-06-01T10:00:00","mapName":"남겨진 용의 둥지","price":1500000,"tradeCount":12,"timeUnit":"HOUR"}]`))
	})
	defer srv.Close()

	records, body, err := f.FetchPeriod("미나르숲:남겨진 용의 둥지", "2025-06-01", "2025-06-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.DateTime != "2025-06-01T10:00:00" || r.MapName != "남겨진 용의 둥지" || r.TimeUnit != "HOUR" {
		t.Errorf("record fields wrong: %+v", r)
	}
	if r.Price == nil || *r.Price != 1500000 {
		t.Errorf("price wrong: %v", r.Price)
	}
	if r.TradeCount == nil || *r.TradeCount != 12 {
		t.Errorf("tradeCount wrong: %v", r.TradeCount)
	}
	if len(body) == 0 || body[0] != '[' {
		t.Errorf("expected verbatim body, got %q", body)
	}
}

func TestFetchPeriod_WrappedEnvelopes(t *testing.T) {
	for _, key := range []string{"data", "items", "result", "content"} {
		payload := `{"` + key + `":[{"dateTime":"2025-06-01T10:00:00","price":100}]}`
		f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		})

		records, _, err := f.FetchPeriod("kw", "2025-06-01", "2025-06-07")
		srv.Close()
		if err != nil {
			t.Errorf("key %q: unexpected error: %v", key, err)
			continue
		}
		if len(records) != 1 {
			t.Errorf("key %q: expected 1 record, got %d", key, len(records))
		}
	}
}

func TestFetchPeriod_UnknownShapeDegradesToEmpty(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"maintenance","status":"down"}`))
	})
	defer srv.Close()

	records, _, err := f.FetchPeriod("kw", "2025-06-01", "2025-06-07")
	if err != nil {
		t.Fatalf("unknown shape must not error, got: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty records, got %d", len(records))
	}
}

func TestFetchPeriod_ScalarBodyDegradesToEmpty(t *testing.T) {
	for _, payload := range []string{`"maintenance"`, `123`, `true`, `[1,2,3]`} {
		f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		})

		records, _, err := f.FetchPeriod("kw", "2025-06-01", "2025-06-07")
		srv.Close()
		if err != nil {
			t.Errorf("payload %s: must not error, got: %v", payload, err)
			continue
		}
		if len(records) != 0 {
			t.Errorf("payload %s: expected empty records, got %d", payload, len(records))
		}
	}
}

func TestFetchPeriod_AbsentFieldsStayNil(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"dateTime":"2025-06-01T10:00:00"}]`))
	})
	defer srv.Close()

	records, _, err := f.FetchPeriod("kw", "2025-06-01", "2025-06-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Price != nil || records[0].TradeCount != nil {
		t.Errorf("absent fields should be nil: %+v", records[0])
	}
}

func TestFetchPeriod_Non2xxFails(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})
	defer srv.Close()

	if _, _, err := f.FetchPeriod("어느맵", "2025-06-01", "2025-06-07"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestFetchPeriod_InvalidJSONFails(t *testing.T) {
	f, srv := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	})
	defer srv.Close()

	if _, _, err := f.FetchPeriod("kw", "2025-06-01", "2025-06-07"); err == nil {
		t.Fatal("expected error for unparseable body")
	}
}

func TestMockFetcher(t *testing.T) {
	m := &MockFetcher{ByKeyword: map[string][]RawRecord{
		"a": {{DateTime: "2025-06-01T10:00:00"}},
	}}
	records, body, err := m.FetchPeriod("a", "", "")
	if err != nil || len(records) != 1 || len(body) == 0 {
		t.Errorf("mock fetch wrong: %v %d %d", err, len(records), len(body))
	}
	records, _, _ = m.FetchPeriod("b", "", "")
	if len(records) != 0 {
		t.Errorf("expected no records for unknown keyword, got %d", len(records))
	}
}
