// Package series derives the dashboard's two read-oriented views from
// a map's history: per-date hourly packs for the raw chart, and a
// flattened recent-point list the browser aggregates into weekday
// averages. Both are recomputed from scratch every run.
package series

import (
	"sort"
	"time"

	"mashop-dashboard/internal/model"
	"mashop-dashboard/internal/timeparse"
)

// DailyPack is one calendar date's hourly-bucketed values. X is always
// the full 24-slot hour order; Y and Hover align with it (nil Y for a
// missing hour). Hover entries are [hour, price, tradeCount, date,
// weekday], all preformatted strings.
type DailyPack struct {
	Label string      `json:"label"`
	X     []string    `json:"x"`
	Y     []*float64  `json:"y"`
	Hover [][5]string `json:"hover"`
}

// Point is one lightweight sample for client-side weekday/hour
// averaging. TradeCount stays nullable so the client can distinguish
// "no volume reported" from zero.
type Point struct {
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Weekday    string   `json:"weekday"`
	Price      float64  `json:"price"`
	TradeCount *float64 `json:"tradeCount"`
}

// BuildDailySeries groups history by calendar date and lays each date
// out over the fixed hour order. When several records collide on the
// same date+hour, the last one in ascending timestamp order wins.
// Rows with unparseable timestamps are skipped.
func BuildDailySeries(h model.History) []DailyPack {
	type sample struct {
		t   time.Time
		rec model.PriceRecord
	}
	byDate := make(map[string][]sample)
	for _, rec := range h {
		t, err := timeparse.Normalize(rec.DateTime)
		if err != nil {
			continue
		}
		d := timeparse.FormatDate(t)
		byDate[d] = append(byDate[d], sample{t, rec})
	}
	if len(byDate) == 0 {
		return []DailyPack{}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	hourOrder := model.HourOrder()
	packs := make([]DailyPack, 0, len(dates))
	for _, d := range dates {
		samples := byDate[d]
		sort.SliceStable(samples, func(i, j int) bool { return samples[i].t.Before(samples[j].t) })

		byHour := make(map[string]model.PriceRecord, len(samples))
		for _, s := range samples {
			byHour[timeparse.FormatTime(s.t)] = s.rec
		}

		pack := DailyPack{
			Label: d,
			X:     hourOrder,
			Y:     make([]*float64, 0, len(hourOrder)),
			Hover: make([][5]string, 0, len(hourOrder)),
		}
		for _, hour := range hourOrder {
			rec, ok := byHour[hour]
			wd := rec.Weekday
			if wd == "" {
				wd = "-"
			}
			if !ok || rec.Price == nil {
				pack.Y = append(pack.Y, nil)
				pack.Hover = append(pack.Hover, [5]string{hour, "-", "-", d, wd})
				continue
			}
			pack.Y = append(pack.Y, rec.Price)
			pack.Hover = append(pack.Hover, [5]string{
				hour,
				FormatPriceKR(*rec.Price),
				FormatTradeCount(rec.TradeCount),
				d,
				wd,
			})
		}
		packs = append(packs, pack)
	}
	return packs
}

// BuildPoints flattens the trailing maxDays window of history, judged
// against the supplied run time, into price-bearing points. Duplicate
// timestamps collapse to the last-seen record; records without a price
// are dropped so the client's averages stay honest.
func BuildPoints(h model.History, maxDays int, now time.Time) []Point {
	cutoff := now.In(timeparse.KST).AddDate(0, 0, -maxDays)

	type sample struct {
		t   time.Time
		rec model.PriceRecord
	}
	samples := make([]sample, 0, len(h))
	for _, rec := range h {
		t, err := timeparse.Normalize(rec.DateTime)
		if err != nil {
			continue
		}
		if t.Before(cutoff) {
			continue
		}
		samples = append(samples, sample{t, rec})
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].t.Before(samples[j].t) })

	lastIdx := make(map[string]int, len(samples))
	for i, s := range samples {
		lastIdx[s.rec.DateTime] = i
	}

	pts := make([]Point, 0, len(samples))
	for i, s := range samples {
		if lastIdx[s.rec.DateTime] != i || s.rec.Price == nil {
			continue
		}
		wd := s.rec.Weekday
		if wd == "" {
			wd = "-"
		}
		pts = append(pts, Point{
			Date:       timeparse.FormatDate(s.t),
			Time:       timeparse.FormatTime(s.t),
			Weekday:    wd,
			Price:      *s.rec.Price,
			TradeCount: s.rec.TradeCount,
		})
	}
	return pts
}
