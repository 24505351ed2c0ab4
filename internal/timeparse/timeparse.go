// Package timeparse normalizes the mashop API's timestamp strings into
// a single fixed zone (KST). The API has been inconsistent about
// emitting offset-qualified vs naive timestamps, so every timestamp is
// funneled through Normalize before it touches history or projections:
// offset-qualified values (including Z) are converted to KST, naive
// values are taken as already-KST.
package timeparse

import (
	"fmt"
	"time"

	"mashop-dashboard/internal/model"
)

// KST is the target zone for all stored timestamps. Fixed offset: Korea
// has no DST, and a fixed zone avoids a tzdata dependency.
var KST = time.FixedZone("KST", 9*60*60)

// DateTimeLayout is the canonical persisted form, always KST, no offset.
const DateTimeLayout = "2006-01-02T15:04:05"

// Layouts carrying offset information get converted; the rest are
// interpreted as KST wall time directly.
var offsetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
}

var naiveLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize parses an ISO-8601-ish timestamp string and returns it as
// KST wall time. The returned time always has KST as its location, so
// downstream comparisons never mix zones.
func Normalize(raw string) (time.Time, error) {
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(KST), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, KST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// FormatDateTime renders t in the canonical persisted form.
func FormatDateTime(t time.Time) string {
	return t.In(KST).Format(DateTimeLayout)
}

// FormatDate renders the KST calendar date.
func FormatDate(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}

// FormatTime renders the KST clock time at minute precision.
func FormatTime(t time.Time) string {
	return t.In(KST).Format("15:04")
}

// WeekdayKR returns the Korean weekday label for t (월..일).
func WeekdayKR(t time.Time) string {
	// time.Weekday is Sunday-based; WeekdaysKR is Monday-first.
	return model.WeekdaysKR[(int(t.In(KST).Weekday())+6)%7]
}

// LastNDaysRange returns the inclusive (start, end) date strings for
// the trailing n-day window ending today (KST), or yesterday when
// includeToday is false.
func LastNDaysRange(n int, includeToday bool) (string, string) {
	return lastNDaysRangeAt(time.Now().In(KST), n, includeToday)
}

func lastNDaysRangeAt(now time.Time, n int, includeToday bool) (string, string) {
	end := now
	if !includeToday {
		end = end.AddDate(0, 0, -1)
	}
	start := end.AddDate(0, 0, -(n - 1))
	return FormatDate(start), FormatDate(end)
}
