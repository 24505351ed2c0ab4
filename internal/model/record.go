package model

import "fmt"

// PriceRecord is one observed price/trade-volume sample for a map at a
// local (KST) point in time. Price and TradeCount are nil when the API
// did not report them.
type PriceRecord struct {
	MapName    string   `json:"mapName"`
	DateTime   string   `json:"dateTime"` // 2006-01-02T15:04:05, KST, no offset
	Date       string   `json:"date"`     // 2006-01-02
	Time       string   `json:"time"`     // 15:04
	Weekday    string   `json:"weekday"`  // 월..일
	Price      *float64 `json:"price"`
	TradeCount *float64 `json:"tradeCount"`
	TimeUnit   string   `json:"timeUnit"`
}

// History is one map's accumulated record set, ascending by DateTime.
type History []PriceRecord

// WeekdaysKR lists the Korean weekday labels, Monday first. Persisted
// history rows and the dashboard's client-side aggregation both key on
// these exact strings.
var WeekdaysKR = [7]string{"월", "화", "수", "목", "금", "토", "일"}

// HourOrder returns the dashboard's hour-slot ordering: 01:00 through
// 23:00, then 00:00 last. This is the site's display convention, not
// chronological order.
func HourOrder() []string {
	hours := make([]string, 0, 24)
	for h := 1; h < 24; h++ {
		hours = append(hours, fmt.Sprintf("%02d:00", h))
	}
	return append(hours, "00:00")
}
