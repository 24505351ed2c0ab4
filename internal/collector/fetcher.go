package collector

// RawRecord is one record as the price-stat API reports it, before
// timestamp normalization. Price and TradeCount are nil when absent
// from the payload.
type RawRecord struct {
	DateTime   string   `json:"dateTime"`
	MapName    string   `json:"mapName"`
	Price      *float64 `json:"price"`
	TradeCount *float64 `json:"tradeCount"`
	TimeUnit   string   `json:"timeUnit"`
}

// Fetcher defines the interface for fetching map price statistics.
// FetchPeriod also returns the verbatim response body so callers can
// persist it for audit before any record is dropped or transformed.
type Fetcher interface {
	FetchPeriod(keyword, startDate, endDate string) ([]RawRecord, []byte, error)
	Name() string
}
