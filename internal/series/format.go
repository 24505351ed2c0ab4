package series

import (
	"fmt"
	"math"
	"strconv"
)

// FormatPriceKR renders a meso amount in Korean units: values from one
// 억 (1e8) up use 억 with at most one decimal (trailing .0 dropped),
// smaller values round to whole 만 (1e4). NaN renders the placeholder;
// negative inputs are treated as their absolute value.
func FormatPriceKR(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	if v < 0 {
		v = -v
	}
	if v >= 100_000_000 {
		eok := math.Round(v/100_000_000*10) / 10
		if eok == math.Trunc(eok) {
			return strconv.FormatFloat(eok, 'f', 0, 64) + "억"
		}
		return strconv.FormatFloat(eok, 'f', 1, 64) + "억"
	}
	return fmt.Sprintf("%d만", int64(math.Round(v/10_000)))
}

// FormatTradeCount renders a trade count as a whole number, or the
// placeholder when absent or NaN.
func FormatTradeCount(tc *float64) string {
	if tc == nil || math.IsNaN(*tc) {
		return "-"
	}
	return strconv.FormatInt(int64(math.Round(*tc)), 10)
}
