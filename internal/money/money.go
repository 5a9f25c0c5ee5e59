// Package money formats amounts for display.
package money

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatUSD renders v as en-US dollars with two decimals, e.g. "$1,234.50".
func FormatUSD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	// Avoid "-$0.00" for tiny negative rounding noise.
	if math.Abs(v) < 0.005 {
		v = 0
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}
