package reconciler

import (
	"math"
	"strconv"
)

// FormatPercent renders a percentage magnitude rounded to one decimal place.
// Whole values drop the decimal ("12" not "12.0") so successive multi-hit
// entries sum visibly without floating-point noise.
func FormatPercent(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		return "0"
	}
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}
