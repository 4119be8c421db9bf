package exporter

import (
	"fmt"
	"math"
)

// formatRate formats per-90 rate metrics (PrgDist, 90s) with 1 decimal.
func formatRate(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *f)
}

// formatPasses formats progressive pass counts with 2 decimals.
func formatPasses(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *f)
}

// formatAge renders whole ages without a decimal point.
func formatAge(f *float64) string {
	if f == nil {
		return ""
	}
	if *f == math.Trunc(*f) {
		return fmt.Sprintf("%d", int64(*f))
	}
	return fmt.Sprintf("%.1f", *f)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
