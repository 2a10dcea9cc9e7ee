package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Plausible single-card prices; anything outside is a typo, a lot total or noise.
const (
	minPlausiblePrice = 1.0
	maxPlausiblePrice = 250000.0
)

var dollarAmount = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+|\d+)(\.\d{1,2})?`)

// PriceStats summarizes the dollar amounts found in a block of text.
type PriceStats struct {
	Market float64 // median
	Lowest float64
	Count  int
}

// ExtractPrices parses "$1,234.56"-style amounts from text, discards
// implausible values and returns the median and minimum. ok is false when
// nothing usable was found.
func ExtractPrices(text string) (stats PriceStats, ok bool) {
	var amounts []float64
	for _, m := range dollarAmount.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "")+m[2], 64)
		if err != nil {
			continue
		}
		if v < minPlausiblePrice || v > maxPlausiblePrice {
			continue
		}
		amounts = append(amounts, v)
	}
	if len(amounts) == 0 {
		return PriceStats{}, false
	}

	sort.Float64s(amounts)
	return PriceStats{
		Market: median(amounts),
		Lowest: amounts[0],
		Count:  len(amounts),
	}, true
}

// median of an ascending slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
