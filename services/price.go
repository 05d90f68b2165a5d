package services

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRegexp captures a Turkish-formatted amount: dots group thousands and
// a comma introduces the decimals, e.g. "2.450.000,50".
var priceRegexp = regexp.MustCompile(`\d[\d.]*(?:,\d+)?`)

// parsePrice extracts the numeric amount from a scraped price string.
// Examples:
//
//	"2.450.000 TL"   → 2450000
//	"₺ 12.500,75"    → 12500.75
//	"Fiyat Sorunuz"  → 0
func parsePrice(raw string) float64 {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return 0
	}

	cleaned := strings.ReplaceAll(match, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}
