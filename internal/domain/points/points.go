package points

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Crore = int64(10_000_000)
	Lakh  = int64(100_000)
	// BidUnit is the rounding step for bids and preferred max bids ("10 lakh").
	BidUnit = 10 * Lakh

	croreSuffix = "Cr"
)

// FormatCrores renders points as crores rounded to one decimal, e.g. "1.5 Cr".
func FormatCrores(value int64) string {
	crores := float64(value) / float64(Crore)
	rounded := math.Round(crores*10) / 10
	if rounded == 0 {
		// Small negatives round to -0, which FormatFloat prints as "-0".
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + croreSuffix
}

// ParseCrores reads a crore amount, with or without the display suffix.
func ParseCrores(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if len(value) >= len(croreSuffix) && strings.EqualFold(value[len(value)-len(croreSuffix):], croreSuffix) {
		value = strings.TrimSpace(value[:len(value)-len(croreSuffix)])
	}
	if value == "" {
		return 0, fmt.Errorf("crore amount is required")
	}

	crores, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse crore amount %q: %w", raw, err)
	}
	if math.IsNaN(crores) || math.IsInf(crores, 0) {
		return 0, fmt.Errorf("crore amount %q is not finite", raw)
	}
	return crores, nil
}

func CroresToPoints(crores float64) int64 {
	return int64(math.Round(crores * float64(Crore)))
}

// RoundToTenLakh rounds to the nearest BidUnit; halves round up.
func RoundToTenLakh(value int64) int64 {
	shifted := value + BidUnit/2
	q := shifted / BidUnit
	if shifted%BidUnit < 0 {
		q--
	}
	return q * BidUnit
}
