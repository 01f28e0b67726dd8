package utils

import (
	"math"
	"strconv"
	"strings"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// ParseFloat reads the numeric strings ad APIs return; blanks and garbage are zero.
func ParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func ParseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	return int64(ParseFloat(s))
}

// MicrosToUnits converts Google Ads micros to currency units.
func MicrosToUnits(micros int64) float64 {
	return RoundWithTwoDecimalPlace(float64(micros) / 1_000_000)
}

// CentsToUnits converts minor currency units (Meta budgets) to units.
func CentsToUnits(cents int64) float64 {
	return RoundWithTwoDecimalPlace(float64(cents) / 100)
}
