package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Plain decimal or scientific notation. Thousands separators, currency
// symbols, hex and textual infinities are rejected.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber coerces a cell to a number. Surrounding whitespace is ignored.
// Anything that is not a finite decimal number yields an invalid Number.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return Number{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return Number{}
	}

	return Number{Value: v, Valid: true}
}

// FormatSales renders v as the shortest decimal that round-trips, always
// with a fractional part (35 -> "35.0"). Magnitudes below 1e-4 or at least
// 1e16 use exponent notation (1e+16, 1.5e-05).
func FormatSales(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
