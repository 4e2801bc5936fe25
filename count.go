package instagram

import (
	"math"
	"strconv"
	"strings"
)

var countMultipliers = map[byte]float64{
	'k': 1_000,
	'm': 1_000_000,
}

// ParseCount converts displayed counts such as "1,234", "5.6K" or "2M" into
// integers. Empty or non-numeric text yields 0; the result is never negative.
func ParseCount(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	if mult, ok := countMultipliers[s[len(s)-1]]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		v := math.Round(f * mult)
		if v >= math.MaxInt64 {
			return 0
		}
		return int(v)
	}

	// Plain integer prefix, so "12.5" reads as 12 and "12 posts" as 12.
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
