package domain

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeCount interprets numeric form input. Every non-digit character is
// dropped and an empty result is 0. Values beyond the int32 range saturate.
func NormalizeCount(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return math.MaxInt32
	}
	return int(n)
}
