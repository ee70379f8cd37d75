// Package money converts between integer rupiah amounts and their
// Indonesian-locale display form ("Rp 1.500.000", dot-grouped, no cents).
package money

import (
	"math"
	"strings"
)

// Format renders n as an id-ID currency string with an "Rp" prefix.
// Negative amounts are clamped to zero; rupiah amounts in this system are
// never fractional or negative.
func Format(n int64) string {
	if n < 0 {
		n = 0
	}
	digits := make([]byte, 0, 24)
	if n == 0 {
		digits = append(digits, '0')
	}
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}

	var b strings.Builder
	b.WriteString("Rp ")
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
		if i > 0 && i%3 == 0 {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Parse extracts the integer amount from a currency string by discarding
// every non-digit rune. Input with no digits parses as zero, so a field
// mid-edit never raises an error. Amounts past the int64 range saturate
// at the maximum instead of wrapping negative.
func Parse(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		d := int64(r - '0')
		if n > (math.MaxInt64-d)/10 {
			return math.MaxInt64
		}
		n = n*10 + d
	}
	return n
}
