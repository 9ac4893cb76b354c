// Package timefmt converts between a number of seconds and its "M:SS" text.
package timefmt

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// Fallback is what Parse returns for anything that is not "M:SS" shaped.
	Fallback = 15 * 60
	// MaxMinutes and MaxSeconds bound the timer stepper.
	MaxMinutes = 99
	MaxSeconds = MaxMinutes*60 + 59
)

// Format renders seconds as "M:SS" with unpadded minutes.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Parse reads "M:SS" text. Exactly one colon is required, otherwise Fallback
// is returned. Each side is read leniently: leading digits count, anything
// unparseable is 0. The result is never negative.
func Parse(text string) int {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return Fallback
	}
	total := leadingInt(parts[0])*60 + leadingInt(parts[1])
	if total < 0 {
		return 0
	}
	return total
}

// Split returns the minutes and seconds fields of text, 0 where missing.
func Split(text string) (minutes, seconds int) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		s := Fallback
		return s / 60, s % 60
	}
	return leadingInt(parts[0]), leadingInt(parts[1])
}

// leadingInt parses an optional sign and leading decimal digits after any
// whitespace. Trailing text is ignored. Values saturate instead of overflowing.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	const limit = 1 << 30
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		if n < limit {
			n = n*10 + int(c-'0')
		}
	}
	if n > limit {
		n = limit
	}
	if neg {
		return -n
	}
	return n
}
