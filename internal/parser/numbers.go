package parser

import (
	"strconv"
	"strings"
)

// parseNumberValue converts a lexeme into its float64 value, dispatching on
// its base prefix. The lexeme itself is retained by the caller for later
// literal-type inference (§4.3); this function only needs the value.
func parseNumberValue(lexeme string) (float64, error) {
	neg := false
	s := lexeme
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var v float64
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		n, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		v = float64(n)
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		n, err := strconv.ParseInt(s[2:], 2, 64)
		if err != nil {
			return 0, err
		}
		v = float64(n)
	case strings.HasPrefix(s, "0o"), strings.HasPrefix(s, "0O"):
		n, err := strconv.ParseInt(s[2:], 8, 64)
		if err != nil {
			return 0, err
		}
		v = float64(n)
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		v = f
	}
	if neg {
		v = -v
	}
	return v, nil
}
