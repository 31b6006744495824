package formula

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a token to a number the way a lenient numeric
// conversion does: surrounding blanks are ignored, decimal and exponent
// forms, "Infinity" and unsigned 0x/0o/0b integer literals are accepted,
// NaN never is.
//
// A blank token coerces to 0. Tokenizers are expected never to emit one; if
// they do, the evaluator treats it as the number 0.
func ParseNumber(token string) (float64, bool) {
	s := strings.TrimSpace(token)
	switch s {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if v, ok := parsePrefixed(s); ok {
		return v, true
	}
	// strconv also knows "inf", "nan" and hex mantissas; keep to plain decimals.
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune("0123456789.eE+-", rune(s[i])) {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// parsePrefixed reads 0x, 0o and 0b integer literals of any length. Signs,
// underscores and fractions are not allowed.
func parsePrefixed(s string) (float64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	var base float64
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, false
	}
	var v float64
	for i := 2; i < len(s); i++ {
		d := digitValue(s[i])
		if d < 0 || float64(d) >= base {
			return 0, false
		}
		v = v*base + float64(d)
	}
	return v, true
}

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}
