package token

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var expiresInPattern = regexp.MustCompile(`^([0-9]+)([smhd])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ResolveExpiresIn converts a token lifetime to seconds. Integers are taken
// as seconds, a time.Duration is truncated to whole seconds, and strings must
// look like "15m", "24h" or "7d".
func ResolveExpiresIn(v any) (int64, error) {
	switch n := v.(type) {
	case time.Duration:
		return int64(n / time.Second), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("%d overflows", n))
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("%d overflows", n))
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || math.Abs(n) >= math.MaxInt64 {
			return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("%v is not a whole number of seconds", n))
		}
		return int64(n), nil
	case string:
		return parseExpiresIn(n)
	default:
		return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("type %T", v))
	}
}

func parseExpiresIn(s string) (int64, error) {
	m := expiresInPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("%q", s))
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, newError(ErrCodeUnsupportedExpiresIn, err)
	}
	mult := unitSeconds[m[2]]
	if n > math.MaxInt64/mult {
		return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("%q overflows", s))
	}
	return n * mult, nil
}
