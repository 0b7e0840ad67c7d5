package token

import (
	"encoding/json"
	"math"
	"time"
)

// Reserved claim names handled by Sign and Verify.
const (
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
	ClaimSubject   = "sub"
	ClaimID        = "jti"
)

// Claims is an open set of token claims. Numeric values returned by Verify
// are int64 when integral and float64 otherwise.
type Claims map[string]any

// Clone returns a shallow copy of c.
func (c Claims) Clone() Claims {
	out := make(Claims, len(c)+2)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// String returns the named claim when it is a string.
func (c Claims) String(name string) (string, bool) {
	s, ok := c[name].(string)
	return s, ok
}

// Int64 returns the named claim when it is an integral number.
func (c Claims) Int64(name string) (int64, bool) {
	f, ok := numeric(c[name])
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Subject returns the sub claim, or "".
func (c Claims) Subject() string {
	s, _ := c.String(ClaimSubject)
	return s
}

// ExpiresAt returns the exp claim as a time.
func (c Claims) ExpiresAt() (time.Time, bool) {
	return c.unixTime(ClaimExpiresAt)
}

// IssuedAt returns the iat claim as a time.
func (c Claims) IssuedAt() (time.Time, bool) {
	return c.unixTime(ClaimIssuedAt)
}

func (c Claims) unixTime(name string) (time.Time, bool) {
	f, ok := numeric(c[name])
	if !ok {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)), true
}

// numeric converts the number representations a claim can hold to float64.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// normalizeNumbers replaces json.Number values (from a UseNumber decoder)
// with int64 or float64, recursing into objects and arrays.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}
