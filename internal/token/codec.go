package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// Algorithm is the only JWS algorithm produced and accepted.
	Algorithm = "HS256"
	tokenType = "JWT"
	segments  = 3
)

var (
	b64       = base64.RawURLEncoding
	b64Strict = base64.RawURLEncoding.Strict()
)

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type options struct {
	now          func() time.Time
	expiresIn    any
	hasExpiresIn bool
}

// Option configures Sign and Verify.
type Option func(*options)

// ExpiresIn sets the token lifetime used to derive exp when the payload has
// none. See ResolveExpiresIn for accepted values. Verify ignores it.
func ExpiresIn(v any) Option {
	return func(o *options) {
		o.expiresIn = v
		o.hasExpiresIn = true
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Sign produces a compact HS256 JWT for payload.
//
// The payload is copied. iat is set to the current time when absent, and exp
// is derived from ExpiresIn when that option is given and exp is absent.
func Sign(payload Claims, secret string, opts ...Option) (string, error) {
	o := buildOptions(opts)

	var lifetime int64
	if o.hasExpiresIn {
		secs, err := ResolveExpiresIn(o.expiresIn)
		if err != nil {
			return "", err
		}
		lifetime = secs
	}

	claims := payload.Clone()
	now := o.now().Unix()
	if claims[ClaimIssuedAt] == nil {
		claims[ClaimIssuedAt] = now
	}
	if o.hasExpiresIn && claims[ClaimExpiresAt] == nil {
		base := float64(now)
		if iat, ok := numeric(claims[ClaimIssuedAt]); ok {
			base = iat
		}
		exp, err := expiry(base, lifetime)
		if err != nil {
			return "", err
		}
		claims[ClaimExpiresAt] = exp
	}

	headerJSON, err := json.Marshal(header{Alg: Algorithm, Typ: tokenType})
	if err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	signingInput := b64.EncodeToString(headerJSON) + "." + b64.EncodeToString(payloadJSON)
	sig := mac(signingInput, secret)
	return signingInput + "." + b64.EncodeToString(sig), nil
}

// Verify checks the token shape, algorithm, signature and temporal claims
// and returns the payload. Every failure is a *Error; see the Err* sentinels.
func Verify(token, secret string, opts ...Option) (Claims, error) {
	claims, _, err := verify(token, secret, buildOptions(opts))
	return claims, err
}

// VerifyInto verifies token like Verify and decodes the payload into dst,
// which must be a pointer to the caller's claim struct or map.
func VerifyInto(token, secret string, dst any, opts ...Option) error {
	_, payloadJSON, err := verify(token, secret, buildOptions(opts))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payloadJSON, dst); err != nil {
		return newError(ErrCodeMalformed, fmt.Errorf("decode claims: %w", err))
	}
	return nil
}

func verify(token, secret string, o options) (Claims, []byte, error) {
	parts := strings.Split(token, ".")
	if len(parts) != segments {
		return nil, nil, newError(ErrCodeMalformed, fmt.Errorf("expected %d segments, got %d", segments, len(parts)))
	}

	headerJSON, err := b64.DecodeString(parts[0])
	if err != nil {
		return nil, nil, newError(ErrCodeMalformed, fmt.Errorf("decode header: %w", err))
	}
	payloadJSON, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil, nil, newError(ErrCodeMalformed, fmt.Errorf("decode payload: %w", err))
	}

	var hdr map[string]any
	if err := json.Unmarshal(headerJSON, &hdr); err != nil || hdr == nil {
		return nil, nil, newError(ErrCodeMalformed, errors.New("header is not a JSON object"))
	}
	if alg, _ := hdr["alg"].(string); alg != Algorithm {
		return nil, nil, newError(ErrCodeUnsupportedAlgorithm, fmt.Errorf("alg %v", hdr["alg"]))
	}

	sig, err := b64Strict.DecodeString(parts[2])
	if err != nil {
		return nil, nil, newError(ErrCodeInvalidSignature, err)
	}
	if !hmac.Equal(sig, mac(parts[0]+"."+parts[1], secret)) {
		return nil, nil, ErrInvalidSignature
	}

	claims, err := decodeClaims(payloadJSON)
	if err != nil {
		return nil, nil, newError(ErrCodeMalformed, err)
	}

	now := float64(o.now().Unix())
	if exp, ok := numeric(claims[ClaimExpiresAt]); ok && now >= exp {
		return nil, nil, newError(ErrCodeExpired, fmt.Errorf("exp %v", claims[ClaimExpiresAt]))
	}
	if nbf, ok := numeric(claims[ClaimNotBefore]); ok && now < nbf {
		return nil, nil, newError(ErrCodeNotYetValid, fmt.Errorf("nbf %v", claims[ClaimNotBefore]))
	}
	return claims, payloadJSON, nil
}

func decodeClaims(payloadJSON []byte) (Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(payloadJSON))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if raw == nil {
		return nil, errors.New("payload is not a JSON object")
	}
	return Claims(normalizeNumbers(raw).(map[string]any)), nil
}

// expiry adds lifetime to the iat value, rejecting results outside int64.
func expiry(iat float64, lifetime int64) (int64, error) {
	if iat >= math.MaxInt64 || iat < math.MinInt64 {
		return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("iat %v out of range", iat))
	}
	base := int64(iat)
	if (lifetime > 0 && base > math.MaxInt64-lifetime) || (lifetime < 0 && base < math.MinInt64-lifetime) {
		return 0, newError(ErrCodeUnsupportedExpiresIn, fmt.Errorf("iat %d plus %d seconds overflows", base, lifetime))
	}
	return base + lifetime, nil
}

func mac(signingInput, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(signingInput))
	return h.Sum(nil)
}
