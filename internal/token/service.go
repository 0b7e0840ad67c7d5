package token

import (
	"errors"
	"time"
)

// Codec binds Sign and Verify to one secret and a default lifetime.
type Codec struct {
	secret   string
	lifetime time.Duration
	opts     []Option
}

// NewCodec returns a Codec. A zero lifetime issues tokens without exp.
func NewCodec(secret string, lifetime time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if lifetime < 0 {
		return nil, errors.New("token lifetime must not be negative")
	}
	return &Codec{secret: secret, lifetime: lifetime, opts: opts}, nil
}

// Sign signs claims with the codec secret and lifetime.
func (c *Codec) Sign(claims Claims) (string, error) {
	opts := c.opts
	if c.lifetime > 0 {
		opts = append(append([]Option(nil), c.opts...), ExpiresIn(c.lifetime))
	}
	return Sign(claims, c.secret, opts...)
}

// Verify verifies a token signed with the codec secret.
func (c *Codec) Verify(token string) (Claims, error) {
	return Verify(token, c.secret, c.opts...)
}

// VerifyInto verifies a token and decodes its claims into dst.
func (c *Codec) VerifyInto(token string, dst any) error {
	return VerifyInto(token, c.secret, dst, c.opts...)
}
