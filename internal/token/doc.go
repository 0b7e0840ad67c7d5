// Package token is a minimal HS256 JSON Web Token codec.
//
// Tokens are the usual three base64url segments (RFC 7519, no padding). The
// codec keeps no state: there is no token store and no revocation list, and
// Sign/Verify are safe to call from any number of goroutines.
//
// Verification is all-or-nothing and fails with one of:
//
//   - ErrMalformed: wrong segment count or undecodable header/payload
//   - ErrUnsupportedAlgorithm: header alg is not HS256
//   - ErrInvalidSignature: HMAC mismatch
//   - ErrExpired / ErrNotYetValid: exp or nbf rejects the current time
package token
