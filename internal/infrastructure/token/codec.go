package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/folioworks/account-service/internal/core/domain"
)

// Codec signs claim payloads as HS256 JWTs with a process-wide secret.
//
// Expiry is carried as a plain "expiry" claim (RFC 3339 string), not the
// registered "exp" claim, so Decode verifies the signature only and never
// rejects an expired payload. Callers own the expiry comparison.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode serializes claims and signs them.
func (c *Codec) Encode(claims map[string]any) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token signature and returns its claims. Malformed
// tokens, wrong signing methods and bad signatures all yield
// domain.ErrInvalidToken.
func (c *Codec) Decode(token string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
