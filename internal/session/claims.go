// ABOUTME: Best-effort decoding of JWT bearer tokens for display
// ABOUTME: Signatures are not verified; never use the result for authorization

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a token without its signing key.
type TokenInfo struct {
	Opaque    bool
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect decodes token claims without verifying the signature. Tokens
// that are not JWTs are reported as opaque.
func Inspect(token string) TokenInfo {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return TokenInfo{Opaque: true}
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}
