package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned by Inspect for tokens that are not JWTs.
var ErrOpaqueToken = errors.New("token is not a JWT")

// Claims is what the client can learn from an access token without the signing key.
type Claims struct {
	Subject   string
	UserID    string
	ExpiresAt time.Time // zero when the token carries no exp
	IssuedAt  time.Time
}

// Expired reports whether the token's exp lies before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type accessClaims struct {
	UserID any `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Inspect decodes an access token's claims without verifying its signature.
// The result is for display only and must never be used for authorization.
func Inspect(access string) (Claims, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return Claims{}, ErrOpaqueToken
	}

	out := Claims{Subject: claims.Subject}
	if claims.UserID != nil {
		out.UserID = formatUserID(claims.UserID)
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func formatUserID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
