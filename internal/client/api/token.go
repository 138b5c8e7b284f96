package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/bladmin/internal/client/models"
)

var ErrNoToken = errors.New("no access token")

// DecodeToken reads the claims of an access token without verifying its
// signature. The client never holds the signing key; this is for display only.
func DecodeToken(raw string, now time.Time) (*models.TokenClaims, error) {
	if raw == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	out := &models.TokenClaims{Extra: map[string]any{}}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
		out.Expired = !now.Before(exp.Time)
	}
	for k, v := range claims {
		switch k {
		case "sub", "iat", "exp":
		default:
			out.Extra[k] = v
		}
	}
	return out, nil
}
