package models

import "time"

// TokenClaims is the decoded, unverified view of an access token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Expired   bool
	Extra     map[string]any
}

// Remaining is the time left before expiry, zero once expired or unknown.
func (c TokenClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt.IsZero() || !now.Before(c.ExpiresAt) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
