package models

import "time"

// RefreshToken is a stored, single-use refresh token.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token is no longer usable at now.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.Expires)
}
