package models

import "time"

// AuthSession is the token pair handed out on sign-in and refresh.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
