package models

import "time"

// Profile is the one row per user kept next to the account. ID equals the
// user id.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	// AvatarKey is the object-storage key of the avatar, empty when unset.
	AvatarKey string
	// AvatarURL is a short-lived download link filled in on read.
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
