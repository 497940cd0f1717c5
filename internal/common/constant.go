// Package common contains shared constants and sentinel errors used across
// AuthKeeper components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// SessionTokenKey and SessionEmailKey are the local persistence keys of a
	// signed-in client session. Both present is the only valid signed-in state.
	SessionTokenKey = "userToken"
	SessionEmailKey = "userEmail"
)
