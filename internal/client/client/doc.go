// Package client talks to the AuthKeeper server.
//
// # Overview
//
// Client is the transport-agnostic contract (CreateAccount, Authenticate,
// GetProfile, Ping). HTTPClient implements it with JSON over HTTP against the
// /auth/signup, /auth/login, /profile and /ping endpoints.
//
// # Error Handling
//
// Every call returns at most one error, always one of:
//
//   - ErrUnavailable: no HTTP response (network loss, refused, timeout)
//   - *ProviderError: a non-2xx response; Message comes from the JSON
//     {"error": "..."} body when present, otherwise from the status line
//   - ErrMalformedResponse: a 2xx response with an unusable body
//
// Match them with errors.Is / errors.As. Transport errors never escape as
// raw net/url errors.
package client
