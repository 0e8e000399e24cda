// Package client is the HTTP boundary of the agent marketplace client.
//
// # Overview
//
// AuthGateway and AgentGateway describe the backend surface; HTTPClient
// implements both over net/http. Every call returns a Result, so callers
// inspect Status instead of handling Go errors:
//
//	res := c.ListAgents(ctx, token)
//	if !res.OK() {
//	    fmt.Println(res.Error)
//	}
//
// The error message is the backend's "detail" field when it is a string,
// otherwise a fallback specific to the operation ("Failed to fetch agents").
//
// # Error Handling
//
// Result.Err converts a failure into a *GatewayError whose cause is one of
// ErrUnavailable, ErrUnauthorized, ErrServer or ErrMalformed, for use with
// errors.Is. A rejected login is ErrInvalidCredentials rather than
// ErrUnauthorized, which is kept for bearer tokens the server no longer
// accepts.
//
// The package also bootstraps the local SQLite database (InitDatabase,
// RunMigrations) used to persist the session token.
package client
