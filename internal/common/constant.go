// Package common contains shared constants and sentinel errors used across
// agentmarket client components.
package common

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// AccessTokenMetadataKey is the local metadata key holding the persisted
// bearer token.
const AccessTokenMetadataKey = "access_token"

// LastUsernameMetadataKey remembers who logged in last, to prefill prompts.
const LastUsernameMetadataKey = "last_username"
