package client

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrMalformed    = errors.New("malformed response")

	// ErrInvalidCredentials is a rejected username or password. Unlike
	// ErrUnauthorized it says nothing about the current bearer token.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// GatewayError is the error form of a failed Result. Message is the
// user-facing text; Cause is one of the package sentinels.
type GatewayError struct {
	Message string
	Code    int
	Cause   error
}

func (e *GatewayError) Error() string { return e.Message }

func (e *GatewayError) Unwrap() error { return e.Cause }

// causeForStatus classifies a non-2xx HTTP status.
func causeForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusServiceUnavailable || code == http.StatusBadGateway || code == http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return ErrServer
	}
}
