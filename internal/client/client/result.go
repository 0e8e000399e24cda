package client

// Status is the outcome tag of every gateway call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the uniform shape of every gateway call. Gateways never return
// Go errors or panic; a failure is a Result with Status == StatusError and
// a user-facing Error message.
type Result[T any] struct {
	Status Status
	Data   T
	Error  string

	// Code is the HTTP status of the response, 0 if none was received.
	Code int

	cause error
}

// Success wraps data in a successful Result.
func Success[T any](data T) Result[T] {
	return Result[T]{Status: StatusSuccess, Data: data}
}

// Failure builds a failed Result carrying message and a sentinel cause.
func Failure[T any](message string, code int, cause error) Result[T] {
	return Result[T]{Status: StatusError, Error: message, Code: code, cause: cause}
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess
}

// Err converts a failed Result to a *GatewayError so it can travel through
// ordinary error returns. It returns nil on success.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	cause := r.cause
	if cause == nil {
		cause = ErrServer
	}
	return &GatewayError{Message: r.Error, Code: r.Code, Cause: cause}
}

// IsUnauthorized reports whether the server rejected the bearer token.
func (r Result[T]) IsUnauthorized() bool {
	return r.cause == ErrUnauthorized
}

// mapResult carries a failure over to a Result of another type.
func mapResult[T, U any](r Result[T], data U) Result[U] {
	if !r.OK() {
		return Result[U]{Status: StatusError, Error: r.Error, Code: r.Code, cause: r.cause}
	}
	return Success(data)
}
