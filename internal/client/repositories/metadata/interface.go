// Package metadata stores small key/value records in the local client
// database. The persisted bearer token lives here.
package metadata

import (
	"context"
	"time"
)

// Record is one stored value with the time it was last written.
type Record struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Repository is a string-valued key/value store. Get reports ok == false for
// a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (rec Record, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) ([]Record, error)
}
