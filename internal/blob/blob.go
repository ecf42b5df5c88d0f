// Package blob stores attachment bytes outside the relational store.
// Keys are attachment ids; metadata lives in SQLite.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store persists attachment bytes.
type Store interface {
	Put(ctx context.Context, key string, content io.Reader) error
	// Get streams the blob; the caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
