// Package storage contains the content area uploaded attachments are kept in
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage keeps attachment bytes under a flat key space. Writing an existing
// key overwrites it.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns where the public can fetch key from
	URL(key string) string
}
