package storage

import (
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("stored object not found")

// Provider defines the behavior for any storage backend holding uploaded
// images. Keys are slash separated ("profiles/ab12.png").
type Provider interface {
	Get(key string) (*FileObject, error)
	Put(key string, body io.ReadSeeker, contentType string) error
	Delete(key string) error
	Exists(key string) (bool, error)
}

// FileObject is the provider-agnostic representation of a file.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}
