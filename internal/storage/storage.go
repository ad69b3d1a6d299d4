// Package storage persists uploaded product and store images behind a
// backend-agnostic interface. Production uses Google Cloud Storage; local
// development and tests write to disk.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// ImageStore saves an uploaded image and returns the URL it is served from.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// AllowedImage reports whether the filename carries a permitted image
// extension and returns its content type.
func AllowedImage(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := allowedExtensions[ext]
	return ct, ok
}
