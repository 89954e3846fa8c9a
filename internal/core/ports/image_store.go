package ports

import (
	"context"
	"io"
)

// ImageStore persists uploaded post images and exposes them under URL paths.
type ImageStore interface {
	// Save stores the image and returns the URL path it is served under.
	// Rejects content that is not a png or jpeg.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Remove deletes a previously stored image by its URL path.
	Remove(urlPath string) error
}
