// Package storage persists uploaded post images on local disk and serves them
// under the /images URL prefix.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/postboard/feed-api/internal/core/domain"
)

const urlPrefix = "/images/"

// sniffLen is how many leading bytes the content sniffer needs.
const sniffLen = 3072

// DiskStore writes images to a single flat directory. Filenames are prefixed
// with the upload timestamp; same-instant uploads of one client filename are
// disambiguated at create time.
type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates the directory if needed and returns a store over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Save sniffs the content type, rejects anything that is not a png or jpeg,
// and writes the file. The returned value is the URL path the image is served
// under, which is also the handle Remove expects.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("image store: read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !mtype.Is("image/png") && !mtype.Is("image/jpeg") {
		return "", domain.ErrUnsupportedImage
	}

	f, name, err := s.createUnique(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(head); err != nil {
		return "", fmt.Errorf("image store: write: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("image store: write: %w", err)
	}

	return urlPrefix + name, nil
}

// createUnique opens a new file under a timestamped name. Two uploads of the
// same client filename within the same millisecond collide on the exclusive
// create; the retry disambiguates with a random infix.
func (s *DiskStore) createUnique(filename string) (*os.File, string, error) {
	stamp := s.now().UTC().Format("2006-01-02T15-04-05.000Z")
	name := stamp + "-" + sanitize(filename)
	for attempt := 0; ; attempt++ {
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !os.IsExist(err) || attempt >= 3 {
			return nil, "", fmt.Errorf("image store: create: %w", err)
		}
		name = stamp + "-" + randSuffix() + "-" + sanitize(filename)
	}
}

func randSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Remove deletes a stored image by the URL path Save returned. Unknown paths
// are not an error; cleanup is idempotent.
func (s *DiskStore) Remove(urlPath string) error {
	name := strings.TrimPrefix(urlPath, urlPrefix)
	// Base strips any directory components a corrupt URL could smuggle in.
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("image store: remove: %w", err)
	}
	return nil
}

// sanitize keeps the client filename readable while stripping path separators
// and characters that are awkward in URLs.
func sanitize(filename string) string {
	base := filepath.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
