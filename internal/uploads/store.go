package uploads

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// MaxFileSize is the upload size cap (5 MiB, matching the admin UI contract)
const MaxFileSize = 5 * 1024 * 1024

// URLPrefix is where stored files are served from
const URLPrefix = "/uploads/"

var (
	ErrEmptyFile    = errors.New("no file data provided")
	ErrFileTooLarge = errors.New("file size exceeds the 5MB limit")
	ErrInvalidType  = errors.New("invalid file type, only images are allowed")
	ErrInvalidKey   = errors.New("invalid storage key")
)

// allowedTypes is the image MIME whitelist for product photos
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Store persists uploaded product images on local disk under a root
// directory. Keys look like "products/1700000000000-photo.jpg" and map
// directly to files below the root.
type Store struct {
	root   string
	logger zerolog.Logger
}

// NewStore creates the upload store, ensuring the root directory exists
func NewStore(root string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the store's root directory
func (s *Store) Root() string {
	return s.root
}

// Save validates and writes an uploaded image, returning its storage key
func (s *Store) Save(filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return "", ErrFileTooLarge
	}
	if !allowedTypes[contentType] {
		return "", ErrInvalidType
	}

	key := fmt.Sprintf("products/%d-%s", time.Now().UnixMilli(), sanitizeFilename(filename))
	dest, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Info().
		Str("key", key).
		Int("size", len(data)).
		Str("type", contentType).
		Msg("Upload stored")

	return key, nil
}

// Delete removes a stored file by key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	dest, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// Keys walks the store and returns every stored key
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk upload directory: %w", err)
	}
	return keys, nil
}

// URL returns the public URL for a storage key
func URL(key string) string {
	return URLPrefix + key
}

// KeyFromURL maps a public upload URL back to its storage key.
// Returns "" for URLs outside the upload prefix (e.g. external images).
func KeyFromURL(url string) string {
	if !strings.HasPrefix(url, URLPrefix) {
		return ""
	}
	return strings.TrimPrefix(url, URLPrefix)
}

// resolve turns a key into an absolute path, rejecting traversal outside root
func (s *Store) resolve(key string) (string, error) {
	if key == "" || path.Clean("/"+key) != "/"+key {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// sanitizeFilename strips path separators and whitespace from an uploaded
// filename so it is safe to embed in a storage key
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
