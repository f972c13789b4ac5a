// Package media stores uploaded post images on disk.
package media

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"yatube/app/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageBytes bounds a single upload.
const MaxImageBytes = 5 << 20

const postsDir = "posts"

// Store saves images under root and serves them back.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the directory images are written to.
func (s *Store) Root() string {
	return s.root
}

// Save sniffs r and stores it when it is an image. The returned name is relative to the root.
func (s *Store) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", models.ValidationError{"image": "The submitted file is empty."}
	}
	if len(data) > MaxImageBytes {
		return "", models.ValidationError{"image": fmt.Sprintf("Ensure the file is at most %d bytes.", MaxImageBytes)}
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", models.ValidationError{"image": "Upload a valid image. The file you uploaded was either not an image or a corrupted image."}
	}

	name := path.Join(postsDir, uuid.NewString()+mtype.Extension())
	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image. Missing files are ignored.
func (s *Store) Remove(name string) error {
	clean := path.Clean("/" + name)
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Handler serves stored images under prefix.
func (s *Store) Handler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(s.root)))
}
