// Package media stores uploaded post images under the media root.
package media

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PostsDir is the subdirectory of the media root that holds post images.
const PostsDir = "posts"

var ErrNotImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")

// Storage writes files below Root. Stored paths are relative to Root and
// always use forward slashes, e.g. "posts/cat.gif".
type Storage struct {
	Root string
}

func New(root string) *Storage {
	return &Storage{Root: root}
}

// SaveImage checks that src decodes as gif, png or jpeg and stores it as
// posts/<name>. An existing file is never overwritten: a short random suffix is
// added to the name instead.
func (s *Storage) SaveImage(src io.ReadSeeker, filename string) (string, error) {
	if !IsImage(src) {
		return "", ErrNotImage
	}

	dir := filepath.Join(s.Root, PostsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("media: create %s: %w", dir, err)
	}

	name := cleanName(filename)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:8] + ext
		f, err = os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("media: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("media: close file: %w", err)
	}
	return path.Join(PostsDir, name), nil
}

// IsImage reports whether src starts with a gif, png or jpeg header.
// The reader is rewound afterwards.
func IsImage(src io.ReadSeeker) bool {
	_, _, err := image.DecodeConfig(src)
	if _, seekErr := src.Seek(0, io.SeekStart); seekErr != nil {
		return false
	}
	return err == nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Storage) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	full := filepath.Join(s.Root, filepath.FromSlash(path.Clean("/" + rel)))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media: remove %s: %w", rel, err)
	}
	return nil
}

// cleanName keeps only the base name and replaces characters that are unsafe
// in URLs and file systems.
func cleanName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := filepath.Ext(base)
	stem := strings.Trim(sanitize(strings.TrimSuffix(base, ext)), ".")
	if stem == "" {
		stem = uuid.NewString()[:8]
	}
	return stem + sanitize(ext)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
