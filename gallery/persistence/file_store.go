package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"imagevault/gallery/domain"
)

var _ domain.Store = (*FileStore)(nil)

const canonicalExt = ".png"

// FileStore implements domain.Store on top of a single flat directory.
// The directory listing is the catalog; there is no index beside it.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create image directory: %v", domain.ErrStoreUnavailable, err)
	}
	return &FileStore{dir: dir}, nil
}

// List returns every filename with the canonical extension, case-insensitively.
// Temp files from in-flight writes carry a .tmp suffix and never match.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image directory: %v", domain.ErrStoreUnavailable, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), canonicalExt) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Read returns the stored bytes plus metadata derived from them. Listing does
// not validate decodability, so a listed file can still fail here with ErrCorrupt.
func (s *FileStore) Read(ctx context.Context, filename string) ([]byte, domain.Metadata, error) {
	path, ok := s.path(filename)
	if !ok {
		return nil, domain.Metadata{}, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.Metadata{}, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
	}
	if err != nil {
		return nil, domain.Metadata{}, fmt.Errorf("%w: failed to read %s: %v", domain.ErrStoreUnavailable, filename, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.Metadata{}, fmt.Errorf("%w: %s: %v", domain.ErrCorrupt, filename, err)
	}

	meta := domain.Metadata{
		Format: strings.ToUpper(format),
		Width:  cfg.Width,
		Height: cfg.Height,
		Mode:   modeString(cfg.ColorModel),
	}

	return data, meta, nil
}

// Write replaces the file under filename atomically: content goes to a hidden
// uniquely-named temp file in the same directory, then a rename swaps it into
// place. A concurrent reader sees either the old file or the new one in full.
func (s *FileStore) Write(ctx context.Context, filename string, data []byte) error {
	path, ok := s.path(filename)
	if !ok {
		return fmt.Errorf("%w: bad filename %q", domain.ErrInvalidInput, filename)
	}

	tmp := filepath.Join(s.dir, "."+filename+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write temp file for %s: %v", domain.ErrStoreUnavailable, filename, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %v", domain.ErrStoreUnavailable, filename, err)
	}

	return nil
}

// Delete removes the file if present and reports whether it existed.
func (s *FileStore) Delete(ctx context.Context, filename string) (bool, error) {
	path, ok := s.path(filename)
	if !ok {
		return false, nil
	}

	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to remove %s: %v", domain.ErrStoreUnavailable, filename, err)
	}

	return true, nil
}

// path resolves filename inside the store directory. Anything that is not a
// plain base name (traversal attempts, empty strings) is rejected.
func (s *FileStore) path(filename string) (string, bool) {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return "", false
	}
	return filepath.Join(s.dir, filename), true
}

// modeString maps a decoded color model onto the conventional mode names
// clients expect in the Image-Mode header.
func modeString(m color.Model) string {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return "L"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "RGB"
	case color.NYCbCrAModel:
		return "RGBA"
	case color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	case color.RGBAModel, color.RGBA64Model:
		return "RGB"
	}

	if _, ok := m.(color.Palette); ok {
		return "P"
	}

	return "RGB"
}
