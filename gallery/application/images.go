package application

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imagevault/gallery/domain"
)

const canonicalExt = ".png"

// ImageService owns the ingest pipeline and fronts the store for the
// transport layer. All state lives in the injected store.
type ImageService struct {
	store domain.Store
}

func NewImageService(store domain.Store) *ImageService {
	return &ImageService{store: store}
}

// Ingest decodes the uploaded bytes, derives the canonical filename from the
// original one, re-encodes to PNG and persists the result, overwriting any
// prior record under the same name (last write wins). The decoded intermediate
// never touches the store directory; only canonical bytes are written.
func (s *ImageService) Ingest(ctx context.Context, originalName string, data []byte) (string, error) {
	if originalName == "" {
		return "", fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}

	canonical := CanonicalName(originalName)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode %s as png: %w", canonical, err)
	}

	if err := s.store.Write(ctx, canonical, buf.Bytes()); err != nil {
		return "", err
	}

	return canonical, nil
}

// List returns the filenames currently in the store.
func (s *ImageService) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// Get returns the stored bytes and derived metadata for filename.
func (s *ImageService) Get(ctx context.Context, filename string) ([]byte, domain.Metadata, error) {
	return s.store.Read(ctx, filename)
}

// Delete removes filename from the store, reporting whether it existed.
func (s *ImageService) Delete(ctx context.Context, filename string) (bool, error) {
	return s.store.Delete(ctx, filename)
}

// CanonicalName strips any path and extension from an upload's original name
// and substitutes the canonical extension.
func CanonicalName(originalName string) string {
	base := filepath.Base(originalName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + canonicalExt
}
