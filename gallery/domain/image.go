package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes a caller can act on. Check with
// errors.Is; implementations wrap these with context.
var (
	// ErrNotFound is returned when the referenced filename does not exist.
	ErrNotFound = errors.New("image not found")

	// ErrCorrupt is returned when a stored file exists but cannot be decoded.
	ErrCorrupt = errors.New("stored image is corrupt")

	// ErrStoreUnavailable is returned when the backing directory cannot be accessed.
	ErrStoreUnavailable = errors.New("image store unavailable")

	// ErrUnsupportedFormat is returned when uploaded bytes are not a recognizable image.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidInput is returned for malformed request data, such as an empty filename.
	ErrInvalidInput = errors.New("invalid input")
)

// Metadata describes a stored image, derived on read rather than persisted.
type Metadata struct {
	Format string // canonical format name, e.g. "PNG"
	Width  int
	Height int
	Mode   string // color mode, e.g. "RGB", "RGBA", "L"
}

// Size renders the pixel dimensions as a "WxH" string.
func (m Metadata) Size() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Store is filename-keyed access to the canonical image directory.
// Implementations must be safe for concurrent use: writes appear atomic to
// readers, and a read racing a delete fails with ErrNotFound rather than
// observing a partial file.
type Store interface {
	// List returns every filename in the store carrying the canonical
	// extension. It does not validate that entries decode.
	List(ctx context.Context) ([]string, error)

	// Read returns the stored bytes along with metadata derived from them.
	Read(ctx context.Context, filename string) ([]byte, Metadata, error)

	// Write creates or fully replaces the file under filename.
	Write(ctx context.Context, filename string, data []byte) error

	// Delete removes the file if present and reports whether it existed.
	// A missing file is not an error.
	Delete(ctx context.Context, filename string) (bool, error)
}
