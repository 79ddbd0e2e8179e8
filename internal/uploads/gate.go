// Package uploads constrains image attachments by content type and size
// before anything reaches disk, and stores accepted files in the public
// upload directory.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

// DefaultMaxBytes is the fixed upload size ceiling (5 MiB).
const DefaultMaxBytes = 5 << 20

// Gate validates and stores a single image attachment per request.
type Gate struct {
	dir      string
	maxBytes int64
}

// NewGate constructs a Gate writing into dir.
func NewGate(dir string, maxBytes int64) *Gate {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Gate{dir: dir, maxBytes: maxBytes}
}

// MaxBytes returns the size ceiling enforced by the gate.
func (g *Gate) MaxBytes() int64 {
	return g.maxBytes
}

// Dir returns the public upload directory.
func (g *Gate) Dir() string {
	return g.dir
}

// Accept checks the declared content type and size, then stores the file
// under its original base name. Files keep the client-supplied name, so
// a later upload with the same name overwrites the earlier one.
func (g *Gate) Accept(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", fmt.Errorf("%w: image file is required", httpx.ErrBadRequest)
	}
	declared := header.Header.Get("Content-Type")
	if !strings.HasPrefix(declared, "image/") {
		return "", fmt.Errorf("%w: %q is not an image", httpx.ErrUnsupportedMedia, declared)
	}
	if header.Size > g.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", httpx.ErrPayloadTooLarge, g.maxBytes)
	}

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: file name is required", httpx.ErrBadRequest)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(g.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, g.maxBytes)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return "/uploads/" + name, nil
}
