// Package upload stores user-supplied images such as tenant ID scans and receipts.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is where stored files are served from.
const URLPrefix = "/uploads/"

var (
	// ErrTooLarge is returned when the file exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrNotImage is returned when the content is not an image.
	ErrNotImage = errors.New("only image files are allowed")
)

// Result describes a stored file.
type Result struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Mime     string `json:"mime"`
}

// Service writes uploads into a directory under random names.
type Service struct {
	dir      string
	maxBytes int64
}

// NewService creates dir if needed.
func NewService(dir string, maxBytes int64) (*Service, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Service{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the storage directory.
func (s *Service) Dir() string {
	return s.dir
}

// MaxBytes returns the size limit.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates and stores the content of r. The type is sniffed from the
// bytes; the client's file name and content type are ignored.
func (s *Service) Save(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotImage
	}

	name := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	return &Result{
		URL:      URLPrefix + name,
		Filename: name,
		Size:     int64(len(data)),
		Mime:     mt.String(),
	}, nil
}
