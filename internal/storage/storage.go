// Package storage stores uploaded images and returns the URLs they are served from.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/config"
)

// Storage persists uploaded files.
type Storage interface {
	// Save stores the content under name and returns its public URL.
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
}

// New returns the storage backend selected by the upload config.
func New(ctx context.Context, upload config.UploadConfig, s3cfg config.S3Config, log *zap.Logger) (Storage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch upload.Backend {
	case "s3":
		return NewS3Storage(ctx, s3cfg, WithLogger(log))
	case "", "local":
		return NewLocalStorage(upload.Dir, "/uploads")
	default:
		return nil, fmt.Errorf("unsupported upload backend %q", upload.Backend)
	}
}

// Rules limits what a single upload request may contain.
type Rules struct {
	MaxFileSize int64
	MaxFiles    int
}

// NewRules builds Rules from the upload config.
func NewRules(cfg config.UploadConfig) Rules {
	return Rules{MaxFileSize: cfg.MaxFileSize, MaxFiles: cfg.MaxFiles}
}

// Check validates the files of one request: at least one file, at most
// MaxFiles, each an image no larger than MaxFileSize.
func (r Rules) Check(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return apperrors.Validation("No files uploaded")
	}
	if r.MaxFiles > 0 && len(files) > r.MaxFiles {
		return apperrors.Validation("Too many files, at most %d allowed", r.MaxFiles)
	}
	for _, f := range files {
		if !IsImage(f.Header.Get("Content-Type")) {
			return apperrors.Validation("Only image files are allowed")
		}
		if r.MaxFileSize > 0 && f.Size > r.MaxFileSize {
			return apperrors.Validation("File %s exceeds %d bytes", f.Filename, r.MaxFileSize)
		}
	}
	return nil
}

// IsImage reports whether contentType is an image MIME type.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// ObjectName returns a unique name for an upload that keeps the original
// extension.
func ObjectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)
}

// SaveFile opens an uploaded file and saves it under a fresh object name.
func SaveFile(ctx context.Context, s Storage, f *multipart.FileHeader) (string, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", f.Filename, err)
	}
	defer src.Close()

	return s.Save(ctx, ObjectName(f.Filename), f.Header.Get("Content-Type"), src, f.Size)
}
