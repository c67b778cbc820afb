package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog/internal/slug"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image file too large")
)

// DefaultMaxImageSize caps a single upload.
const DefaultMaxImageSize = 5 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// CleanupRecorder is told about every cleanup that failed.
type CleanupRecorder interface {
	AssetCleanupFailed(ctx context.Context, op string)
}

// Manager keeps exactly one live file per product image reference. Cleanup
// failures are logged and never returned.
type Manager struct {
	storage  Storage
	maxSize  int64
	now      func() time.Time
	recorder CleanupRecorder
}

type Option func(*Manager)

func WithMaxSize(n int64) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

func WithRecorder(r CleanupRecorder) Option {
	return func(m *Manager) { m.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(storage Storage, opts ...Option) *Manager {
	m := &Manager{storage: storage, maxSize: DefaultMaxImageSize, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Storage() Storage {
	return m.storage
}

// StoredName builds a collision-resistant storage name from the upload time,
// a random component and the sanitized original file name.
func StoredName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Slugify(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d-%s-%s%s", now.UnixMilli(), uuid.NewString()[:8], base, ext)
}

// CheckImage validates the file name and size of an upload.
func (m *Manager) CheckImage(original string, size int64) error {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		return fmt.Errorf("%w: image file extension is required", ErrUnsupportedImage)
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
	}
	if size > m.maxSize {
		return fmt.Errorf("%w (max %dMB)", ErrImageTooLarge, m.maxSize>>20)
	}
	return nil
}

// Attach stores an uploaded multipart file and returns the name to record
// on the product.
func (m *Manager) Attach(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := m.CheckImage(file.Filename, file.Size); err != nil {
		return "", err
	}
	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	return m.AttachReader(ctx, file.Filename, in, file.Size, file.Header.Get("Content-Type"))
}

// AttachReader stores size bytes of r under a name derived from original.
// An empty contentType is inferred from the extension.
func (m *Manager) AttachReader(ctx context.Context, original string, r io.Reader, size int64, contentType string) (string, error) {
	if err := m.CheckImage(original, size); err != nil {
		return "", err
	}
	return m.store(ctx, original, r, size, contentType)
}

func (m *Manager) store(ctx context.Context, original string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(original)))
	}
	name := StoredName(original, m.now())
	if err := m.storage.Save(ctx, name, r, size, contentType); err != nil {
		return "", fmt.Errorf("store %s: %w", original, err)
	}
	log.Printf("[UPLOAD] stored %s as %s", original, name)
	return name, nil
}

// Discard removes a file that was stored for a mutation which then failed.
func (m *Manager) Discard(ctx context.Context, name string) {
	m.remove(ctx, "discard", name)
}

// Release removes the file of a product that was soft-deleted.
func (m *Manager) Release(ctx context.Context, name string) {
	m.remove(ctx, "release", name)
}

// ReplaceCommitted removes the previous image once the product already
// points at its new one. Call it only after the save succeeded.
func (m *Manager) ReplaceCommitted(ctx context.Context, previous, current string) {
	if previous == "" || previous == current {
		return
	}
	m.remove(ctx, "replace", previous)
}

func (m *Manager) remove(ctx context.Context, op, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	err := m.storage.Remove(ctx, name)
	switch {
	case err == nil:
		log.Printf("[ASSET] %s: removed %s", op, name)
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("[ASSET] %s: %s already missing", op, name)
	default:
		log.Printf("[ASSET] %s: remove %s failed: %v", op, name, err)
		if m.recorder != nil {
			m.recorder.AssetCleanupFailed(ctx, op)
		}
	}
}
