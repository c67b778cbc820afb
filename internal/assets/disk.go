package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage keeps files flat under Root.
type DiskStorage struct {
	Root string
}

func NewDiskStorage(root string) *DiskStorage {
	return &DiskStorage{Root: root}
}

func (d *DiskStorage) path(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	cleanBase := filepath.Clean(d.Root)
	target := filepath.Clean(filepath.Join(cleanBase, name))
	if !strings.HasPrefix(target, cleanBase+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q resolves outside uploads root", ErrInvalidName, name)
	}
	return target, nil
}

func (d *DiskStorage) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	fullPath, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		log.Printf("[UPLOAD] failed to create directory %s: %v", d.Root, err)
		return err
	}

	out, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		log.Printf("[UPLOAD] failed to create file %s: %v", fullPath, err)
		return err
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		_ = os.Remove(fullPath)
		log.Printf("[UPLOAD] failed to write file %s: %v", fullPath, err)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(fullPath)
		return err
	}
	return nil
}

func (d *DiskStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	fullPath, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Remove reports a missing file as fs.ErrNotExist.
func (d *DiskStorage) Remove(_ context.Context, name string) error {
	fullPath, err := d.path(name)
	if err != nil {
		return err
	}
	return os.Remove(fullPath)
}

func (d *DiskStorage) Exists(_ context.Context, name string) (bool, error) {
	fullPath, err := d.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
