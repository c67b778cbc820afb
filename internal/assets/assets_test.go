package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStoredName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := StoredName("My Photo.PNG", now)
	assert.Regexp(t, regexp.MustCompile(`^1700000000123-[0-9a-f]{8}-my-photo\.png$`), name)

	assert.NotEqual(t, StoredName("w.png", now), StoredName("w.png", now))
	assert.True(t, strings.HasSuffix(StoredName("!!!.jpg", now), "-image.jpg"))
	assert.NotContains(t, StoredName("../../etc/passwd.png", now), "/")
}

func TestCheckImage(t *testing.T) {
	m := NewManager(NewDiskStorage(t.TempDir()), WithMaxSize(10))

	assert.NoError(t, m.CheckImage("w.JPG", 10))
	assert.ErrorIs(t, m.CheckImage("w", 1), ErrUnsupportedImage)
	assert.ErrorIs(t, m.CheckImage("w.exe", 1), ErrUnsupportedImage)
	assert.ErrorIs(t, m.CheckImage("w.png", 11), ErrImageTooLarge)
}

func TestAttachStoresUnderRoot(t *testing.T) {
	root := t.TempDir()
	m := NewManager(NewDiskStorage(root))

	name, err := m.Attach(context.Background(), fileHeader(t, "w.png", []byte("png-bytes")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, []string{name}, filesIn(t, root))
}

func TestAttachRejectsBeforeWriting(t *testing.T) {
	root := t.TempDir()
	m := NewManager(NewDiskStorage(root))

	_, err := m.Attach(context.Background(), fileHeader(t, "notes.txt", []byte("hi")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Empty(t, filesIn(t, root))
}

func TestDiscardAndRelease(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	m := NewManager(NewDiskStorage(root))

	a, err := m.AttachReader(ctx, "a.png", strings.NewReader("a"), 1, "")
	require.NoError(t, err)
	b, err := m.AttachReader(ctx, "b.png", strings.NewReader("b"), 1, "")
	require.NoError(t, err)

	m.Discard(ctx, a)
	m.Release(ctx, b)
	assert.Empty(t, filesIn(t, root))

	// already missing files are tolerated
	m.Release(ctx, b)
	m.Discard(ctx, "")
}

func TestReplaceCommitted(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	m := NewManager(NewDiskStorage(root))

	old, err := m.AttachReader(ctx, "w.png", strings.NewReader("old"), 3, "")
	require.NoError(t, err)
	current, err := m.AttachReader(ctx, "w2.png", strings.NewReader("new"), 3, "")
	require.NoError(t, err)

	m.ReplaceCommitted(ctx, current, current)
	assert.Len(t, filesIn(t, root), 2)

	m.ReplaceCommitted(ctx, old, current)
	assert.Equal(t, []string{current}, filesIn(t, root))
}

type brokenStorage struct {
	Storage
}

func (brokenStorage) Remove(context.Context, string) error {
	return errors.New("permission denied")
}

type recorder struct {
	ops []string
}

func (r *recorder) AssetCleanupFailed(_ context.Context, op string) {
	r.ops = append(r.ops, op)
}

func TestCleanupFailureIsRecordedNotReturned(t *testing.T) {
	rec := &recorder{}
	m := NewManager(brokenStorage{Storage: NewDiskStorage(t.TempDir())}, WithRecorder(rec))

	m.Release(context.Background(), "x.png")
	m.Discard(context.Background(), "y.png")
	assert.Equal(t, []string{"release", "discard"}, rec.ops)
}

func TestDiskStorageGuardsNames(t *testing.T) {
	ctx := context.Background()
	d := NewDiskStorage(t.TempDir())

	for _, name := range []string{"", ".", "..", "../x.png", "a/b.png", `a\b.png`} {
		assert.ErrorIs(t, d.Save(ctx, name, strings.NewReader("x"), 1, ""), ErrInvalidName, "name=%q", name)
		assert.ErrorIs(t, d.Remove(ctx, name), ErrInvalidName, "name=%q", name)
	}
}

func TestDiskStorageDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	d := NewDiskStorage(t.TempDir())

	require.NoError(t, d.Save(ctx, "x.png", strings.NewReader("first"), 5, ""))
	assert.Error(t, d.Save(ctx, "x.png", strings.NewReader("second"), 6, ""))

	rc, err := d.Open(ctx, "x.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	ok, err := d.Exists(ctx, "x.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Exists(ctx, "missing.png")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, d.Remove(ctx, "missing.png"), os.ErrNotExist)
}
