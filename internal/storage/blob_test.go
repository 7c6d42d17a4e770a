package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("picture", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["picture"][0]
}

func newStore(t *testing.T, maxSize int64) *BlobStore {
	t.Helper()
	store, err := NewBlobStore(Config{Dir: t.TempDir(), PublicPath: "/uploads/", MaxSize: maxSize})
	require.NoError(t, err)
	return store
}

func TestSaveWritesImage(t *testing.T) {
	store := newStore(t, 0)

	stored, err := store.Save(fileHeader(t, "Logo.PNG", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, store.Dir(), filepath.Dir(filepath.FromSlash(stored)))
	assert.True(t, strings.HasSuffix(stored, ".png"))
	data, err := os.ReadFile(filepath.FromSlash(stored))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestSaveRejectsExtension(t *testing.T) {
	store := newStore(t, 0)

	_, err := store.Save(fileHeader(t, "notes.txt", pngHeader))
	assert.ErrorIs(t, err, ErrUploadRejected)
}

func TestSaveRejectsDisguisedContent(t *testing.T) {
	store := newStore(t, 0)

	_, err := store.Save(fileHeader(t, "evil.jpg", []byte("<html><script>alert(1)</script></html>")))
	assert.ErrorIs(t, err, ErrUploadRejected)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsOversized(t *testing.T) {
	store := newStore(t, 16)

	_, err := store.Save(fileHeader(t, "big.png", append(append([]byte{}, pngHeader...), make([]byte, 64)...)))
	assert.ErrorIs(t, err, ErrUploadRejected)
}

func TestDeleteRemovesFile(t *testing.T) {
	store := newStore(t, 0)
	stored, err := store.Save(fileHeader(t, "a.gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")))
	require.NoError(t, err)

	store.Delete(stored)

	_, err = os.Stat(filepath.FromSlash(stored))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteIsBestEffort(t *testing.T) {
	store := newStore(t, 0)
	outside := filepath.Join(t.TempDir(), "keep.png")
	require.NoError(t, os.WriteFile(outside, pngHeader, 0o644))

	assert.NotPanics(t, func() {
		store.Delete("")
		store.Delete(filepath.Join(store.Dir(), "missing.png"))
		store.Delete(outside)
	})

	_, err := os.Stat(outside)
	assert.NoError(t, err, "files outside the upload directory must survive")
}

func TestDeleteRelativePathStaysInsideDir(t *testing.T) {
	store := newStore(t, 0)
	target := filepath.Join(store.Dir(), "x.png")
	require.NoError(t, os.WriteFile(target, pngHeader, 0o644))

	store.Delete("../../somewhere/x.png")

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestURL(t *testing.T) {
	store := newStore(t, 0)

	assert.Nil(t, store.URL(""))
	assert.Nil(t, store.URL("   "))

	url := store.URL(filepath.ToSlash(filepath.Join(store.Dir(), "abc.jpg")))
	require.NotNil(t, url)
	assert.Equal(t, "/uploads/abc.jpg", *url)

	url = PublicURL("/media", "C:/legacy/dir/old.png")
	require.NotNil(t, url)
	assert.Equal(t, "/media/old.png", *url)
}
