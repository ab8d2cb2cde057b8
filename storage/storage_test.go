package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	data := []byte("some image bytes")
	digest1, err := store.Put(data)
	assert.NoError(t, err)
	digest2, err := store.Put(data)
	assert.NoError(t, err)

	assert.Equal(t, digest1, digest2)
	assert.Equal(t, Digest(data), digest1)

	// Exactly one blob on disk, no leftover temp files.
	entries, err := os.ReadDir(store.root)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	data := []byte("blob content")
	digest, err := store.Put(data)
	assert.NoError(t, err)

	file, err := store.Open(digest)
	assert.NoError(t, err)
	defer file.Close()

	read, err := io.ReadAll(file)
	assert.NoError(t, err)
	assert.Equal(t, data, read)
}

func TestOpenMissingBlob(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Open(Digest([]byte("never stored")))
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestOpenRejectsInvalidDigests(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	assert.NoError(t, err)

	// A file outside the digest namespace must stay unreachable.
	secret := filepath.Join(root, "..", "secret")
	assert.NoError(t, os.WriteFile(secret, []byte("keep out"), 0o600))

	for _, digest := range []string{
		"",
		"../secret",
		"..%2Fsecret",
		"ABCDEF0000000000000000000000000000000000000000000000000000000000",
		"short",
	} {
		_, err := store.Open(digest)
		assert.ErrorIs(t, err, ErrBlobNotFound, "digest %q", digest)
		assert.False(t, store.Exists(digest))
	}
}

func TestExists(t *testing.T) {
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)

	digest, err := store.Put([]byte("here"))
	assert.NoError(t, err)
	assert.True(t, store.Exists(digest))
	assert.False(t, store.Exists(Digest([]byte("not here"))))
}
