// Package storage implements content-addressed blob storage on the local
// filesystem. Blobs are named by the SHA-256 hex digest of their content, so
// identical uploads share one file and repeated writes are idempotent.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

var ErrBlobNotFound = errors.New("blob not found")

const digestHexLen = sha256.Size * 2

type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, fs.ModePerm); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Digest returns the hex SHA-256 digest used as the blob name for data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Put stores data under its content digest and returns the digest. When a blob
// with the same digest already exists the write is skipped; content-addressing
// makes concurrent identical writes safe without locking.
func (s *Store) Put(data []byte) (string, error) {
	digest := Digest(data)
	blobPath := filepath.Join(s.root, digest)

	if _, err := os.Stat(blobPath); err == nil {
		return digest, nil
	}

	// Write to a temp file and rename so readers never see a partial blob.
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, blobPath); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return digest, nil
}

// Open returns a reader over the blob with the given digest.
func (s *Store) Open(digest string) (*os.File, error) {
	if !validDigest(digest) {
		return nil, ErrBlobNotFound
	}
	file, err := os.Open(filepath.Join(s.root, digest))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return file, nil
}

// Exists reports whether a blob with the given digest is stored.
func (s *Store) Exists(digest string) bool {
	if !validDigest(digest) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.root, digest))
	return err == nil
}

// validDigest rejects anything that is not a lowercase hex SHA-256 digest,
// which also keeps path traversal out of the blob folder.
func validDigest(digest string) bool {
	if len(digest) != digestHexLen {
		return false
	}
	for _, r := range digest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
