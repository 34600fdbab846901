// Package blobstore is content-addressed storage for raw avatar bytes.
// Blobs live on disk under <root>/<first two hash chars>/<full hash>, so
// identical uploads always land on the same path and concurrent writers
// never conflict.
package blobstore

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no blob exists for the hash.
var ErrNotFound = errors.New("blob not found")

// HashLen is the length of a hex content hash, which is also the length
// of a public hash routing token.
const HashLen = 32

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Hash computes the content digest used as the blob key and the public
// avatar identifier.
func Hash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Put writes data under its content hash and returns the hash. Writing
// the same bytes twice lands on the same path with identical content, so
// the operation is idempotent. The write goes through a temp file and a
// rename to keep partially-written blobs out of the store.
func (s *Store) Put(data []byte) (string, error) {
	hash := Hash(data)
	dir := filepath.Join(s.root, hash[:2])

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("blobstore: create shard dir: %w", err)
	}

	final := filepath.Join(dir, hash)
	tmp := final + "." + uuid.New().String() + ".tmp"

	if err := os.WriteFile(tmp, data, 0640); err != nil {
		return "", fmt.Errorf("blobstore: write temp blob: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("blobstore: finalize blob: %w", err)
	}

	return hash, nil
}

// Get reads the bytes stored under hash. Malformed hashes are rejected
// before touching the filesystem so request tokens can't walk the tree.
func (s *Store) Get(hash string) ([]byte, error) {
	if !validHash(hash) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.root, hash[:2], hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blobstore: read blob: %w", err)
	}
	return data, nil
}

func validHash(hash string) bool {
	if len(hash) != HashLen {
		return false
	}
	for _, r := range hash {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
