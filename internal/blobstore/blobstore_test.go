package blobstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	payloads := [][]byte{
		[]byte("hello avatars"),
		{0x00, 0xff, 0x10, 0x80},
		make([]byte, 4096),
	}

	for _, data := range payloads {
		hash, err := s.Put(data)
		require.NoError(t, err)
		require.Len(t, hash, HashLen)

		got, err := s.Get(hash)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestPutIsDeterministicAndIdempotent(t *testing.T) {
	s := New(t.TempDir())
	data := []byte("same bytes every time")

	h1, err := s.Put(data)
	require.NoError(t, err)
	h2, err := s.Put(data)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, Hash(data), h1)

	got, err := s.Get(h1)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestShardLayout(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	hash, err := s.Put([]byte("sharded"))
	require.NoError(t, err)

	// Blobs live at <root>/<first two chars>/<hash>.
	_, err = os.Stat(filepath.Join(root, hash[:2], hash))
	require.NoError(t, err)

	// No leftover temp files from the atomic write.
	entries, err := os.ReadDir(filepath.Join(root, hash[:2]))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestGetMissing(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Get("0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRejectsMalformedHashes(t *testing.T) {
	s := New(t.TempDir())

	bad := []string{
		"",
		"short",
		"../../../../etc/passwd0123456789",   // traversal attempt, right length
		"0123456789ABCDEF0123456789ABCDEF",   // uppercase
		"0123456789abcdef0123456789abcdef00", // too long
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",   // non-hex
	}
	for _, hash := range bad {
		_, err := s.Get(hash)
		assert.ErrorIs(t, err, ErrNotFound, "hash %q", hash)
	}
}

func TestDistinctContentDistinctHashes(t *testing.T) {
	s := New(t.TempDir())

	h1, err := s.Put([]byte("one"))
	require.NoError(t, err)
	h2, err := s.Put([]byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
