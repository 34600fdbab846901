package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cookieRequest builds a follow-up request carrying the cookies a prior
// response set.
func cookieRequest(resp *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range resp.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	m, err := New(filepath.Join(t.TempDir(), "secret.txt"), 3600, false)
	require.NoError(t, err)

	// Anonymous until a login happens.
	_, ok := m.UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), 42))

	id, ok := m.UserID(cookieRequest(rec))
	require.True(t, ok)
	assert.Equal(t, uint(42), id)

	out := httptest.NewRecorder()
	require.NoError(t, m.Logout(out, cookieRequest(rec)))

	_, ok = m.UserID(cookieRequest(out))
	assert.False(t, ok)
}

func TestSecretPersistsAcrossRestarts(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "data", "secret.txt")

	first, err := New(secretPath, 3600, false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, first.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), 7))

	// A second manager over the same path reuses the secret, so the old
	// cookie still validates.
	second, err := New(secretPath, 3600, false)
	require.NoError(t, err)

	id, ok := second.UserID(cookieRequest(rec))
	require.True(t, ok)
	assert.Equal(t, uint(7), id)

	// The file holds the raw secret, owner-only.
	info, err := os.Stat(secretPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStaleSecretMeansAnonymous(t *testing.T) {
	dir := t.TempDir()

	old, err := New(filepath.Join(dir, "old.txt"), 3600, false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, old.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), 7))

	// A manager with a different secret cannot read the old cookie and
	// treats the visitor as anonymous rather than erroring.
	fresh, err := New(filepath.Join(dir, "new.txt"), 3600, false)
	require.NoError(t, err)

	_, ok := fresh.UserID(cookieRequest(rec))
	assert.False(t, ok)
}
