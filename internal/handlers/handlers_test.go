package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"rav/internal/blobstore"
	"rav/internal/database"
	"rav/internal/session"
	"rav/internal/store"
	"rav/pkg/cache"
)

type testApp struct {
	h       *Handler
	ts      *httptest.Server
	users   *store.Users
	avatars *store.Avatars
	blobs   *blobstore.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.User{}, &database.Avatar{}))

	blobs := blobstore.New(t.TempDir())

	sessions, err := session.New(filepath.Join(t.TempDir(), "secret.txt"), 86400, false)
	require.NoError(t, err)

	users := store.NewUsers(db)
	avatars := store.NewAvatars(db, 250)

	h := New(users, avatars, blobs, sessions,
		cache.New(true, 10, time.Minute))
	h.AppName = "Rav"
	h.Tagline = "[Rav - The Random Avatar Host]"
	h.MaxUploadBytes = 10 << 20

	mux := http.NewServeMux()
	h.Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &testApp{h: h, ts: ts, users: users, avatars: avatars, blobs: blobs}
}

// ipTransport tags every request with a distinct client IP so the
// per-IP login limiter keys tests apart.
type ipTransport struct {
	ip   string
	next http.RoundTripper
}

func (t *ipTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r.Header.Set("X-Forwarded-For", t.ip)
	return t.next.RoundTrip(r)
}

// newClient builds a cookie-carrying client that follows redirects.
func newClient(t *testing.T, ip string) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:       jar,
		Transport: &ipTransport{ip: ip, next: http.DefaultTransport},
	}
}

// noRedirect stops a client at the first response so tests can inspect
// Location headers.
func noRedirect(c *http.Client) *http.Client {
	clone := *c
	clone.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &clone
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// pngBytes encodes a small solid-color PNG. Varying the size or shade
// produces distinct content hashes.
func pngBytes(t *testing.T, w, h int, shade uint8) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func register(t *testing.T, c *http.Client, baseURL, username, password string) {
	t.Helper()

	resp, err := c.PostForm(baseURL+"/create", url.Values{
		"username":  {username},
		"password1": {password},
		"password2": {password},
		"email":     {""},
	})
	require.NoError(t, err)
	body := bodyOf(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// The apostrophe arrives template-escaped.
	require.Contains(t, body, username+"&#39;s Page")
}

func login(t *testing.T, c *http.Client, baseURL, username, password string) *http.Response {
	t.Helper()

	resp, err := c.PostForm(baseURL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	return resp
}

func upload(t *testing.T, c *http.Client, baseURL, filename string, data []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar_data", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp
}

// ownedAvatarID looks the avatar id up directly in the store.
func ownedAvatarID(t *testing.T, app *testApp, username string) uint {
	t.Helper()

	user, err := app.users.ByUsername(username)
	require.NoError(t, err)
	owned, err := app.avatars.ByOwner(user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, owned)
	return owned[0].ID
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	return resp
}
