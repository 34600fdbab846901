// Package handlers implements the HTTP surface: public pages and image
// routes, registration/login, and the session-gated avatar management
// operations. The authenticated account is resolved once per request and
// passed down explicitly; there is no ambient "current user" state.
package handlers

import (
	"net/http"

	"golang.org/x/sync/singleflight"

	"rav/internal/blobstore"
	"rav/internal/database"
	"rav/internal/session"
	"rav/internal/store"
	"rav/internal/web"
	"rav/pkg/cache"
)

type Handler struct {
	Users    *store.Users
	Avatars  *store.Avatars
	Blobs    *blobstore.Store
	Sessions *session.Manager
	Cache    *cache.MemoryCache

	// AppName prefixes page titles; Tagline suffixes the gallery ones.
	AppName string
	Tagline string

	// MaxUploadBytes caps the /upload request body.
	MaxUploadBytes int64

	// blobGroup collapses concurrent disk reads for the same hash.
	blobGroup singleflight.Group
}

func New(users *store.Users, avatars *store.Avatars, blobs *blobstore.Store,
	sessions *session.Manager, c *cache.MemoryCache) *Handler {
	return &Handler{
		Users:    users,
		Avatars:  avatars,
		Blobs:    blobs,
		Sessions: sessions,
		Cache:    c,
	}
}

// Register wires every route onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /manual", h.Manual)
	mux.HandleFunc("GET /gallery", h.Gallery)

	// The catch-all single-segment route: <token>.<ext> avatar bytes or
	// <username>.html galleries.
	mux.HandleFunc("GET /{page}", h.PageDispatch)

	// Identity
	mux.HandleFunc("POST /create", LoginRateLimitMiddleware(h.CreateAccount))
	mux.HandleFunc("POST /login", LoginRateLimitMiddleware(h.Login))
	mux.HandleFunc("GET /logout", h.Logout)

	// Owner management
	mux.HandleFunc("GET /user", h.UserPage)
	mux.HandleFunc("GET /toggle", h.Toggle)
	mux.HandleFunc("GET /delete", h.Delete)
	mux.HandleFunc("POST /settings", h.Settings)
	mux.HandleFunc("POST /upload", h.Upload)

	// Static assets
	mux.Handle("GET /static/", web.StaticHandler())
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(web.Favicon())
	})
}

// currentUser resolves the session identity to a full user record, or nil
// for anonymous requests. A session pointing at a deleted account counts
// as anonymous.
func (h *Handler) currentUser(r *http.Request) *database.User {
	id, ok := h.Sessions.UserID(r)
	if !ok {
		return nil
	}
	user, err := h.Users.ByID(id)
	if err != nil {
		return nil
	}
	return user
}

// requireUser resolves the session or ends the request with a redirect to
// the front page, where the login form lives.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) *database.User {
	user := h.currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
	return user
}

type errorData struct {
	Message string
}

// renderErrorPage shows a user-facing failure the way the original site
// did: a short title and a message, styled like any other page.
func (h *Handler) renderErrorPage(w http.ResponseWriter, status int, title, message string) {
	w.WriteHeader(status)
	web.Render(w, "error", web.Page{
		Title:   title + " - " + h.AppName,
		Heading: title,
		Data:    errorData{Message: message},
	})
}

func (h *Handler) notFoundPage(w http.ResponseWriter) {
	h.renderErrorPage(w, http.StatusNotFound, "Not Found", "No such page, user or avatar.")
}

func usernameOf(u *database.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
