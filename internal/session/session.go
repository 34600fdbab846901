// Package session maps the signed browser cookie to an account id. The
// signing secret is random, generated on first start and persisted so
// sessions survive restarts.
package session

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/sessions"

	"rav/pkg/logger"
)

const (
	cookieName = "rav_session"
	userIDKey  = "user_id"
	secretLen  = 64
)

type Manager struct {
	store *sessions.CookieStore
}

// New builds the cookie store, loading the signing secret from secretPath
// or generating and persisting a fresh one if the file is absent.
func New(secretPath string, maxAge int, secure bool) (*Manager, error) {
	secret, err := loadOrCreateSecret(secretPath)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(secret)
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &Manager{store: store}, nil
}

// UserID returns the authenticated account id for the request, or false
// when the request carries no valid session.
func (m *Manager) UserID(r *http.Request) (uint, bool) {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		// A cookie signed with a stale secret is just an anonymous visitor.
		return 0, false
	}
	id, ok := sess.Values[userIDKey].(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Login binds the session to an account id.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	sess, _ := m.store.Get(r, cookieName)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// Logout clears the session. Calling it without an active session is a
// no-op.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, cookieName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func loadOrCreateSecret(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	if err == nil && len(secret) >= 32 {
		return secret, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("session: read secret: %w", err)
	}

	secret = make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("session: generate secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("session: create secret dir: %w", err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("session: persist secret: %w", err)
	}

	logger.LogInfo("Generated new session secret at %s", path)
	return secret, nil
}
