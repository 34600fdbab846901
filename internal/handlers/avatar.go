package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"rav/internal/database"
	"rav/internal/store"
	"rav/pkg/logger"
	"rav/pkg/utils"
)

// serveAvatar answers the public image route. A 32-character token is a
// content hash and resolves to that exact avatar whatever its enabled
// state; any other token is a username and resolves to one random enabled
// avatar of that account. The stored format governs the MIME type; the
// extension in the URL is ignored.
func (h *Handler) serveAvatar(w http.ResponseWriter, r *http.Request, token string) {
	var avatar *database.Avatar
	var err error

	byHash := utils.IsHashToken(token)
	if byHash {
		avatar, err = h.Avatars.ByHash(token)
	} else {
		var user *database.User
		user, err = h.Users.ByUsername(token)
		if err == nil {
			avatar, err = h.Avatars.RandomEnabledByOwner(user.ID)
		}
	}
	if err != nil {
		if err == store.ErrNotFound {
			h.notFoundPage(w)
			return
		}
		logger.LogError("avatar lookup %q: %v", token, err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	data, err := h.blobBytes(avatar.Hash)
	if err != nil {
		// A record whose blob is missing reads as absent, the documented
		// crash-window behavior.
		logger.LogWarn("blob missing for avatar %d (%s): %v", avatar.ID, avatar.Hash, err)
		h.notFoundPage(w)
		return
	}

	if byHash {
		// Hash-addressed content never changes; let clients cache it.
		serveWithETag(w, r, data, avatar.MIMEType())
		return
	}

	// The username route re-rolls on every request, so client caching
	// would defeat it.
	w.Header().Set("Content-Type", avatar.MIMEType())
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

// blobBytes fetches avatar bytes through the cache, collapsing concurrent
// reads for the same hash into one disk access.
func (h *Handler) blobBytes(hash string) ([]byte, error) {
	cacheKey := "blob:" + hash

	if cached, ok := h.Cache.Get(cacheKey); ok {
		return cached, nil
	}

	data, err, _ := h.blobGroup.Do(hash, func() (interface{}, error) {
		// Double-check inside the flight.
		if cached, ok := h.Cache.Get(cacheKey); ok {
			return cached, nil
		}

		raw, err := h.Blobs.Get(hash)
		if err != nil {
			return nil, err
		}
		h.Cache.Set(cacheKey, raw)
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return data.([]byte), nil
}

// serveWithETag handles HTTP caching headers (ETag, Cache-Control) and
// returns 304 Not Modified when the client's cache is still valid.
func serveWithETag(w http.ResponseWriter, r *http.Request, data []byte, mimeType string) {
	sum := sha256.Sum256(data)
	etag := hex.EncodeToString(sum[:])

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", `"`+etag+`"`)

	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Write(data)
}
