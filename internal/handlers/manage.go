package handlers

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	// Decoders for every format the site accepts. Registration is all
	// that image.DecodeConfig needs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"rav/internal/database"
	"rav/internal/store"
	"rav/internal/web"
	"rav/pkg/logger"
	"rav/pkg/utils"
)

type userPageData struct {
	User    *database.User
	Avatars []database.Avatar
}

// UserPage is the owner's management view: every owned avatar, disabled
// ones included, newest first.
func (h *Handler) UserPage(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	avatars, err := h.Avatars.ByOwner(user.ID)
	if err != nil {
		logger.LogError("owner listing: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	web.Render(w, "user", web.Page{
		Title:    user.Username + "'s Page",
		Heading:  user.Username + "'s Page",
		Username: user.Username,
		Data:     userPageData{User: user, Avatars: avatars},
	})
}

// avatarIDParam parses the avatar_id query parameter.
func avatarIDParam(r *http.Request) (uint, error) {
	raw := r.URL.Query().Get("avatar_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad avatar_id %q", raw)
	}
	return uint(id), nil
}

// Toggle flips an owned avatar's enabled flag. With ajax=yes the new
// state comes back as a bare "yes"/"no" token for the management page
// script; otherwise the browser is sent back to that page.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	id, err := avatarIDParam(r)
	if err != nil {
		h.renderErrorPage(w, http.StatusBadRequest, "Bad Request", "Missing or invalid avatar id.")
		return
	}

	enabled, err := h.Avatars.Toggle(id, user.ID)
	if err != nil {
		if err == store.ErrNotFound {
			h.notFoundPage(w)
			return
		}
		logger.LogError("toggle avatar %d: %v", id, err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	logger.LogInfo("%s: avatar %d set to %v", user.Username, id, enabled)

	if r.URL.Query().Get("ajax") == "yes" {
		w.Header().Set("Content-Type", "text/plain")
		if enabled {
			io.WriteString(w, "yes")
		} else {
			io.WriteString(w, "no")
		}
		return
	}
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

// Delete removes an owned avatar record. The blob stays on disk: it is
// content-addressed and may back an identical upload by another account.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	id, err := avatarIDParam(r)
	if err != nil {
		h.renderErrorPage(w, http.StatusBadRequest, "Bad Request", "Missing or invalid avatar id.")
		return
	}

	if err := h.Avatars.Delete(id, user.ID); err != nil {
		if err == store.ErrNotFound {
			h.notFoundPage(w)
			return
		}
		logger.LogError("delete avatar %d: %v", id, err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	logger.LogInfo("%s: avatar %d removed", user.Username, id)
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

// Settings overwrites the two free-text profile fields, no validation.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	email := r.FormValue("email")
	message := r.FormValue("message")

	if err := h.Users.UpdateProfile(user.ID, email, message); err != nil {
		logger.LogError("update profile: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

// Upload ingests one avatar: decode for metadata, hash, blob write,
// record insert. The new avatar starts enabled. Decoding is the only
// content validation; there are deliberately no dimension limits.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	file, header, err := r.FormFile("avatar_data")
	if err != nil {
		h.renderErrorPage(w, http.StatusBadRequest, "Upload Error", "No avatar file was attached.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.renderErrorPage(w, http.StatusBadRequest, "Upload Error", "Could not read the uploaded file.")
		return
	}

	name := utils.SanitizeFilename(header.Filename)
	logger.LogInfo("%s: avatar uploaded: %s (%s)", user.Username, name, utils.FormatBytes(int64(len(data))))

	avatar, err := h.ingest(user, name, data)
	if err != nil {
		if err == errNotAnImage {
			h.renderErrorPage(w, http.StatusBadRequest, "Upload Error",
				"That file doesn't look like an image we can decode.")
			return
		}
		logger.LogError("ingest avatar: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	// A re-upload of identical bytes lands on the same blob; invalidate
	// so the fresh write is what gets served.
	h.Cache.Delete("blob:" + avatar.Hash)

	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

var errNotAnImage = fmt.Errorf("upload is not a decodable image")

// ingest validates the bytes, stores the blob, and persists the record.
// The blob write happens first: an orphan blob is harmless, a record
// without bytes is not.
func (h *Handler) ingest(owner *database.User, name string, data []byte) (*database.Avatar, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errNotAnImage
	}

	hash, err := h.Blobs.Put(data)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	avatar := &database.Avatar{
		OwnerID:  owner.ID,
		Hash:     hash,
		Filename: name,
		Width:    cfg.Width,
		Height:   cfg.Height,
		FileSize: int64(len(data)),
		Format:   strings.ToLower(format),
		Enabled:  true,
	}
	if err := h.Avatars.Create(avatar); err != nil {
		return nil, fmt.Errorf("persist avatar record: %w", err)
	}
	return avatar, nil
}
