package handlers

import (
	"net/http"
	"strings"

	"rav/internal/database"
	"rav/internal/store"
	"rav/internal/web"
	"rav/pkg/logger"
)

type indexData struct {
	Avatars []database.Avatar
}

// Index shows a random sample of standard-sized avatars plus the login
// and registration forms for anonymous visitors.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	avatars, err := h.Avatars.FrontPageSample()
	if err != nil {
		logger.LogError("front page sample: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	web.Render(w, "index", web.Page{
		Title:    h.AppName + "'s Avatar Hosting",
		Heading:  h.AppName + "'s Avatar Hosting",
		Username: usernameOf(h.currentUser(r)),
		Data:     indexData{Avatars: avatars},
	})
}

// Manual is the static help page.
func (h *Handler) Manual(w http.ResponseWriter, r *http.Request) {
	web.Render(w, "manual", web.Page{
		Title:    "Manual",
		Heading:  "Manual",
		Username: usernameOf(h.currentUser(r)),
	})
}

type galleryListData struct {
	UserCounts    []store.UserCount
	NewAvatars    []database.Avatar
	RandomAvatars []database.Avatar
}

// Gallery aggregates the leaderboard with the newest and a random sample
// of qualifying avatars.
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	userCounts, err := h.Users.Leaderboard(store.LeaderboardLimit)
	if err != nil {
		logger.LogError("leaderboard: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	newAvatars, err := h.Avatars.NewestStandard()
	if err != nil {
		logger.LogError("newest listing: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	randomAvatars, err := h.Avatars.RandomStandard()
	if err != nil {
		logger.LogError("random listing: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	web.Render(w, "gallery_list", web.Page{
		Title:    "Gallery List " + h.Tagline,
		Heading:  "Gallery List",
		Username: usernameOf(h.currentUser(r)),
		Data: galleryListData{
			UserCounts:    userCounts,
			NewAvatars:    newAvatars,
			RandomAvatars: randomAvatars,
		},
	})
}

// PageDispatch handles the catch-all single-segment GET route. A token of
// exactly 32 characters is a content hash; anything else is a username.
// The ".html" suffix selects the gallery page over raw image bytes.
func (h *Handler) PageDispatch(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")

	dot := strings.LastIndex(page, ".")
	if dot <= 0 {
		h.notFoundPage(w)
		return
	}
	token, ext := page[:dot], page[dot+1:]

	if ext == "html" {
		h.userGallery(w, r, token)
		return
	}
	h.serveAvatar(w, r, token)
}

type galleryData struct {
	User        *database.User
	Avatars     []database.Avatar
	TotalCount  int
	ActiveCount int
	CommonSize  string
}

// userGallery is the public per-account page: enabled avatars only.
func (h *Handler) userGallery(w http.ResponseWriter, r *http.Request, username string) {
	user, err := h.Users.ByUsername(username)
	if err != nil {
		h.notFoundPage(w)
		return
	}

	all, err := h.Avatars.ByOwner(user.ID)
	if err != nil {
		logger.LogError("user gallery for %q: %v", username, err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	enabled := make([]database.Avatar, 0, len(all))
	for _, a := range all {
		if a.Enabled {
			enabled = append(enabled, a)
		}
	}

	commonSize := ""
	if len(all) > 0 {
		commonSize = all[0].Dimensions()
	}

	web.Render(w, "gallery", web.Page{
		Title:    user.Username + "'s Avatar Gallery " + h.Tagline,
		Heading:  user.Username + "'s Avatar Gallery",
		Username: usernameOf(h.currentUser(r)),
		Data: galleryData{
			User:        user,
			Avatars:     enabled,
			TotalCount:  len(all),
			ActiveCount: len(enabled),
			CommonSize:  commonSize,
		},
	})
}
