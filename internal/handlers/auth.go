package handlers

import (
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"rav/internal/blobstore"
	"rav/internal/database"
	"rav/internal/store"
	"rav/pkg/logger"
	"rav/pkg/utils"
)

// Usernames must stay under the content-hash token length so the
// combined image route can always tell the two apart.
const maxUsernameLen = blobstore.HashLen

// Brute-force protection for the credential endpoints: 1 req/sec with a
// burst of 10, per IP, independent of the global limiter.
var (
	loginVisitors = make(map[string]*rate.Limiter)
	loginMu       sync.Mutex
)

func getLoginVisitor(ip string) *rate.Limiter {
	loginMu.Lock()
	defer loginMu.Unlock()

	limiter, exists := loginVisitors[ip]
	if !exists {
		limiter = rate.NewLimiter(1, 10)
		loginVisitors[ip] = limiter
	}
	return limiter
}

// LoginRateLimitMiddleware enforces strict limits on authentication
// attempts.
func LoginRateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limiter := getLoginVisitor(utils.GetRealIP(r))
		if !limiter.Allow() {
			utils.WriteError(w, http.StatusTooManyRequests, utils.ErrAuthRateLimitExceed,
				"Too many attempts. Please wait.")
			return
		}
		next(w, r)
	}
}

// CreateAccount registers a new user from the signup form and logs the
// session straight in.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password1 := r.FormValue("password1")
	password2 := r.FormValue("password2")
	email := r.FormValue("email")

	if username == "" {
		h.renderErrorPage(w, http.StatusBadRequest, "Name Error", "A username is required.")
		return
	}
	if len(username) >= maxUsernameLen {
		h.renderErrorPage(w, http.StatusBadRequest, "Name Error", "That username is too long, sorry D:")
		return
	}
	if password1 == "" {
		h.renderErrorPage(w, http.StatusBadRequest, "Password Error", "A password is required.")
		return
	}
	if password1 != password2 {
		h.renderErrorPage(w, http.StatusBadRequest, "Password Error",
			"The password and confirmation password don't match D:")
		return
	}

	taken, err := h.Users.UsernameTaken(username)
	if err != nil {
		logger.LogError("username lookup: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	if taken {
		h.renderErrorPage(w, http.StatusConflict, "Name Taken",
			"That username has already been taken, sorry D:")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password1), bcrypt.DefaultCost)
	if err != nil {
		logger.LogError("password hash: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	user := &database.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
	}
	if err := h.Users.Create(user); err != nil {
		logger.LogError("create user: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}

	if err := h.Sessions.Login(w, r, user.ID); err != nil {
		logger.LogError("session save: %v", err)
	}
	logger.LogInfo("User %q created", username)
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

// Login checks the form credentials. The username is matched
// case-insensitively, the password via bcrypt. Every failure mode gets
// the same generic answer.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Users.ByUsername(username)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	}
	if err != nil {
		if err != store.ErrNotFound && err != bcrypt.ErrMismatchedHashAndPassword {
			logger.LogError("login lookup: %v", err)
		}
		h.renderErrorPage(w, http.StatusUnauthorized, "Login Failed",
			"No account matches that name and password.")
		return
	}

	if err := h.Sessions.Login(w, r, user.ID); err != nil {
		logger.LogError("session save: %v", err)
		h.renderErrorPage(w, http.StatusInternalServerError, "Server Error", "Something went wrong, try again later.")
		return
	}
	logger.LogInfo("%q logged in from %s", user.Username, utils.GetRealIP(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session and lands on the front page. Safe to call
// repeatedly.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		logger.LogError("session clear: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
