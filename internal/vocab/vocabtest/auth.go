package vocabtest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

func (b *Backend) createAccount(email, name, password string) *account {
	acc := &account{
		user: domain.User{
			ID:                uuid.NewString(),
			Email:             email,
			Name:              name,
			CreatedAt:         domain.Timestamp{Time: time.Now().UTC()},
			Role:              "USER",
			Provider:          "LOCAL",
			CanChangePassword: true,
		},
		password: password,
	}
	b.accounts[acc.user.ID] = acc
	b.emails[strings.ToLower(email)] = acc.user.ID
	return acc
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[b.emails[strings.ToLower(req.Email)]]
	b.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	b.startSession(w, r, http.StatusOK, acc.user)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}
	if err := domain.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	b.mu.Lock()
	if _, exists := b.emails[strings.ToLower(req.Email)]; exists {
		b.mu.Unlock()
		writeError(w, r, http.StatusConflict, "email already registered")
		return
	}
	acc := b.createAccount(req.Email, req.Name, req.Password)
	b.mu.Unlock()

	b.startSession(w, r, http.StatusCreated, acc.user)
}

func (b *Backend) refresh(w http.ResponseWriter, r *http.Request) {
	if b.refreshHook != nil {
		b.refreshHook()
	}

	b.mu.Lock()
	b.refreshCalls++
	reject := b.rejectRefresh
	var userID string
	cookie, err := r.Cookie(RefreshCookieName)
	if err == nil {
		userID = b.refreshTokens[cookie.Value]
		delete(b.refreshTokens, cookie.Value)
	}
	acc, ok := b.accounts[userID]
	b.mu.Unlock()

	if reject || !ok {
		writeError(w, r, http.StatusForbidden, "refresh token is invalid or expired")
		return
	}
	b.startSession(w, r, http.StatusOK, acc.user)
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		b.mu.Lock()
		delete(b.refreshTokens, cookie.Value)
		b.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{Name: RefreshCookieName, Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) startSession(w http.ResponseWriter, r *http.Request, code int, user domain.User) {
	refreshToken := uuid.NewString()

	b.mu.Lock()
	accessToken, err := b.signAccessToken(user.ID)
	b.refreshTokens[refreshToken] = user.ID
	b.mu.Unlock()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(refreshTokenTTL.Seconds()),
		HttpOnly: true,
	})
	writeJSON(w, code, domain.AuthResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(b.accessTokenTTL.Seconds()),
		User:        user,
	})
}

func (b *Backend) currentUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	user := b.accounts[currentUserID(r)].user
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed body")
		return
	}
	if err := domain.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.accounts[currentUserID(r)]
	if acc.password != req.CurrentPassword {
		writeError(w, r, http.StatusBadRequest, "current password is incorrect")
		return
	}
	acc.password = req.NewPassword

	writeJSON(w, http.StatusOK, domain.GenericMessageResponse{Message: "Password changed successfully"})
}

func validationMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, domain.ErrValidation) {
		msg = strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
	}
	return msg
}
