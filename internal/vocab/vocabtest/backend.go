// Package vocabtest runs an in-memory vocabulary backend over httptest for client tests.
package vocabtest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
)

const (
	RefreshCookieName = "refreshToken"

	defaultAccessTokenTTL = 15 * time.Minute
	refreshTokenTTL       = 7 * 24 * time.Hour
)

type accessClaims struct {
	UserID     string `json:"user_id"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

type account struct {
	user     domain.User
	password string
}

type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
}

type Option func(*Backend)

func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.accessTokenTTL = ttl
	}
}

// WithRefreshHook runs before every refresh is handled, tests use it to hold a refresh in flight.
func WithRefreshHook(hook func()) Option {
	return func(b *Backend) {
		b.refreshHook = hook
	}
}

type Backend struct {
	*httptest.Server

	signingKey     []byte
	accessTokenTTL time.Duration
	refreshHook    func()

	mu            sync.Mutex
	generation    int
	rejectRefresh bool
	accounts      map[string]*account
	emails        map[string]string
	refreshTokens map[string]string
	entries       []*domain.Entry
	quizzes       []*domain.Quiz
	requests      []RecordedRequest
	refreshCalls  int
}

func New(t testing.TB, opts ...Option) *Backend {
	t.Helper()

	b := &Backend{
		signingKey:     []byte(uuid.NewString()),
		accessTokenTTL: defaultAccessTokenTTL,
		accounts:       map[string]*account{},
		emails:         map[string]string{},
		refreshTokens:  map[string]string{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Close)
	return b
}

// SeedUser creates an account directly, bypassing registration.
func (b *Backend) SeedUser(email, name, password string) domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createAccount(email, name, password).user
}

func (b *Backend) SeedEntry(userID string, in domain.EntryCreate, enabled bool) domain.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := b.createEntry(userID, in)
	entry.Enabled = enabled
	return *entry
}

// IssueAccessToken mints a token valid for the current generation.
func (b *Backend) IssueAccessToken(userID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	token, err := b.signAccessToken(userID)
	if err != nil {
		panic(err)
	}
	return token
}

// ExpireAccessTokens invalidates every access token issued so far.
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	b.generation++
	b.mu.Unlock()
}

func (b *Backend) RejectRefresh(reject bool) {
	b.mu.Lock()
	b.rejectRefresh = reject
	b.mu.Unlock()
}

func (b *Backend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

func (b *Backend) router() http.Handler {
	router := mux.NewRouter()
	router.Use(b.recordRequest)

	router.Methods(http.MethodPost).Path("/auth/login").HandlerFunc(b.login)
	router.Methods(http.MethodPost).Path("/auth/register").HandlerFunc(b.register)
	router.Methods(http.MethodPost).Path("/auth/refresh-token").HandlerFunc(b.refresh)
	router.Methods(http.MethodPost).Path("/auth/logout").HandlerFunc(b.logout)

	authorized := router.NewRoute().Subrouter()
	authorized.Use(b.authenticate)

	authorized.Methods(http.MethodGet).Path("/users/me").HandlerFunc(b.currentUser)
	authorized.Methods(http.MethodPatch).Path("/users/me/change-password").HandlerFunc(b.changePassword)

	authorized.Methods(http.MethodGet).Path("/entries").HandlerFunc(b.listEntries)
	authorized.Methods(http.MethodPost).Path("/entries").HandlerFunc(b.createEntryHandler)
	authorized.Methods(http.MethodGet).Path("/entries/{id}").HandlerFunc(b.getEntry)
	authorized.Methods(http.MethodPut).Path("/entries/{id}").HandlerFunc(b.updateEntry)
	authorized.Methods(http.MethodPatch).Path("/entries/{id}/toggle").HandlerFunc(b.toggleEntry)
	authorized.Methods(http.MethodDelete).Path("/entries/{id}").HandlerFunc(b.deleteEntry)

	authorized.Methods(http.MethodPost).Path("/quizzes").HandlerFunc(b.createQuiz)
	authorized.Methods(http.MethodGet).Path("/quizzes").HandlerFunc(b.listQuizzes)
	authorized.Methods(http.MethodGet).Path("/quizzes/{id}").HandlerFunc(b.getQuiz)
	authorized.Methods(http.MethodPost).Path("/quizzes/{id}/answer").HandlerFunc(b.answerQuiz)
	authorized.Methods(http.MethodPost).Path("/quizzes/{id}/finish").HandlerFunc(b.finishQuiz)

	authorized.Methods(http.MethodGet).Path("/stats/entries").HandlerFunc(b.entryStats)

	return router
}

func (b *Backend) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

type userIDContextKey struct{}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, r, http.StatusUnauthorized, "missing access token")
			return
		}

		claims, err := b.parseAccessToken(raw)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (b *Backend) signAccessToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID:     userID,
		Generation: b.generation,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(b.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(b.signingKey)
}

func (b *Backend) parseAccessToken(raw string) (*accessClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return b.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if claims.Generation != b.generation {
		return nil, errors.New("token has expired")
	}
	if _, ok := b.accounts[claims.UserID]; !ok {
		return nil, errors.New("unknown user")
	}
	return claims, nil
}

func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDContextKey{}).(string)
	return id
}

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	writeJSON(w, code, domain.APIError{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   message,
		Path:      r.URL.Path,
	})
}
