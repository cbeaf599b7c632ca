//go:generate ${TOOLS_BIN}/mockgen -source ${GOFILE} -destination mock/${GOFILE} -package mock -mock_names "TokenStore=TokenStore,Navigator=Navigator"
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// TokenKey is the fixed name the access token is persisted under.
const TokenKey = "token"

var (
	ErrRefreshRejected = errors.New("session refresh rejected")
	ErrTokenNotFound   = errors.New("token not found")
)

type (
	TokenStore interface {
		Get(ctx context.Context) (string, error)
		Set(ctx context.Context, token string) error
		Delete(ctx context.Context) error
	}

	Navigator interface {
		RedirectToLogin(ctx context.Context)
	}

	NavigatorFunc func(ctx context.Context)

	RefreshResult struct {
		Token string
		Err   error
	}
)

func (f NavigatorFunc) RedirectToLogin(ctx context.Context) {
	f(ctx)
}

// Manager owns the session token, the refresh-in-progress flag and the queue of
// requests waiting for the refresh to settle.
type Manager struct {
	store     TokenStore
	navigator Navigator

	mu         sync.Mutex
	refreshing bool
	waiters    []chan RefreshResult
}

func NewManager(store TokenStore, navigator Navigator) *Manager {
	if navigator == nil {
		navigator = NavigatorFunc(func(context.Context) {})
	}

	return &Manager{
		store:     store,
		navigator: navigator,
	}
}

// Token returns an empty string when no session is stored.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	return token, nil
}

func (m *Manager) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return m.ClearToken(ctx)
	}

	if err := m.store.Set(ctx, token); err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	return nil
}

func (m *Manager) ClearToken(ctx context.Context) error {
	err := m.store.Delete(ctx)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// BeginRefresh reports whether the caller became the one to run the refresh.
func (m *Manager) BeginRefresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refreshing {
		return false
	}
	m.refreshing = true
	return true
}

// EnqueueWaiter appends a waiter while a refresh is in flight, ok is false otherwise.
// The channel receives exactly one result.
func (m *Manager) EnqueueWaiter() (wait <-chan RefreshResult, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.refreshing {
		return nil, false
	}

	ch := make(chan RefreshResult, 1)
	m.waiters = append(m.waiters, ch)
	return ch, true
}

// SettleRefresh clears the flag, then resolves the queued waiters in arrival order
// with either the new token or err. It returns the number of settled waiters.
func (m *Manager) SettleRefresh(token string, err error) int {
	m.mu.Lock()
	waiters := m.waiters
	m.waiters = nil
	m.refreshing = false
	m.mu.Unlock()

	result := RefreshResult{Token: token, Err: err}
	if err != nil {
		result.Token = ""
	}
	for _, w := range waiters {
		w <- result
	}
	return len(waiters)
}

func (m *Manager) Refreshing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshing
}

func (m *Manager) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

func (m *Manager) RedirectToLogin(ctx context.Context) {
	m.navigator.RedirectToLogin(ctx)
}
