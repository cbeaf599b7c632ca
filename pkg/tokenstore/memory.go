package tokenstore

import (
	"context"
	"sync"

	"github.com/klwxsrx/vocab-client/pkg/session"
)

type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" {
		return "", session.ErrTokenNotFound
	}
	return m.token, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
