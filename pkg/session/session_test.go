package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/klwxsrx/vocab-client/pkg/session"
	pkgsessionmock "github.com/klwxsrx/vocab-client/pkg/session/mock"
)

func TestManager_Token_Returns(t *testing.T) {
	tests := []struct {
		name   string
		store  func(ctrl *gomock.Controller) session.TokenStore
		expect func(t *testing.T, token string, err error)
	}{
		{
			name: "stored_token",
			store: func(ctrl *gomock.Controller) session.TokenStore {
				mock := pkgsessionmock.NewTokenStore(ctrl)
				mock.EXPECT().Get(gomock.Any()).Return("abc", nil)
				return mock
			},
			expect: func(t *testing.T, token string, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "abc", token)
			},
		},
		{
			name: "empty_when_not_found",
			store: func(ctrl *gomock.Controller) session.TokenStore {
				mock := pkgsessionmock.NewTokenStore(ctrl)
				mock.EXPECT().Get(gomock.Any()).Return("", session.ErrTokenNotFound)
				return mock
			},
			expect: func(t *testing.T, token string, err error) {
				assert.NoError(t, err)
				assert.Empty(t, token)
			},
		},
		{
			name: "error_when_store_fails",
			store: func(ctrl *gomock.Controller) session.TokenStore {
				mock := pkgsessionmock.NewTokenStore(ctrl)
				mock.EXPECT().Get(gomock.Any()).Return("", errors.New("disk failure"))
				return mock
			},
			expect: func(t *testing.T, _ string, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			manager := session.NewManager(tc.store(ctrl), nil)

			token, err := manager.Token(context.Background())
			tc.expect(t, token, err)
		})
	}
}

func TestManager_SetToken_EmptyClears(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := pkgsessionmock.NewTokenStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Set(gomock.Any(), "T1").Return(nil),
		store.EXPECT().Delete(gomock.Any()).Return(nil),
		store.EXPECT().Delete(gomock.Any()).Return(session.ErrTokenNotFound),
	)

	manager := session.NewManager(store, nil)
	require.NoError(t, manager.SetToken(context.Background(), "T1"))
	require.NoError(t, manager.SetToken(context.Background(), ""))
	require.NoError(t, manager.ClearToken(context.Background()))
}

func TestManager_BeginRefresh_SingleWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := session.NewManager(pkgsessionmock.NewTokenStore(ctrl), nil)

	const callers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if manager.BeginRefresh() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.True(t, manager.Refreshing())
}

func TestManager_EnqueueWaiter_RequiresRefreshInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := session.NewManager(pkgsessionmock.NewTokenStore(ctrl), nil)

	_, ok := manager.EnqueueWaiter()
	assert.False(t, ok)

	require.True(t, manager.BeginRefresh())
	_, ok = manager.EnqueueWaiter()
	assert.True(t, ok)
	assert.Equal(t, 1, manager.Waiting())
}

func TestManager_SettleRefresh_ResolvesAllWaiters(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := session.NewManager(pkgsessionmock.NewTokenStore(ctrl), nil)

	require.True(t, manager.BeginRefresh())
	waiters := make([]<-chan session.RefreshResult, 0, 3)
	for range 3 {
		w, ok := manager.EnqueueWaiter()
		require.True(t, ok)
		waiters = append(waiters, w)
	}

	settled := manager.SettleRefresh("T2", nil)
	assert.Equal(t, 3, settled)
	assert.False(t, manager.Refreshing())
	assert.Zero(t, manager.Waiting())

	for _, w := range waiters {
		result := <-w
		assert.NoError(t, result.Err)
		assert.Equal(t, "T2", result.Token)
	}

	assert.True(t, manager.BeginRefresh(), "a new cycle may start once settled")
}

func TestManager_SettleRefresh_RejectsAllWaiters(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := session.NewManager(pkgsessionmock.NewTokenStore(ctrl), nil)
	refreshErr := errors.New("refresh failed")

	require.True(t, manager.BeginRefresh())
	first, _ := manager.EnqueueWaiter()
	second, _ := manager.EnqueueWaiter()

	assert.Equal(t, 2, manager.SettleRefresh("ignored", refreshErr))

	for _, w := range []<-chan session.RefreshResult{first, second} {
		result := <-w
		assert.ErrorIs(t, result.Err, refreshErr)
		assert.Empty(t, result.Token)
	}
}

func TestManager_RedirectToLogin_UsesNavigator(t *testing.T) {
	ctrl := gomock.NewController(t)
	navigator := pkgsessionmock.NewNavigator(ctrl)
	navigator.EXPECT().RedirectToLogin(gomock.Any()).Times(1)

	manager := session.NewManager(pkgsessionmock.NewTokenStore(ctrl), navigator)
	manager.RedirectToLogin(context.Background())
}
