package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_WaitersKeepArrivalOrder(t *testing.T) {
	m := NewManager(nil, nil)
	require.True(t, m.BeginRefresh())

	a, _ := m.EnqueueWaiter()
	b, _ := m.EnqueueWaiter()
	c, _ := m.EnqueueWaiter()

	m.mu.Lock()
	queued := make([]<-chan RefreshResult, 0, len(m.waiters))
	for _, w := range m.waiters {
		queued = append(queued, w)
	}
	m.mu.Unlock()
	assert.Equal(t, []<-chan RefreshResult{a, b, c}, queued)

	m.SettleRefresh("T2", nil)
	for _, w := range queued {
		assert.Equal(t, RefreshResult{Token: "T2"}, <-w)
	}
}
