package lazy_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klwxsrx/vocab-client/pkg/lazy"
)

func TestLoader_ProvidesOnce(t *testing.T) {
	var calls atomic.Int32
	loader := lazy.New(func() (int, error) {
		calls.Add(1)
		return 42, nil
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 42, loader.MustLoad())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestLoader_IfLoaded(t *testing.T) {
	loader := lazy.New(func() (string, error) { return "store", nil })

	called := false
	loader.IfLoaded(func(string) { called = true })
	assert.False(t, called, "IfLoaded must not trigger loading")

	loader.MustLoad()
	loader.IfLoaded(func(v string) {
		called = true
		assert.Equal(t, "store", v)
	})
	assert.True(t, called)
}

func TestLoader_Error(t *testing.T) {
	providerErr := errors.New("dial failed")
	loader := lazy.New(func() (int, error) { return 0, providerErr })

	_, err := loader.Load()
	require.ErrorIs(t, err, providerErr)
	assert.Panics(t, func() { loader.MustLoad() })

	called := false
	loader.IfLoaded(func(int) { called = true })
	assert.False(t, called)
}

func TestValue(t *testing.T) {
	loader := lazy.Value("ready")

	called := false
	loader.IfLoaded(func(string) { called = true })

	assert.True(t, called)
	assert.Equal(t, "ready", loader.MustLoad())
}
