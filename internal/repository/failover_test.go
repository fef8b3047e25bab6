package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func TestFailoverCache(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverCache(primary, fallback, &logger)

		primary.On("Get", ctx, "k").Return([]byte("v"), true, nil).Once()

		payload, ok, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v"), payload)
		primary.AssertExpectations(t)
		fallback.AssertNotCalled(t, "Get", ctx, "k")
	})

	t.Run("PrimaryFailFallbackServes", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverCache(primary, fallback, &logger)

		primary.On("Get", ctx, "k").Return(nil, false, errors.New("down")).Once()
		fallback.On("Get", ctx, "k").Return([]byte("fb"), true, nil).Once()

		payload, ok, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("fb"), payload)
		assert.True(t, cache.isDown.Load())

		// While marked down the primary is skipped entirely.
		fallback.On("Get", ctx, "k2").Return(nil, false, nil).Once()
		_, ok, err = cache.Get(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, ok)

		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAfterRetryWindow", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverCache(primary, fallback, &logger)

		cache.isDown.Store(true)
		cache.lastCheck.Store(time.Now().Add(-2 * time.Minute).UnixNano())

		primary.On("Get", ctx, "k").Return([]byte("back"), true, nil).Once()

		payload, ok, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("back"), payload)
		assert.False(t, cache.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("SetFailsOver", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverCache(primary, fallback, &logger)

		primary.On("Set", ctx, "k", []byte("v"), time.Minute).Return(errors.New("down")).Once()
		fallback.On("Set", ctx, "k", []byte("v"), time.Minute).Return(nil).Once()

		err := cache.Set(ctx, "k", []byte("v"), time.Minute)
		require.NoError(t, err)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("InvalidateHitsBothStores", func(t *testing.T) {
		primary := new(mockCache)
		fallback := new(mockCache)
		cache := NewFailoverCache(primary, fallback, &logger)

		primary.On("Invalidate", ctx, "customers").Return(nil).Once()
		fallback.On("Invalidate", ctx, "customers").Return(nil).Once()

		err := cache.Invalidate(ctx, "customers")
		require.NoError(t, err)
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}
