package repository

import (
	"context"
	"sync/atomic"
	"time"

	"mechshop/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverCache serves from the primary (redis) cache and drops to the
// in-memory fallback when the primary errors, retrying the primary
// after a minute.
type FailoverCache struct {
	primary   domain.Cache
	fallback  domain.Cache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverCache(primary, fallback domain.Cache, logger *zerolog.Logger) *FailoverCache {
	return &FailoverCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

const retryAfter = time.Minute

func (f *FailoverCache) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary cache failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().UnixNano())
}

func (f *FailoverCache) shouldRetry() bool {
	return time.Since(time.Unix(0, f.lastCheck.Load())) > retryAfter
}

func (f *FailoverCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !f.isDown.Load() || f.shouldRetry() {
		payload, ok, err := f.primary.Get(ctx, key)
		if err == nil {
			f.isDown.Store(false)
			return payload, ok, nil
		}
		f.markDown(err)
	}
	return f.fallback.Get(ctx, key)
}

func (f *FailoverCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if !f.isDown.Load() || f.shouldRetry() {
		err := f.primary.Set(ctx, key, payload, ttl)
		if err == nil {
			f.isDown.Store(false)
			return nil
		}
		f.markDown(err)
	}
	return f.fallback.Set(ctx, key, payload, ttl)
}

func (f *FailoverCache) Invalidate(ctx context.Context, prefix string) error {
	// Invalidation goes to both stores: entries may have landed in the
	// fallback while the primary was down.
	var primaryErr error
	if !f.isDown.Load() || f.shouldRetry() {
		primaryErr = f.primary.Invalidate(ctx, prefix)
		if primaryErr == nil {
			f.isDown.Store(false)
		} else {
			f.markDown(primaryErr)
		}
	}
	return f.fallback.Invalidate(ctx, prefix)
}
