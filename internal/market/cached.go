package market

import (
	"context"
	"fmt"
	"time"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
	"github.com/muchen/fenglin/pkg/redis"
)

// CachedProvider wraps a Provider with a Redis-backed cache. The
// upstream quote source is scraped and rate-limited, so repeated
// lookups within one session should not refetch.
type CachedProvider struct {
	upstream Provider
	cache    *redis.Cache
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedProvider creates a caching wrapper around upstream
func NewCachedProvider(upstream Provider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   log,
	}
}

// SessionData returns cached session data or fetches from upstream
func (p *CachedProvider) SessionData(ctx context.Context, code string) (*contracts.SessionData, error) {
	key := fmt.Sprintf("session:%s", code)

	var data contracts.SessionData
	found, err := p.cache.Get(ctx, key, &data)
	if err != nil {
		p.logger.WithError(err).Warn("Session cache read failed")
	}
	if found {
		return &data, nil
	}

	fresh, err := p.upstream.SessionData(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, fresh, p.ttl); err != nil {
		p.logger.WithError(err).Warn("Session cache write failed")
	}

	return fresh, nil
}

// DailyCloses returns cached closes or fetches from upstream. The key
// carries the requested count so different windows do not collide.
func (p *CachedProvider) DailyCloses(ctx context.Context, code string, count int) ([]float64, error) {
	key := fmt.Sprintf("closes:%s:%d:%s", code, count, time.Now().Format("20060102"))

	var closes []float64
	found, err := p.cache.Get(ctx, key, &closes)
	if err != nil {
		p.logger.WithError(err).Warn("Closes cache read failed")
	}
	if found {
		return closes, nil
	}

	fresh, err := p.upstream.DailyCloses(ctx, code, count)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, fresh, p.ttl); err != nil {
		p.logger.WithError(err).Warn("Closes cache write failed")
	}

	return fresh, nil
}
