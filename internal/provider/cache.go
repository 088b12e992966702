package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"techscan/internal/errors"
	"techscan/internal/logging"
	"techscan/internal/models"
	"techscan/internal/store"
	"techscan/pkg/utils"
)

// CachingProvider wraps another provider with a read-through SQLite cache.
// A cached series is served while it is younger than the TTL and long enough
// for the request; otherwise the wrapped provider is consulted, with
// transient errors retried.
type CachingProvider struct {
	inner Provider
	cache *store.CandleStore
	ttl   time.Duration
	retry utils.RetryConfig
}

// NewCachingProvider wraps inner with the given cache store and TTL.
func NewCachingProvider(inner Provider, cache *store.CandleStore, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		retry: utils.DefaultRetryConfig(),
	}
}

// GetSeries serves from the cache when fresh, falling back to the wrapped
// provider and refreshing the cache on success.
func (p *CachingProvider) GetSeries(ctx context.Context, req Request) ([]models.Candle, error) {
	log := logging.FromContext(ctx)

	if cached := p.fromCache(ctx, req, log); cached != nil {
		return cached, nil
	}

	candles, err := utils.RetryWithResult(ctx, p.retry, isTransient, func() ([]models.Candle, error) {
		return p.inner.GetSeries(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	if saveErr := p.cache.SaveSeries(ctx, req.Symbol, req.Timeframe, candles); saveErr != nil {
		// A cache write failure must not fail the fetch.
		log.Warn().Err(saveErr).
			Str("symbol", req.Symbol).
			Str("timeframe", string(req.Timeframe)).
			Msg("failed to cache series")
	}

	return candles, nil
}

func (p *CachingProvider) fromCache(ctx context.Context, req Request, log zerolog.Logger) []models.Candle {
	fetchedAt, err := p.cache.FetchedAt(ctx, req.Symbol, req.Timeframe)
	if err != nil || fetchedAt.IsZero() || time.Since(fetchedAt) > p.ttl {
		return nil
	}

	candles, err := p.cache.LoadSeries(ctx, req.Symbol, req.Timeframe)
	if err != nil || len(candles) < req.Lookback {
		return nil
	}

	log.Debug().
		Str("symbol", req.Symbol).
		Str("timeframe", string(req.Timeframe)).
		Time("fetched_at", fetchedAt).
		Msg("serving series from cache")
	return tail(candles, req.Lookback)
}

func isTransient(err error) bool {
	return errors.Is(err, errors.ErrTransient)
}
