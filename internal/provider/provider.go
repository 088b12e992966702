// Package provider supplies ordered price series for a symbol, timeframe,
// and lookback. Implementations fetch from local CSV files or the Kite
// Connect API; a caching wrapper adds a read-through SQLite cache.
package provider

import (
	"context"
	"regexp"

	"techscan/internal/errors"
	"techscan/internal/models"
)

// MaxLookback bounds the number of bars a single request may ask for.
const MaxLookback = 5000

// Request identifies one price series.
type Request struct {
	Symbol    string
	Timeframe models.Timeframe
	Lookback  int
}

// Provider supplies an ordered bar sequence for a request.
type Provider interface {
	GetSeries(ctx context.Context, req Request) ([]models.Candle, error)
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.&-]{0,19}$`)

// ValidateRequest rejects malformed requests before any data access.
func ValidateRequest(req Request) error {
	if !symbolPattern.MatchString(req.Symbol) {
		return errors.NewValidationError("symbol", req.Symbol, "must be 1-20 uppercase alphanumeric characters")
	}
	if !req.Timeframe.Valid() {
		return errors.NewValidationError("timeframe", req.Timeframe, "must be daily, weekly, or monthly")
	}
	if req.Lookback <= 0 || req.Lookback > MaxLookback {
		return errors.NewValidationError("lookback", req.Lookback, "must be between 1 and 5000")
	}
	return nil
}

// ValidateSeries enforces the price series invariants: at least one bar and
// strictly increasing timestamps.
func ValidateSeries(symbol string, candles []models.Candle) error {
	if len(candles) == 0 {
		return errors.ErrDataUnavailable
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return errors.NewSeriesError(symbol, i, "timestamps must be strictly increasing")
		}
	}
	return nil
}

// tail returns the last n candles, or all of them if fewer exist.
func tail(candles []models.Candle, n int) []models.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
