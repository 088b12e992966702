package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"techscan/internal/analysis"
	"techscan/internal/errors"
	"techscan/internal/models"
	"techscan/internal/provider"
)

// fakeProvider serves fixed series from memory.
type fakeProvider struct {
	series map[models.Timeframe][]models.Candle
	err    error
	delay  time.Duration
}

func (f *fakeProvider) GetSeries(ctx context.Context, req provider.Request) ([]models.Candle, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	candles, ok := f.series[req.Timeframe]
	if !ok {
		return nil, errors.ErrSymbolNotFound
	}
	if len(candles) > req.Lookback {
		candles = candles[len(candles)-req.Lookback:]
	}
	return candles, nil
}

func monotonicSeries(n int, start, step float64) []models.Candle {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	price := start
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price * 1.01, Low: price * 0.99, Close: price,
			Volume: 1000 + int64(i),
		}
		price += step
	}
	return candles
}

func flatSeries(n int, price float64) []models.Candle {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	return candles
}

func dailyRequest(lookback int) provider.Request {
	return provider.Request{Symbol: "RELIANCE", Timeframe: models.TimeframeDaily, Lookback: lookback}
}

func TestGenerateRisingSeriesNotStrongBuy(t *testing.T) {
	// 300 bars rising 100 -> 200: RSI saturates overbought, and the penalty
	// keeps the recommendation below strong_buy.
	step := 100.0 / 299.0
	p := &fakeProvider{series: map[models.Timeframe][]models.Candle{
		models.TimeframeDaily: monotonicSeries(300, 100, step),
	}}
	g := NewGenerator(p, 0)

	rpt, err := g.Generate(context.Background(), dailyRequest(300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rsi := rpt.Indicator("rsi")
	if rsi == nil || rsi.Signal != "overbought" {
		t.Fatalf("expected overbought RSI, got %+v", rsi)
	}
	if rpt.Recommendation == analysis.StrongBuy {
		t.Errorf("overbought uptrend must not be strong_buy (score %.2f)", rpt.Score)
	}
	if rpt.Trend.ShortTerm != analysis.TrendUp || rpt.Trend.LongTerm != analysis.TrendUp {
		t.Errorf("expected uptrend, got %+v", rpt.Trend)
	}
}

func TestGenerateFlatSeriesIsDefined(t *testing.T) {
	p := &fakeProvider{series: map[models.Timeframe][]models.Candle{
		models.TimeframeDaily: flatSeries(300, 150),
	}}
	g := NewGenerator(p, 0)

	rpt, err := g.Generate(context.Background(), dailyRequest(300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rsi := rpt.Indicator("rsi"); rsi == nil || rsi.Values["rsi"] != 50 || rsi.Signal != "neutral" {
		t.Errorf("flat series RSI: expected 50/neutral, got %+v", rsi)
	}
	if atr := rpt.Indicator("atr"); atr == nil || atr.Values["atr"] != 0 {
		t.Errorf("flat series ATR: expected 0, got %+v", atr)
	}
	if rpt.Recommendation != analysis.Hold {
		t.Errorf("flat series: expected hold, got %s", rpt.Recommendation)
	}
	if rpt.PriceChangePct != 0 {
		t.Errorf("flat series: expected zero price change, got %.2f", rpt.PriceChangePct)
	}
}

func TestGenerateLongTermBoundary(t *testing.T) {
	for _, tt := range []struct {
		bars    int
		defined bool
	}{
		{200, true},
		{199, false},
	} {
		p := &fakeProvider{series: map[models.Timeframe][]models.Candle{
			models.TimeframeDaily: monotonicSeries(tt.bars, 100, 0.5),
		}}
		rpt, err := NewGenerator(p, 0).Generate(context.Background(), dailyRequest(tt.bars))
		if err != nil {
			t.Fatalf("%d bars: unexpected error: %v", tt.bars, err)
		}
		defined := rpt.Trend.LongTerm != analysis.TrendUnavailable
		if defined != tt.defined {
			t.Errorf("%d bars: long term defined = %v, expected %v", tt.bars, defined, tt.defined)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := &fakeProvider{series: map[models.Timeframe][]models.Candle{
		models.TimeframeDaily: monotonicSeries(300, 100, 0.3),
	}}
	g := NewGenerator(p, 0)

	first, err := g.Generate(context.Background(), dailyRequest(300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.Generate(context.Background(), dailyRequest(300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// GeneratedAt is wall-clock metadata; everything else must be identical.
	first.GeneratedAt = time.Time{}
	second.GeneratedAt = time.Time{}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical series produced different reports")
	}
}

func TestGenerateValidation(t *testing.T) {
	g := NewGenerator(&fakeProvider{}, 0)

	tests := []struct {
		name string
		req  provider.Request
	}{
		{"lowercase symbol", provider.Request{Symbol: "reliance", Timeframe: models.TimeframeDaily, Lookback: 100}},
		{"empty symbol", provider.Request{Symbol: "", Timeframe: models.TimeframeDaily, Lookback: 100}},
		{"bad timeframe", provider.Request{Symbol: "RELIANCE", Timeframe: "hourly", Lookback: 100}},
		{"zero lookback", provider.Request{Symbol: "RELIANCE", Timeframe: models.TimeframeDaily, Lookback: 0}},
		{"excessive lookback", provider.Request{Symbol: "RELIANCE", Timeframe: models.TimeframeDaily, Lookback: 6000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tt.req)
			var verr *errors.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestGenerateProviderError(t *testing.T) {
	g := NewGenerator(&fakeProvider{err: errors.ErrSymbolNotFound}, 0)

	_, err := g.Generate(context.Background(), dailyRequest(100))
	var perr *errors.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Symbol != "RELIANCE" || perr.Timeframe != string(models.TimeframeDaily) {
		t.Errorf("provider error missing context: %+v", perr)
	}
	if !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Error("expected the originating cause to be preserved")
	}
}

func TestGenerateFetchTimeout(t *testing.T) {
	p := &fakeProvider{
		series: map[models.Timeframe][]models.Candle{
			models.TimeframeDaily: monotonicSeries(300, 100, 0.3),
		},
		delay: 200 * time.Millisecond,
	}
	g := NewGenerator(p, 10*time.Millisecond)

	_, err := g.Generate(context.Background(), dailyRequest(300))
	if !errors.Is(err, errors.ErrFetchTimeout) {
		t.Fatalf("expected fetch timeout, got %v", err)
	}
	var perr *errors.ProviderError
	if !errors.As(err, &perr) {
		t.Error("timeout should still carry provider error context")
	}
}
