// Package report orchestrates a single-timeframe analysis: it fetches the
// price series, runs the five analyzers concurrently over the immutable
// series, and synthesizes the result into a SignalReport.
package report

import (
	"context"
	"sync"
	"time"

	"techscan/internal/analysis"
	"techscan/internal/analysis/indicators"
	"techscan/internal/analysis/levels"
	"techscan/internal/analysis/pivots"
	"techscan/internal/analysis/signal"
	"techscan/internal/analysis/trend"
	"techscan/internal/analysis/volume"
	"techscan/internal/errors"
	"techscan/internal/logging"
	"techscan/internal/models"
	"techscan/internal/provider"
)

// DefaultFetchTimeout bounds a single price-series fetch.
const DefaultFetchTimeout = 30 * time.Second

// Generator produces single-timeframe signal reports.
type Generator struct {
	provider     provider.Provider
	fetchTimeout time.Duration

	levels *levels.Detector
	trend  *trend.Analyzer
	pivots *pivots.Calculator
	volume *volume.Analyzer
	synth  *signal.Synthesizer
}

// NewGenerator creates a report generator over the given provider.
func NewGenerator(p provider.Provider, fetchTimeout time.Duration) *Generator {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Generator{
		provider:     p,
		fetchTimeout: fetchTimeout,
		levels:       levels.NewDetector(),
		trend:        trend.NewAnalyzer(),
		pivots:       pivots.NewCalculator(),
		volume:       volume.NewAnalyzer(),
		synth:        signal.NewSynthesizer(),
	}
}

// Generate validates the request, fetches the series, and produces the
// report. Provider failures and fetch timeouts are returned as a
// ProviderError for the requested timeframe.
func (g *Generator) Generate(ctx context.Context, req provider.Request) (*analysis.SignalReport, error) {
	if err := provider.ValidateRequest(req); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	log.Debug().
		Str("symbol", req.Symbol).
		Str("timeframe", string(req.Timeframe)).
		Int("lookback", req.Lookback).
		Msg("generating report")

	candles, err := g.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	rpt := g.Analyze(req, candles)
	return rpt, nil
}

// Analyze runs the five analyzers over an already-fetched series and
// synthesizes the report. Each analyzer writes its own result slot; the
// series itself is never mutated.
func (g *Generator) Analyze(req provider.Request, candles []models.Candle) *analysis.SignalReport {
	var in signal.Inputs

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		in.Levels = g.levels.Detect(candles)
	}()
	go func() {
		defer wg.Done()
		in.Trend = g.trend.Analyze(candles)
	}()
	go func() {
		defer wg.Done()
		in.Indicators = indicators.Battery(candles)
	}()
	go func() {
		defer wg.Done()
		in.Pivots = g.pivots.Calculate(candles)
	}()
	go func() {
		defer wg.Done()
		in.Volume = g.volume.Analyze(candles)
	}()
	wg.Wait()

	result := g.synth.Synthesize(in)

	rpt := &analysis.SignalReport{
		Symbol:       req.Symbol,
		Timeframe:    req.Timeframe,
		GeneratedAt:  time.Now().UTC(),
		BarCount:     len(candles),
		CurrentPrice: candles[len(candles)-1].Close,

		Levels:     in.Levels,
		Trend:      in.Trend,
		Indicators: in.Indicators,
		Pivots:     in.Pivots,
		Volume:     in.Volume,

		Score:               result.Score,
		Confidence:          result.Confidence,
		Recommendation:      result.Recommendation,
		ContributingSignals: result.ContributingSignals,
		EntryZone:           result.EntryZone,
		StopLoss:            result.StopLoss,
		TakeProfit:          result.TakeProfit,
		RiskReward:          result.RiskReward,
	}

	if n := len(candles); n >= 2 && candles[n-2].Close != 0 {
		rpt.PriceChangePct = (candles[n-1].Close - candles[n-2].Close) / candles[n-2].Close * 100
	}

	return rpt
}

func (g *Generator) fetch(ctx context.Context, req provider.Request) ([]models.Candle, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, g.fetchTimeout)
	defer cancel()

	candles, err := g.provider.GetSeries(fetchCtx, req)
	if err != nil {
		if fetchCtx.Err() == context.DeadlineExceeded {
			err = errors.ErrFetchTimeout
		}
		return nil, errors.NewProviderError(req.Symbol, string(req.Timeframe), err)
	}
	return candles, nil
}
