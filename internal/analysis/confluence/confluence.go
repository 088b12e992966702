// Package confluence fuses daily, weekly, and monthly signal reports into a
// single cross-timeframe assessment.
package confluence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"techscan/internal/analysis"
	"techscan/internal/analysis/report"
	"techscan/internal/logging"
	"techscan/internal/models"
	"techscan/internal/provider"
)

// Score contributions and assessment thresholds.
const (
	trendWeight     = 0.5
	indicatorWeight = 0.3

	strongThreshold   = 0.7
	moderateThreshold = 0.4
)

// Analyzer runs the three timeframe pipelines and fuses their reports.
type Analyzer struct {
	generator *report.Generator
}

// NewAnalyzer creates a confluence analyzer over the given report generator.
func NewAnalyzer(g *report.Generator) *Analyzer {
	return &Analyzer{generator: g}
}

// Analyze generates the daily, weekly, and monthly reports concurrently and
// fuses them. All three reports are required; the first pipeline failure is
// returned and identifies its timeframe.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, lookback int) (*analysis.ConfluenceReport, error) {
	timeframes := models.AllTimeframes()
	reports := make([]*analysis.SignalReport, len(timeframes))
	errs := make([]error, len(timeframes))

	var wg sync.WaitGroup
	for i, tf := range timeframes {
		wg.Add(1)
		go func(i int, tf models.Timeframe) {
			defer wg.Done()
			reports[i], errs[i] = a.generator.Generate(ctx, provider.Request{
				Symbol:    symbol,
				Timeframe: tf,
				Lookback:  lookback,
			})
		}(i, tf)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logger := logging.FromContext(ctx)
			logger.Error().Err(err).
				Str("symbol", symbol).
				Str("timeframe", string(timeframes[i])).
				Msg("timeframe pipeline failed")
			return nil, err
		}
	}

	return Fuse(symbol, reports[0], reports[1], reports[2]), nil
}

// Fuse combines the three timeframe reports. Each timeframe contributes the
// trend horizon it is authoritative for: short-term from the daily report,
// medium-term from the weekly, long-term from the monthly.
func Fuse(symbol string, daily, weekly, monthly *analysis.SignalReport) *analysis.ConfluenceReport {
	dt := daily.Trend.ShortTerm
	wt := weekly.Trend.MediumTerm
	mt := monthly.Trend.LongTerm

	trendsAligned := dt != analysis.TrendUnavailable && dt == wt && wt == mt
	indicatorsAligned := rsiAligned(daily, weekly)

	var score float64
	if trendsAligned {
		score += trendWeight
	}
	if indicatorsAligned {
		score += indicatorWeight
	}

	return &analysis.ConfluenceReport{
		Symbol:                 symbol,
		GeneratedAt:            time.Now().UTC(),
		Score:                  score,
		Assessment:             assess(score),
		TrendsAligned:          trendsAligned,
		IndicatorsAligned:      indicatorsAligned,
		Divergences:            divergences(dt, wt, mt),
		HigherTimeframeContext: higherContext(weekly, monthly),
	}
}

func assess(score float64) analysis.ConfluenceAssessment {
	switch {
	case score > strongThreshold:
		return analysis.StrongConfluence
	case score > moderateThreshold:
		return analysis.ModerateConfluence
	default:
		return analysis.LowConfluence
	}
}

func rsiAligned(daily, weekly *analysis.SignalReport) bool {
	d := daily.Indicator("rsi")
	w := weekly.Indicator("rsi")
	if d == nil || w == nil {
		return false
	}
	if d.Signal == analysis.SignalInsufficientData || w.Signal == analysis.SignalInsufficientData {
		return false
	}
	return d.Signal == w.Signal
}

// divergences records trend mismatches between adjacent timeframe pairs.
func divergences(daily, weekly, monthly analysis.TrendDirection) []string {
	var out []string
	pairs := []struct {
		a, b         analysis.TrendDirection
		aName, bName string
	}{
		{daily, weekly, "daily", "weekly"},
		{weekly, monthly, "weekly", "monthly"},
	}
	for _, p := range pairs {
		if p.a == analysis.TrendUnavailable || p.b == analysis.TrendUnavailable {
			continue
		}
		if p.a != p.b {
			out = append(out, fmt.Sprintf("%s %s vs %s %s", p.aName, p.a, p.bName, p.b))
		}
	}
	return out
}

func higherContext(weekly, monthly *analysis.SignalReport) string {
	return fmt.Sprintf("weekly %s (%s), monthly %s",
		weekly.Trend.MediumTerm, weekly.Trend.Strength, monthly.Trend.LongTerm)
}
