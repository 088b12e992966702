// Package trend classifies short/medium/long-term trend direction from
// simple moving averages over 20, 50, and 200 periods.
package trend

import (
	"techscan/internal/analysis"
	"techscan/internal/models"
)

const (
	shortPeriod  = 20
	mediumPeriod = 50
	longPeriod   = 200
)

// Analyzer classifies trend direction and strength.
type Analyzer struct{}

// NewAnalyzer creates a new trend analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze compares the last close against each moving average. A window
// without enough history yields an insufficient_data direction; strength is
// strong when at least two defined directions agree.
func (a *Analyzer) Analyze(candles []models.Candle) analysis.TrendSummary {
	summary := analysis.TrendSummary{
		ShortTerm:  analysis.TrendUnavailable,
		MediumTerm: analysis.TrendUnavailable,
		LongTerm:   analysis.TrendUnavailable,
		Strength:   analysis.TrendWeak,
	}
	if len(candles) == 0 {
		return summary
	}

	lastClose := candles[len(candles)-1].Close

	if ma, ok := trailingSMA(candles, shortPeriod); ok {
		summary.MA20 = ma
		summary.ShortTerm = classify(lastClose, ma)
	}
	if ma, ok := trailingSMA(candles, mediumPeriod); ok {
		summary.MA50 = ma
		summary.MediumTerm = classify(lastClose, ma)
	}
	if ma, ok := trailingSMA(candles, longPeriod); ok {
		summary.MA200 = ma
		summary.LongTerm = classify(lastClose, ma)
	}

	summary.Strength = strength(summary)
	return summary
}

func classify(close, ma float64) analysis.TrendDirection {
	if close > ma {
		return analysis.TrendUp
	}
	return analysis.TrendDown
}

// strength is strong when at least two of the defined directions agree as
// uptrend, or symmetrically as downtrend.
func strength(s analysis.TrendSummary) analysis.TrendStrength {
	var up, down int
	for _, dir := range []analysis.TrendDirection{s.ShortTerm, s.MediumTerm, s.LongTerm} {
		switch dir {
		case analysis.TrendUp:
			up++
		case analysis.TrendDown:
			down++
		}
	}
	if up >= 2 || down >= 2 {
		return analysis.TrendStrong
	}
	return analysis.TrendWeak
}

// trailingSMA returns the simple moving average of the last period closes.
func trailingSMA(candles []models.Candle, period int) (float64, bool) {
	if len(candles) < period {
		return 0, false
	}
	var sum float64
	for _, c := range candles[len(candles)-period:] {
		sum += c.Close
	}
	return sum / float64(period), true
}
