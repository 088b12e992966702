// Package signal synthesizes the five analyzer outputs into a weighted
// score, a recommendation, and optional entry/stop/target levels.
package signal

import (
	"fmt"

	"techscan/internal/analysis"
)

// Score deltas applied by the synthesizer.
const (
	wNearSupport    = 0.15
	wNearResistance = 0.15
	wTrend          = 0.20
	wRSIOversold    = 0.20
	wRSIOverbought  = 0.15
	wMACD           = 0.15
	wADX            = 0.10
	wVolume         = 0.15
)

// Recommendation thresholds on the final score.
const (
	strongBuyThreshold = 0.5
	buyThreshold       = 0.3
	holdThreshold      = -0.3
	weakSellThreshold  = -0.5
)

// Inputs collects the five analyzer outputs consumed by the synthesizer.
type Inputs struct {
	Levels     analysis.LevelSet
	Trend      analysis.TrendSummary
	Indicators []analysis.IndicatorSnapshot
	Pivots     []analysis.PivotSet
	Volume     analysis.VolumeProfile
}

// Result holds the synthesized signal.
type Result struct {
	Score               float64
	Confidence          float64
	Recommendation      analysis.Recommendation
	ContributingSignals []string
	EntryZone           *analysis.PriceRange
	StopLoss            *float64
	TakeProfit          *float64
	RiskReward          *float64
}

// Synthesizer is the fan-in consumer of the analyzer outputs.
type Synthesizer struct{}

// NewSynthesizer creates a new signal synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize applies the weighted scoring rules and derives the
// recommendation and trade levels. The result is a pure, deterministic
// function of the inputs; analyzer completion order never matters.
func (s *Synthesizer) Synthesize(in Inputs) Result {
	var score float64
	var contributing []string

	apply := func(delta float64, reason string) {
		score += delta
		contributing = append(contributing, fmt.Sprintf("%s (%+.2f)", reason, delta))
	}

	switch in.Levels.Position {
	case analysis.NearSupport:
		apply(wNearSupport, "price near support")
	case analysis.NearResistance:
		apply(-wNearResistance, "price near resistance")
	}

	if in.Trend.Strength == analysis.TrendStrong {
		switch in.Trend.ShortTerm {
		case analysis.TrendUp:
			apply(wTrend, "strong uptrend")
		case analysis.TrendDown:
			apply(-wTrend, "strong downtrend")
		}
	}

	if rsi := snapshot(in.Indicators, "rsi"); rsi != nil {
		switch rsi.Signal {
		case "oversold":
			apply(wRSIOversold, "rsi oversold")
		case "overbought":
			apply(-wRSIOverbought, "rsi overbought")
		}
	}

	if macd := snapshot(in.Indicators, "macd"); macd != nil {
		histogram := macd.Values["histogram"]
		if macd.Signal == "bullish" && histogram > 0 {
			apply(wMACD, "macd bullish")
		} else if macd.Signal == "bearish" && histogram < 0 {
			apply(-wMACD, "macd bearish")
		}
	}

	if adx := snapshot(in.Indicators, "adx"); adx != nil && adx.Signal == "strong" {
		apply(wADX, "adx strong trend")
	}

	if in.Volume.Trend == "high" {
		switch in.Volume.OBVTrend {
		case "bullish":
			apply(wVolume, "high volume with bullish obv")
		case "bearish":
			apply(-wVolume, "high volume with bearish obv")
		}
	}

	result := Result{
		Score:               score,
		Confidence:          abs(score),
		Recommendation:      Recommend(score),
		ContributingSignals: contributing,
	}
	s.deriveTradeLevels(in, &result)

	return result
}

// Recommend maps a score onto the fixed recommendation bands.
func Recommend(score float64) analysis.Recommendation {
	switch {
	case score > strongBuyThreshold:
		return analysis.StrongBuy
	case score > buyThreshold:
		return analysis.Buy
	case score > 0:
		return analysis.WeakBuy
	case score > holdThreshold:
		return analysis.Hold
	case score > weakSellThreshold:
		return analysis.WeakSell
	default:
		return analysis.Sell
	}
}

// deriveTradeLevels projects entry, stop, and target from the nearest
// levels for conviction signals.
func (s *Synthesizer) deriveTradeLevels(in Inputs, result *Result) {
	support := in.Levels.NearestSupport()
	resistance := in.Levels.NearestResistance()

	switch {
	case result.Score > strongBuyThreshold && support != nil:
		result.EntryZone = &analysis.PriceRange{
			Low:  support.Price * 0.99,
			High: support.Price * 1.01,
		}
		stop := support.Price * 0.97
		result.StopLoss = &stop
		if resistance != nil {
			target := resistance.Price * 0.99
			result.TakeProfit = &target
		}
	case result.Score < holdThreshold && resistance != nil:
		result.EntryZone = &analysis.PriceRange{
			Low:  resistance.Price * 0.99,
			High: resistance.Price * 1.01,
		}
		stop := resistance.Price * 1.03
		result.StopLoss = &stop
		if support != nil {
			target := support.Price * 1.01
			result.TakeProfit = &target
		}
	}

	if result.EntryZone != nil && result.StopLoss != nil && result.TakeProfit != nil {
		entry := result.EntryZone.Mid()
		risk := abs(entry - *result.StopLoss)
		if risk > 0 {
			rr := abs(*result.TakeProfit-entry) / risk
			result.RiskReward = &rr
		}
	}
}

func snapshot(snapshots []analysis.IndicatorSnapshot, name string) *analysis.IndicatorSnapshot {
	for i := range snapshots {
		if snapshots[i].Name == name {
			return &snapshots[i]
		}
	}
	return nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
