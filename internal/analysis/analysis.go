// Package analysis provides the shared report types produced by the
// technical-analysis engine: levels, trend, indicators, pivots, volume,
// and the synthesized single- and multi-timeframe reports.
package analysis

import (
	"time"

	"techscan/internal/models"
)

// SignalInsufficientData marks any qualitative signal that could not be
// computed because the series is shorter than the required window.
const SignalInsufficientData = "insufficient_data"

// Recommendation represents the synthesized trading recommendation.
type Recommendation string

const (
	StrongBuy Recommendation = "strong_buy"
	Buy       Recommendation = "buy"
	WeakBuy   Recommendation = "weak_buy"
	Hold      Recommendation = "hold"
	WeakSell  Recommendation = "weak_sell"
	Sell      Recommendation = "sell"
)

// LevelKind represents the kind of a price level.
type LevelKind string

const (
	LevelSupport    LevelKind = "support"
	LevelResistance LevelKind = "resistance"
)

// Level represents a clustered support or resistance level.
type Level struct {
	Price       float64   `json:"price"`
	Kind        LevelKind `json:"kind"`
	ClusterSize int       `json:"cluster_size"`
}

// Position classifies the current price relative to the nearest levels.
type Position string

const (
	NearSupport     Position = "near_support"
	NearResistance  Position = "near_resistance"
	PositionNeutral Position = "neutral"
)

// LevelSet holds the filtered support/resistance levels and the current
// price position relative to them.
type LevelSet struct {
	Supports    []Level  `json:"supports"`    // nearest first (descending price)
	Resistances []Level  `json:"resistances"` // nearest first (ascending price)
	Position    Position `json:"position"`
}

// NearestSupport returns the closest support below the current price, or nil.
func (ls *LevelSet) NearestSupport() *Level {
	if len(ls.Supports) == 0 {
		return nil
	}
	return &ls.Supports[0]
}

// NearestResistance returns the closest resistance above the current price, or nil.
func (ls *LevelSet) NearestResistance() *Level {
	if len(ls.Resistances) == 0 {
		return nil
	}
	return &ls.Resistances[0]
}

// TrendDirection represents the direction of a trend.
type TrendDirection string

const (
	TrendUp          TrendDirection = "uptrend"
	TrendDown        TrendDirection = "downtrend"
	TrendUnavailable TrendDirection = SignalInsufficientData
)

// TrendStrength represents the agreement across the trend windows.
type TrendStrength string

const (
	TrendStrong TrendStrength = "strong"
	TrendWeak   TrendStrength = "weak"
)

// TrendSummary classifies the short/medium/long-term trend from moving
// averages over 20, 50, and 200 periods.
type TrendSummary struct {
	ShortTerm  TrendDirection `json:"short_term"`
	MediumTerm TrendDirection `json:"medium_term"`
	LongTerm   TrendDirection `json:"long_term"`
	Strength   TrendStrength  `json:"strength"`
	MA20       float64        `json:"ma20"`
	MA50       float64        `json:"ma50"`
	MA200      float64        `json:"ma200,omitempty"`
}

// IndicatorSnapshot holds one indicator's numeric values and its
// qualitative signal at the evaluation point.
type IndicatorSnapshot struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values,omitempty"`
	Signal string             `json:"signal"`
}

// PivotMethod identifies the pivot derivation formula.
type PivotMethod string

const (
	PivotClassic   PivotMethod = "classic"
	PivotFibonacci PivotMethod = "fibonacci"
)

// PivotSet holds pivot levels derived from the last completed bar.
type PivotSet struct {
	Method      PivotMethod `json:"method"`
	Pivot       float64     `json:"pivot"`
	Resistance1 float64     `json:"resistance1"`
	Resistance2 float64     `json:"resistance2"`
	Support1    float64     `json:"support1"`
	Support2    float64     `json:"support2"`
}

// VolumeProfile summarizes volume dynamics at the evaluation point.
type VolumeProfile struct {
	CurrentVolume   int64   `json:"current_volume"`
	MovingAverage20 float64 `json:"moving_average_20"`
	Ratio           float64 `json:"ratio"`
	Trend           string  `json:"trend"`     // high, low, normal, insufficient_data
	OBVTrend        string  `json:"obv_trend"` // bullish, bearish, neutral, insufficient_data
}

// PriceRange represents an inclusive price interval.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mid returns the midpoint of the range.
func (r PriceRange) Mid() float64 {
	return (r.Low + r.High) / 2
}

// SignalReport is the complete single-timeframe analysis report.
type SignalReport struct {
	Symbol         string           `json:"symbol"`
	Timeframe      models.Timeframe `json:"timeframe"`
	GeneratedAt    time.Time        `json:"generated_at"`
	BarCount       int              `json:"bar_count"`
	CurrentPrice   float64          `json:"current_price"`
	PriceChangePct float64          `json:"price_change_pct"`

	Levels     LevelSet            `json:"levels"`
	Trend      TrendSummary        `json:"trend"`
	Indicators []IndicatorSnapshot `json:"indicators"`
	Pivots     []PivotSet          `json:"pivots,omitempty"`
	Volume     VolumeProfile       `json:"volume"`

	Score               float64        `json:"score"`
	Confidence          float64        `json:"confidence"`
	Recommendation      Recommendation `json:"recommendation"`
	ContributingSignals []string       `json:"contributing_signals"`

	EntryZone  *PriceRange `json:"entry_zone,omitempty"`
	StopLoss   *float64    `json:"stop_loss,omitempty"`
	TakeProfit *float64    `json:"take_profit,omitempty"`
	RiskReward *float64    `json:"risk_reward,omitempty"`
}

// Indicator returns the snapshot with the given name, or nil.
func (r *SignalReport) Indicator(name string) *IndicatorSnapshot {
	for i := range r.Indicators {
		if r.Indicators[i].Name == name {
			return &r.Indicators[i]
		}
	}
	return nil
}

// ConfluenceAssessment grades cross-timeframe agreement.
type ConfluenceAssessment string

const (
	StrongConfluence   ConfluenceAssessment = "strong_confluence"
	ModerateConfluence ConfluenceAssessment = "moderate_confluence"
	LowConfluence      ConfluenceAssessment = "low_confluence"
)

// ConfluenceReport fuses three single-timeframe reports into one
// cross-timeframe assessment.
type ConfluenceReport struct {
	Symbol                 string               `json:"symbol"`
	GeneratedAt            time.Time            `json:"generated_at"`
	Score                  float64              `json:"score"`
	Assessment             ConfluenceAssessment `json:"assessment"`
	TrendsAligned          bool                 `json:"trends_aligned"`
	IndicatorsAligned      bool                 `json:"indicators_aligned"`
	Divergences            []string             `json:"divergences"`
	HigherTimeframeContext string               `json:"higher_timeframe_context"`
}
