// Package models provides domain models for the analysis engine.
package models

import (
	"time"
)

// Timeframe represents the bar interval of a price series.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// AllTimeframes returns the timeframes used for confluence analysis,
// ordered from lowest to highest.
func AllTimeframes() []Timeframe {
	return []Timeframe{TimeframeDaily, TimeframeWeekly, TimeframeMonthly}
}

// Valid reports whether the timeframe is one of the supported values.
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly:
		return true
	}
	return false
}

// Candle represents OHLCV data for one completed period.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// DefaultLookback is the number of periods fetched when the caller does not
// specify one (roughly one trading year of daily bars).
const DefaultLookback = 252
