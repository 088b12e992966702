package indicators

import (
	"fmt"

	"techscan/internal/models"
)

// RSI calculates the Relative Strength Index using a simple rolling mean of
// period-over-period gains and losses.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d", r.period)
}

func (r *RSI) Period() int {
	return r.period
}

// Calculate returns the RSI series. Values are defined from index period on
// (the first index with a full window of deltas behind it). A window whose
// average loss is zero yields 100 when any gain exists, and 50 for a
// perfectly flat window.
func (r *RSI) Calculate(candles []models.Candle) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < r.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	closes := closePrices(candles)

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := r.period; i < n; i++ {
		avgGain := mean(gains[i-r.period+1 : i+1])
		avgLoss := mean(losses[i-r.period+1 : i+1])

		switch {
		case avgLoss == 0 && avgGain == 0:
			result[i] = 50
		case avgLoss == 0:
			result[i] = 100
		default:
			rs := avgGain / avgLoss
			result[i] = 100 - (100 / (1 + rs))
		}
	}

	return result, nil
}
