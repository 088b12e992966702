// Package volume computes volume dynamics: the 20-period volume moving
// average, current-to-average ratio, and the On-Balance Volume trend.
package volume

import (
	"techscan/internal/analysis"
	"techscan/internal/models"
)

const (
	maPeriod    = 20
	obvLookback = 20

	ratioHigh = 1.5
	ratioLow  = 0.5
)

// Analyzer computes the volume profile of a series.
type Analyzer struct{}

// NewAnalyzer creates a new volume analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes the volume profile at the last bar. Windows without a
// full history degrade to insufficient_data markers.
func (a *Analyzer) Analyze(candles []models.Candle) analysis.VolumeProfile {
	profile := analysis.VolumeProfile{
		Trend:    analysis.SignalInsufficientData,
		OBVTrend: analysis.SignalInsufficientData,
	}
	if len(candles) == 0 {
		return profile
	}

	n := len(candles)
	profile.CurrentVolume = candles[n-1].Volume

	if n >= maPeriod {
		var total float64
		for _, c := range candles[n-maPeriod:] {
			total += float64(c.Volume)
		}
		profile.MovingAverage20 = total / maPeriod

		if profile.MovingAverage20 > 0 {
			profile.Ratio = float64(profile.CurrentVolume) / profile.MovingAverage20
			switch {
			case profile.Ratio > ratioHigh:
				profile.Trend = "high"
			case profile.Ratio < ratioLow:
				profile.Trend = "low"
			default:
				profile.Trend = "normal"
			}
		} else {
			profile.Trend = "normal"
		}
	}

	if n >= obvLookback+1 {
		obv := OBV(candles)
		current := obv[n-1]
		past := obv[n-1-obvLookback]
		switch {
		case current > past:
			profile.OBVTrend = "bullish"
		case current < past:
			profile.OBVTrend = "bearish"
		default:
			profile.OBVTrend = "neutral"
		}
	}

	return profile
}

// OBV computes On-Balance Volume as a strict left-to-right running sum over
// the whole series; the output has the same length as the input.
func OBV(candles []models.Candle) []float64 {
	if len(candles) == 0 {
		return nil
	}

	result := make([]float64, len(candles))
	result[0] = float64(candles[0].Volume)

	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			result[i] = result[i-1] + float64(candles[i].Volume)
		case candles[i].Close < candles[i-1].Close:
			result[i] = result[i-1] - float64(candles[i].Volume)
		default:
			result[i] = result[i-1]
		}
	}

	return result
}
