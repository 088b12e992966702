// Package indicators computes the technical indicator battery: RSI, MACD,
// ADX, and ATR. Each indicator is a pure function of the series prefix
// ending at the evaluation point; none depends on another.
package indicators

import (
	"techscan/internal/analysis"
	"techscan/internal/models"
)

// Kind identifies an indicator computation.
type Kind string

const (
	KindRSI  Kind = "rsi"
	KindMACD Kind = "macd"
	KindADX  Kind = "adx"
	KindATR  Kind = "atr"
)

// Fixed engine constants.
const (
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	adxPeriod  = 14
	atrPeriod  = 14

	rsiOverbought = 70.0
	rsiOversold   = 30.0
	adxStrong     = 25.0
	atrPctHigh    = 3.0
	atrPctLow     = 1.5
)

type computeFunc func(candles []models.Candle) analysis.IndicatorSnapshot

// computations is the static dispatch table from indicator kind to its pure
// computation. Unknown kinds are rejected at the request boundary.
var computations = map[Kind]computeFunc{
	KindRSI:  rsiSnapshot,
	KindMACD: macdSnapshot,
	KindADX:  adxSnapshot,
	KindATR:  atrSnapshot,
}

// Compute resolves the indicator kind through the static table and applies
// it to the series.
func Compute(kind Kind, candles []models.Candle) (analysis.IndicatorSnapshot, error) {
	fn, ok := computations[kind]
	if !ok {
		return analysis.IndicatorSnapshot{}, ErrUnknownKind
	}
	return fn(candles), nil
}

// Battery computes the full indicator battery in a fixed order.
func Battery(candles []models.Candle) []analysis.IndicatorSnapshot {
	kinds := []Kind{KindRSI, KindMACD, KindADX, KindATR}
	snapshots := make([]analysis.IndicatorSnapshot, 0, len(kinds))
	for _, kind := range kinds {
		snapshots = append(snapshots, computations[kind](candles))
	}
	return snapshots
}

func unavailable(name string) analysis.IndicatorSnapshot {
	return analysis.IndicatorSnapshot{
		Name:   name,
		Signal: analysis.SignalInsufficientData,
	}
}

func rsiSnapshot(candles []models.Candle) analysis.IndicatorSnapshot {
	values, err := NewRSI(rsiPeriod).Calculate(candles)
	if err != nil {
		return unavailable(string(KindRSI))
	}

	last := values[len(values)-1]
	signal := "neutral"
	switch {
	case last > rsiOverbought:
		signal = "overbought"
	case last < rsiOversold:
		signal = "oversold"
	}

	return analysis.IndicatorSnapshot{
		Name:   string(KindRSI),
		Values: map[string]float64{"rsi": last},
		Signal: signal,
	}
}

func macdSnapshot(candles []models.Candle) analysis.IndicatorSnapshot {
	values, err := NewMACD(macdFast, macdSlow, macdSignal).Calculate(candles)
	if err != nil {
		return unavailable(string(KindMACD))
	}

	n := len(candles)
	histogram := values["histogram"][n-1]
	signal := "bearish"
	if histogram > 0 {
		signal = "bullish"
	}

	return analysis.IndicatorSnapshot{
		Name: string(KindMACD),
		Values: map[string]float64{
			"macd":      values["macd"][n-1],
			"signal":    values["signal"][n-1],
			"histogram": histogram,
		},
		Signal: signal,
	}
}

func adxSnapshot(candles []models.Candle) analysis.IndicatorSnapshot {
	values, err := NewADX(adxPeriod).Calculate(candles)
	if err != nil {
		return unavailable(string(KindADX))
	}

	n := len(candles)
	adx := values["adx"][n-1]
	signal := "weak"
	if adx > adxStrong {
		signal = "strong"
	}

	return analysis.IndicatorSnapshot{
		Name: string(KindADX),
		Values: map[string]float64{
			"adx":      adx,
			"plus_di":  values["plus_di"][n-1],
			"minus_di": values["minus_di"][n-1],
		},
		Signal: signal,
	}
}

func atrSnapshot(candles []models.Candle) analysis.IndicatorSnapshot {
	values, err := NewATR(atrPeriod).Calculate(candles)
	if err != nil {
		return unavailable(string(KindATR))
	}

	n := len(candles)
	atr := values[n-1]
	var atrPct float64
	if last := candles[n-1].Close; last != 0 {
		atrPct = atr / last * 100
	}

	signal := "normal"
	switch {
	case atrPct > atrPctHigh:
		signal = "high"
	case atrPct < atrPctLow:
		signal = "low"
	}

	return analysis.IndicatorSnapshot{
		Name: string(KindATR),
		Values: map[string]float64{
			"atr":     atr,
			"atr_pct": atrPct,
		},
		Signal: signal,
	}
}
