// Package pivots derives classic and Fibonacci pivot levels from the most
// recently completed bar.
package pivots

import (
	"techscan/internal/analysis"
	"techscan/internal/models"
)

const (
	fib1 = 0.382
	fib2 = 0.618
)

// Calculator derives pivot sets from a price series.
type Calculator struct{}

// NewCalculator creates a new pivot calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate derives the classic and Fibonacci pivot sets from the
// second-to-last bar (the last completed period, not the in-progress one).
// A series with fewer than 2 bars yields nil: the component is reported as
// unavailable, not an error.
func (c *Calculator) Calculate(candles []models.Candle) []analysis.PivotSet {
	if len(candles) < 2 {
		return nil
	}

	bar := candles[len(candles)-2]
	return []analysis.PivotSet{
		Classic(bar.High, bar.Low, bar.Close),
		Fibonacci(bar.High, bar.Low, bar.Close),
	}
}

// Classic calculates the classic pivot set from the prior period's HLC.
func Classic(high, low, close float64) analysis.PivotSet {
	pivot := (high + low + close) / 3

	return analysis.PivotSet{
		Method:      analysis.PivotClassic,
		Pivot:       pivot,
		Resistance1: 2*pivot - low,
		Resistance2: pivot + (high - low),
		Support1:    2*pivot - high,
		Support2:    pivot - (high - low),
	}
}

// Fibonacci calculates the Fibonacci pivot set from the prior period's HLC.
func Fibonacci(high, low, close float64) analysis.PivotSet {
	pivot := (high + low + close) / 3
	spread := high - low

	return analysis.PivotSet{
		Method:      analysis.PivotFibonacci,
		Pivot:       pivot,
		Resistance1: pivot + fib1*spread,
		Resistance2: pivot + fib2*spread,
		Support1:    pivot - fib1*spread,
		Support2:    pivot - fib2*spread,
	}
}
