// Package levels identifies support and resistance levels from local
// price extrema and classifies the current price position against them.
package levels

import (
	"math"
	"sort"

	"techscan/internal/analysis"
	"techscan/internal/models"
)

const (
	// DefaultWindow is the number of bars on each side a bar must dominate
	// to count as a local extreme.
	DefaultWindow = 20
	// clusterTolerance is the relative distance within which neighboring
	// extrema merge into one level.
	clusterTolerance = 0.02
	// priceFilter keeps only levels within this fraction of the current price.
	priceFilter = 0.10
	// maxPerSide caps the number of levels kept on each side of the price.
	maxPerSide = 3
	// proximityTolerance classifies the price as near a level when the
	// nearest one is within this fraction.
	proximityTolerance = 0.02
)

// Detector finds clustered support/resistance levels.
type Detector struct {
	window int
}

// NewDetector creates a level detector with the default window.
func NewDetector() *Detector {
	return &Detector{window: DefaultWindow}
}

// NewDetectorWithWindow creates a level detector with a custom window.
func NewDetectorWithWindow(window int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{window: window}
}

// Detect finds support/resistance levels in the series and classifies the
// position of the current price. A series shorter than 2*window+1 bars
// yields empty level sets, never an error.
func (d *Detector) Detect(candles []models.Candle) analysis.LevelSet {
	result := analysis.LevelSet{Position: analysis.PositionNeutral}
	if len(candles) == 0 {
		return result
	}

	currentPrice := candles[len(candles)-1].Close
	resistCandidates, supportCandidates := d.findExtrema(candles)

	resistances := clusterCandidates(resistCandidates)
	supports := clusterCandidates(supportCandidates)

	// Resistances above price, within +10%, nearest first.
	for _, c := range resistances {
		if c.price > currentPrice && c.price <= currentPrice*(1+priceFilter) {
			result.Resistances = append(result.Resistances, analysis.Level{
				Price:       c.price,
				Kind:        analysis.LevelResistance,
				ClusterSize: c.size,
			})
		}
	}
	sort.Slice(result.Resistances, func(i, j int) bool {
		return result.Resistances[i].Price < result.Resistances[j].Price
	})
	if len(result.Resistances) > maxPerSide {
		result.Resistances = result.Resistances[:maxPerSide]
	}

	// Supports below price, within -10%, nearest first.
	for _, c := range supports {
		if c.price < currentPrice && c.price >= currentPrice*(1-priceFilter) {
			result.Supports = append(result.Supports, analysis.Level{
				Price:       c.price,
				Kind:        analysis.LevelSupport,
				ClusterSize: c.size,
			})
		}
	}
	sort.Slice(result.Supports, func(i, j int) bool {
		return result.Supports[i].Price > result.Supports[j].Price
	})
	if len(result.Supports) > maxPerSide {
		result.Supports = result.Supports[:maxPerSide]
	}

	result.Position = classifyPosition(currentPrice, result)
	return result
}

// findExtrema collects local maxima of highs and local minima of lows.
// A bar qualifies when it dominates the full window on both sides.
func (d *Detector) findExtrema(candles []models.Candle) (resistances, supports []float64) {
	n := len(candles)
	w := d.window
	for i := w; i < n-w; i++ {
		isHigh := true
		isLow := true
		for j := i - w; j <= i+w; j++ {
			if candles[j].High > candles[i].High {
				isHigh = false
			}
			if candles[j].Low < candles[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			resistances = append(resistances, candles[i].High)
		}
		if isLow {
			supports = append(supports, candles[i].Low)
		}
	}
	return resistances, supports
}

type cluster struct {
	price float64 // running arithmetic mean of members
	size  int
}

// clusterCandidates sorts the candidate prices and greedily merges adjacent
// values within the tolerance of the running cluster mean.
func clusterCandidates(prices []float64) []cluster {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var clusters []cluster
	current := cluster{price: sorted[0], size: 1}

	for _, p := range sorted[1:] {
		if math.Abs(p-current.price)/current.price <= clusterTolerance {
			current.size++
			current.price = (current.price*float64(current.size-1) + p) / float64(current.size)
		} else {
			clusters = append(clusters, current)
			current = cluster{price: p, size: 1}
		}
	}
	clusters = append(clusters, current)

	return clusters
}

func classifyPosition(price float64, ls analysis.LevelSet) analysis.Position {
	if r := ls.NearestResistance(); r != nil && r.Price <= price*(1+proximityTolerance) {
		return analysis.NearResistance
	}
	if s := ls.NearestSupport(); s != nil && s.Price >= price*(1-proximityTolerance) {
		return analysis.NearSupport
	}
	return analysis.PositionNeutral
}
