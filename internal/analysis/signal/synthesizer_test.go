package signal

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"techscan/internal/analysis"
)

func TestProperty_RecommendationBands(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("every score maps into exactly its band", prop.ForAll(
		func(score float64) bool {
			rec := Recommend(score)
			switch {
			case score > 0.5:
				return rec == analysis.StrongBuy
			case score > 0.3:
				return rec == analysis.Buy
			case score > 0:
				return rec == analysis.WeakBuy
			case score > -0.3:
				return rec == analysis.Hold
			case score > -0.5:
				return rec == analysis.WeakSell
			default:
				return rec == analysis.Sell
			}
		},
		gen.Float64Range(-1.5, 1.5),
	))

	properties.TestingRun(t)
}

func TestRecommendBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  analysis.Recommendation
	}{
		{0.51, analysis.StrongBuy},
		{0.5, analysis.Buy}, // boundary is exclusive
		{0.31, analysis.Buy},
		{0.3, analysis.WeakBuy},
		{0.01, analysis.WeakBuy},
		{0, analysis.Hold},
		{-0.29, analysis.Hold},
		{-0.3, analysis.WeakSell},
		{-0.49, analysis.WeakSell},
		{-0.5, analysis.Sell},
		{-0.8, analysis.Sell},
	}
	for _, tt := range tests {
		if got := Recommend(tt.score); got != tt.want {
			t.Errorf("Recommend(%v): expected %s, got %s", tt.score, tt.want, got)
		}
	}
}

func snapshotWith(name, sig string, values map[string]float64) analysis.IndicatorSnapshot {
	return analysis.IndicatorSnapshot{Name: name, Values: values, Signal: sig}
}

func TestSynthesizeBullishConfluence(t *testing.T) {
	in := Inputs{
		Levels: analysis.LevelSet{
			Supports:    []analysis.Level{{Price: 98, Kind: analysis.LevelSupport, ClusterSize: 2}},
			Resistances: []analysis.Level{{Price: 108, Kind: analysis.LevelResistance, ClusterSize: 1}},
			Position:    analysis.NearSupport,
		},
		Trend: analysis.TrendSummary{
			ShortTerm: analysis.TrendUp, MediumTerm: analysis.TrendUp,
			LongTerm: analysis.TrendUp, Strength: analysis.TrendStrong,
		},
		Indicators: []analysis.IndicatorSnapshot{
			snapshotWith("rsi", "oversold", map[string]float64{"rsi": 25}),
			snapshotWith("macd", "bullish", map[string]float64{"histogram": 0.8}),
			snapshotWith("adx", "strong", map[string]float64{"adx": 30}),
			snapshotWith("atr", "normal", map[string]float64{"atr": 2}),
		},
		Volume: analysis.VolumeProfile{Trend: "high", OBVTrend: "bullish"},
	}

	result := NewSynthesizer().Synthesize(in)

	// 0.15 + 0.20 + 0.20 + 0.15 + 0.10 + 0.15 = 0.95
	if result.Score < 0.94 || result.Score > 0.96 {
		t.Fatalf("expected score ~0.95, got %.2f", result.Score)
	}
	if result.Recommendation != analysis.StrongBuy {
		t.Errorf("expected strong_buy, got %s", result.Recommendation)
	}
	if len(result.ContributingSignals) != 6 {
		t.Errorf("expected 6 contributing signals, got %d: %v",
			len(result.ContributingSignals), result.ContributingSignals)
	}

	if result.EntryZone == nil || result.StopLoss == nil || result.TakeProfit == nil {
		t.Fatal("expected trade levels for a strong buy near support")
	}
	if result.EntryZone.Low != 98*0.99 || result.EntryZone.High != 98*1.01 {
		t.Errorf("unexpected entry zone %+v", result.EntryZone)
	}
	if *result.StopLoss != 98*0.97 {
		t.Errorf("unexpected stop loss %.2f", *result.StopLoss)
	}
	if *result.TakeProfit != 108*0.99 {
		t.Errorf("unexpected take profit %.2f", *result.TakeProfit)
	}
	if result.RiskReward == nil || *result.RiskReward <= 0 {
		t.Error("expected a positive risk/reward ratio")
	}
}

func TestSynthesizeBearishConfluence(t *testing.T) {
	in := Inputs{
		Levels: analysis.LevelSet{
			Supports:    []analysis.Level{{Price: 92, Kind: analysis.LevelSupport}},
			Resistances: []analysis.Level{{Price: 101, Kind: analysis.LevelResistance}},
			Position:    analysis.NearResistance,
		},
		Trend: analysis.TrendSummary{
			ShortTerm: analysis.TrendDown, MediumTerm: analysis.TrendDown,
			LongTerm: analysis.TrendDown, Strength: analysis.TrendStrong,
		},
		Indicators: []analysis.IndicatorSnapshot{
			snapshotWith("rsi", "overbought", map[string]float64{"rsi": 75}),
			snapshotWith("macd", "bearish", map[string]float64{"histogram": -0.4}),
		},
		Volume: analysis.VolumeProfile{Trend: "high", OBVTrend: "bearish"},
	}

	result := NewSynthesizer().Synthesize(in)

	// -0.15 - 0.20 - 0.15 - 0.15 - 0.15 = -0.80
	if result.Score > -0.79 || result.Score < -0.81 {
		t.Fatalf("expected score ~-0.80, got %.2f", result.Score)
	}
	if result.Recommendation != analysis.Sell {
		t.Errorf("expected sell, got %s", result.Recommendation)
	}
	if result.EntryZone == nil || *result.StopLoss != 101*1.03 {
		t.Error("expected short entry around resistance with stop above it")
	}
}

func TestSynthesizeNeutralInputs(t *testing.T) {
	in := Inputs{
		Levels: analysis.LevelSet{Position: analysis.PositionNeutral},
		Trend: analysis.TrendSummary{
			ShortTerm: analysis.TrendUnavailable, MediumTerm: analysis.TrendUnavailable,
			LongTerm: analysis.TrendUnavailable, Strength: analysis.TrendWeak,
		},
		Indicators: []analysis.IndicatorSnapshot{
			snapshotWith("rsi", "neutral", map[string]float64{"rsi": 50}),
			snapshotWith("adx", "weak", map[string]float64{"adx": 10}),
		},
		Volume: analysis.VolumeProfile{Trend: "normal", OBVTrend: "neutral"},
	}

	result := NewSynthesizer().Synthesize(in)
	if result.Score != 0 {
		t.Errorf("expected zero score, got %.2f", result.Score)
	}
	if result.Recommendation != analysis.Hold {
		t.Errorf("expected hold, got %s", result.Recommendation)
	}
	if result.EntryZone != nil || result.StopLoss != nil || result.TakeProfit != nil {
		t.Error("expected no trade levels for a hold")
	}
	if len(result.ContributingSignals) != 0 {
		t.Errorf("expected no contributing signals, got %v", result.ContributingSignals)
	}
}

func TestSynthesizeOverboughtOffsetsUptrend(t *testing.T) {
	// A strong uptrend that is already overbought must not reach strong_buy.
	in := Inputs{
		Levels: analysis.LevelSet{Position: analysis.PositionNeutral},
		Trend: analysis.TrendSummary{
			ShortTerm: analysis.TrendUp, MediumTerm: analysis.TrendUp,
			LongTerm: analysis.TrendUp, Strength: analysis.TrendStrong,
		},
		Indicators: []analysis.IndicatorSnapshot{
			snapshotWith("rsi", "overbought", map[string]float64{"rsi": 100}),
			snapshotWith("macd", "bullish", map[string]float64{"histogram": 1.2}),
			snapshotWith("adx", "strong", map[string]float64{"adx": 40}),
		},
		Volume: analysis.VolumeProfile{Trend: "normal", OBVTrend: "bullish"},
	}

	result := NewSynthesizer().Synthesize(in)

	// 0.20 - 0.15 + 0.15 + 0.10 = 0.30
	if result.Score > 0.31 {
		t.Fatalf("expected overbought penalty to cap the score, got %.2f", result.Score)
	}
	if result.Recommendation == analysis.StrongBuy {
		t.Error("overbought series must not produce strong_buy")
	}
}
