package indicators

import (
	"testing"
	"time"

	"techscan/internal/analysis"
	"techscan/internal/models"
)

func flatSeries(n int, price float64) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	return candles
}

func risingSeries(n int, start, step float64) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := start
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price + step, Low: price - step, Close: price,
			Volume: 1000,
		}
		price += step
	}
	return candles
}

func TestComputeUnknownKind(t *testing.T) {
	_, err := Compute(Kind("stochastic"), flatSeries(50, 100))
	if err != ErrUnknownKind {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestBatteryOrder(t *testing.T) {
	snapshots := Battery(risingSeries(100, 100, 1))
	want := []string{"rsi", "macd", "adx", "atr"}
	if len(snapshots) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(snapshots))
	}
	for i, name := range want {
		if snapshots[i].Name != name {
			t.Errorf("snapshot %d: expected %s, got %s", i, name, snapshots[i].Name)
		}
	}
}

func TestFlatSeriesNeutral(t *testing.T) {
	// Every close identical: RSI resolves to 50, nothing divides by zero.
	snapshots := Battery(flatSeries(100, 250))

	for _, snap := range snapshots {
		switch snap.Name {
		case "rsi":
			if snap.Values["rsi"] != 50 {
				t.Errorf("flat series RSI: expected 50, got %v", snap.Values["rsi"])
			}
			if snap.Signal != "neutral" {
				t.Errorf("flat series RSI signal: expected neutral, got %s", snap.Signal)
			}
		case "atr":
			if snap.Values["atr"] != 0 {
				t.Errorf("flat series ATR: expected 0, got %v", snap.Values["atr"])
			}
			if snap.Signal != "low" {
				t.Errorf("flat series ATR signal: expected low, got %s", snap.Signal)
			}
		}
	}
}

func TestShortSeriesDegrades(t *testing.T) {
	// Ten bars is below every indicator window; each snapshot must carry the
	// insufficient-data marker instead of failing the battery.
	snapshots := Battery(risingSeries(10, 100, 1))
	for _, snap := range snapshots {
		if snap.Signal != analysis.SignalInsufficientData {
			t.Errorf("%s: expected %s, got %s", snap.Name, analysis.SignalInsufficientData, snap.Signal)
		}
		if snap.Values != nil {
			t.Errorf("%s: expected no values on short series", snap.Name)
		}
	}
}

func TestRisingSeriesOverbought(t *testing.T) {
	snapshots := Battery(risingSeries(300, 100, 0.5))
	for _, snap := range snapshots {
		if snap.Name == "rsi" {
			if snap.Signal != "overbought" {
				t.Errorf("monotonic rise: expected overbought, got %s", snap.Signal)
			}
			if snap.Values["rsi"] != 100 {
				t.Errorf("monotonic rise: expected RSI 100, got %v", snap.Values["rsi"])
			}
		}
	}
}
