package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"techscan/internal/models"
)

func testStore(t *testing.T) *CandleStore {
	t.Helper()
	s, err := NewCandleStore(filepath.Join(t.TempDir(), "candles.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSeries(n int) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price + 2, Low: price - 2, Close: price + 1,
			Volume: int64(1000 + i),
		}
	}
	return candles
}

func TestSaveAndLoadSeries(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	candles := sampleSeries(30)

	if err := s.SaveSeries(ctx, "RELIANCE", models.TimeframeDaily, candles); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.LoadSeries(ctx, "RELIANCE", models.TimeframeDaily)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != len(candles) {
		t.Fatalf("expected %d candles, got %d", len(candles), len(loaded))
	}
	for i := range candles {
		if !loaded[i].Timestamp.Equal(candles[i].Timestamp) {
			t.Errorf("candle %d: timestamp %v != %v", i, loaded[i].Timestamp, candles[i].Timestamp)
		}
		if loaded[i].Close != candles[i].Close || loaded[i].Volume != candles[i].Volume {
			t.Errorf("candle %d: round-trip mismatch %+v != %+v", i, loaded[i], candles[i])
		}
	}
}

func TestSaveReplacesSeries(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveSeries(ctx, "TCS", models.TimeframeWeekly, sampleSeries(30)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSeries(ctx, "TCS", models.TimeframeWeekly, sampleSeries(10)); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadSeries(ctx, "TCS", models.TimeframeWeekly)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 10 {
		t.Errorf("expected replacement to leave 10 candles, got %d", len(loaded))
	}
}

func TestSeriesAreKeyedByTimeframe(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveSeries(ctx, "INFY", models.TimeframeDaily, sampleSeries(5)); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadSeries(ctx, "INFY", models.TimeframeMonthly)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected no monthly candles, got %d", len(loaded))
	}
}

func TestFetchedAt(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	fetchedAt, err := s.FetchedAt(ctx, "RELIANCE", models.TimeframeDaily)
	if err != nil {
		t.Fatal(err)
	}
	if !fetchedAt.IsZero() {
		t.Errorf("expected zero time before any save, got %v", fetchedAt)
	}

	if err := s.SaveSeries(ctx, "RELIANCE", models.TimeframeDaily, sampleSeries(5)); err != nil {
		t.Fatal(err)
	}

	fetchedAt, err = s.FetchedAt(ctx, "RELIANCE", models.TimeframeDaily)
	if err != nil {
		t.Fatal(err)
	}
	if fetchedAt.IsZero() || time.Since(fetchedAt) > time.Minute {
		t.Errorf("expected a recent fetch time, got %v", fetchedAt)
	}
}
