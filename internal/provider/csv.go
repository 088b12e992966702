package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"techscan/internal/errors"
	"techscan/internal/models"
)

// CSVProvider reads price series from local CSV files, one file per
// symbol+timeframe named <SYMBOL>_<timeframe>.csv.
type CSVProvider struct {
	dir string
}

// NewCSVProvider creates a provider reading from the given directory.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

type csvRow struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    int64   `csv:"volume"`
}

// GetSeries loads, parses, and validates the series, returning the trailing
// lookback bars.
func (p *CSVProvider) GetSeries(ctx context.Context, req Request) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.dir, fmt.Sprintf("%s_%s.csv", req.Symbol, req.Timeframe))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrSymbolNotFound
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(row.Timestamp)
		if err != nil {
			return nil, errors.NewSeriesError(req.Symbol, i, "unparseable timestamp "+row.Timestamp)
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		})
	}

	if err := ValidateSeries(req.Symbol, candles); err != nil {
		return nil, err
	}

	return tail(candles, req.Lookback), nil
}

var timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
