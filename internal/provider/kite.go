package provider

import (
	"context"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"techscan/internal/errors"
	"techscan/internal/models"
)

// KiteProvider fetches historical candles from the Kite Connect API.
// Kite serves intervals only up to daily, so weekly and monthly series are
// resampled from daily bars.
type KiteProvider struct {
	client   *kiteconnect.Client
	exchange string

	mu     sync.RWMutex
	tokens map[string]int
}

// NewKiteProvider creates a provider using the given API credentials.
func NewKiteProvider(apiKey, accessToken string) *KiteProvider {
	client := kiteconnect.New(apiKey)
	client.SetAccessToken(accessToken)
	return &KiteProvider{
		client:   client,
		exchange: "NSE",
		tokens:   make(map[string]int),
	}
}

// GetSeries fetches daily candles covering the requested lookback and
// resamples them when a higher timeframe is requested.
func (p *KiteProvider) GetSeries(ctx context.Context, req Request) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := p.instrumentToken(req.Symbol)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -calendarDays(req.Timeframe, req.Lookback))

	data, err := p.client.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrSymbolNotFound
		}
		return nil, errors.Wrap(errors.ErrTransient, err.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, len(data))
	for i, d := range data {
		candles[i] = models.Candle{
			Timestamp: d.Date.Time,
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    int64(d.Volume),
		}
	}

	candles = Resample(candles, req.Timeframe)

	if err := ValidateSeries(req.Symbol, candles); err != nil {
		return nil, err
	}

	return tail(candles, req.Lookback), nil
}

func (p *KiteProvider) instrumentToken(symbol string) (int, error) {
	p.mu.RLock()
	token, ok := p.tokens[symbol]
	p.mu.RUnlock()
	if ok {
		return token, nil
	}

	instruments, err := p.client.GetInstruments()
	if err != nil {
		return 0, errors.Wrap(errors.ErrTransient, err.Error())
	}

	p.mu.Lock()
	for _, inst := range instruments {
		if inst.Exchange == p.exchange {
			p.tokens[inst.Tradingsymbol] = inst.InstrumentToken
		}
	}
	token, ok = p.tokens[symbol]
	p.mu.Unlock()

	if !ok {
		return 0, errors.ErrSymbolNotFound
	}
	return token, nil
}

// calendarDays oversizes the fetch window so that weekends, holidays, and
// resampling still leave enough bars for the lookback.
func calendarDays(tf models.Timeframe, lookback int) int {
	switch tf {
	case models.TimeframeWeekly:
		return lookback*7 + 14
	case models.TimeframeMonthly:
		return lookback*31 + 31
	default:
		return lookback*3/2 + 7
	}
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not found")
}
