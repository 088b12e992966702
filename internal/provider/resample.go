package provider

import (
	"fmt"

	"techscan/internal/models"
)

// Resample aggregates daily candles into weekly or monthly bars: open from
// the first bar of the bucket, close from the last, high/low as extremes,
// volume summed. Daily input passes through unchanged. Input must be in
// ascending timestamp order; the trailing partial bucket is kept, matching
// how providers report the in-progress period.
func Resample(candles []models.Candle, tf models.Timeframe) []models.Candle {
	if tf == models.TimeframeDaily || len(candles) == 0 {
		return candles
	}

	var out []models.Candle
	currentKey := ""

	for _, c := range candles {
		key := bucketKey(c, tf)
		if key != currentKey {
			out = append(out, c)
			currentKey = key
			continue
		}

		last := &out[len(out)-1]
		if c.High > last.High {
			last.High = c.High
		}
		if c.Low < last.Low {
			last.Low = c.Low
		}
		last.Close = c.Close
		last.Volume += c.Volume
	}

	return out
}

func bucketKey(c models.Candle, tf models.Timeframe) string {
	if tf == models.TimeframeWeekly {
		year, week := c.Timestamp.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return c.Timestamp.Format("2006-01")
}
