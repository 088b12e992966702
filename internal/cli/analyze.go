package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"techscan/internal/analysis"
	"techscan/internal/logging"
	"techscan/internal/models"
	"techscan/internal/provider"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var timeframe string
	var lookback int

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run single-timeframe technical analysis",
		Long: `Analyze fetches the price series for a symbol and runs the full
analyzer battery over it: support/resistance levels, trend classification,
RSI/MACD/ADX/ATR, pivot points, and volume, synthesized into a scored
recommendation with optional entry, stop, and target levels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.initPipeline(); err != nil {
				return err
			}

			symbol := strings.ToUpper(args[0])
			if lookback <= 0 {
				lookback = app.Config.Provider.Lookback
			}

			ctx := logging.WithLogger(cmd.Context(), logging.WithSymbol(app.Logger, symbol))
			rpt, err := app.Generator.Generate(ctx, provider.Request{
				Symbol:    symbol,
				Timeframe: models.Timeframe(timeframe),
				Lookback:  lookback,
			})
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(rpt)
			}
			renderReport(output, rpt)
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "daily", "timeframe: daily, weekly, or monthly")
	cmd.Flags().IntVarP(&lookback, "lookback", "n", 0, "number of bars to analyze (default from config)")

	return cmd
}

func renderReport(output *Output, rpt *analysis.SignalReport) {
	output.Bold("%s  [%s]  %d bars", rpt.Symbol, rpt.Timeframe, rpt.BarCount)
	output.Printf("Price: %.2f (%s)\n", rpt.CurrentPrice, output.FormatPercent(rpt.PriceChangePct))
	output.Println()

	output.Bold("Trend")
	output.Printf("  Short: %s  Medium: %s  Long: %s  (%s)\n",
		rpt.Trend.ShortTerm, rpt.Trend.MediumTerm, rpt.Trend.LongTerm, rpt.Trend.Strength)
	output.Printf("  MA20: %.2f  MA50: %.2f", rpt.Trend.MA20, rpt.Trend.MA50)
	if rpt.Trend.MA200 != 0 {
		output.Printf("  MA200: %.2f", rpt.Trend.MA200)
	}
	output.Println()
	output.Println()

	output.Bold("Indicators")
	table := NewTable(output, "NAME", "SIGNAL", "VALUES")
	for _, snap := range rpt.Indicators {
		table.AddRow(strings.ToUpper(snap.Name), snap.Signal, formatValues(snap.Values))
	}
	table.Render()
	output.Println()

	output.Bold("Levels")
	output.Printf("  Position: %s\n", rpt.Levels.Position)
	for _, lvl := range rpt.Levels.Resistances {
		output.Printf("  R %.2f (x%d)\n", lvl.Price, lvl.ClusterSize)
	}
	for _, lvl := range rpt.Levels.Supports {
		output.Printf("  S %.2f (x%d)\n", lvl.Price, lvl.ClusterSize)
	}
	output.Println()

	if len(rpt.Pivots) > 0 {
		output.Bold("Pivots")
		table = NewTable(output, "METHOD", "S2", "S1", "P", "R1", "R2")
		for _, p := range rpt.Pivots {
			table.AddRow(string(p.Method),
				fmt.Sprintf("%.2f", p.Support2), fmt.Sprintf("%.2f", p.Support1),
				fmt.Sprintf("%.2f", p.Pivot),
				fmt.Sprintf("%.2f", p.Resistance1), fmt.Sprintf("%.2f", p.Resistance2))
		}
		table.Render()
		output.Println()
	}

	output.Bold("Volume")
	output.Printf("  Current: %d  MA20: %.0f  Ratio: %.2f (%s)  OBV: %s\n",
		rpt.Volume.CurrentVolume, rpt.Volume.MovingAverage20, rpt.Volume.Ratio,
		rpt.Volume.Trend, rpt.Volume.OBVTrend)
	output.Println()

	output.Bold("Signal")
	output.Printf("  Score: %+.2f  Confidence: %.2f  %s\n",
		rpt.Score, rpt.Confidence, output.Recommendation(rpt.Recommendation))
	for _, reason := range rpt.ContributingSignals {
		output.Dim("    %s", reason)
	}
	if rpt.EntryZone != nil {
		output.Printf("  Entry: %.2f - %.2f\n", rpt.EntryZone.Low, rpt.EntryZone.High)
	}
	if rpt.StopLoss != nil {
		output.Printf("  Stop: %.2f\n", *rpt.StopLoss)
	}
	if rpt.TakeProfit != nil {
		output.Printf("  Target: %.2f\n", *rpt.TakeProfit)
	}
	if rpt.RiskReward != nil {
		output.Printf("  Risk/Reward: %.2f\n", *rpt.RiskReward)
	}
}

func formatValues(values map[string]float64) string {
	if len(values) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, values[k]))
	}
	return strings.Join(parts, " ")
}
