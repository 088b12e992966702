package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"techscan/internal/logging"
)

func newConfluenceCmd(app *App) *cobra.Command {
	var lookback int

	cmd := &cobra.Command{
		Use:   "confluence SYMBOL",
		Short: "Run multi-timeframe confluence analysis",
		Long: `Confluence analyzes the daily, weekly, and monthly timeframes
concurrently and fuses them into a cross-timeframe agreement score. All three
timeframes must be available; a failing timeframe aborts the analysis.`,
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
			rpt, err := app.Confluence.Analyze(ctx, symbol, lookback)
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(rpt)
			}

			output.Bold("%s  confluence", rpt.Symbol)
			output.Printf("Score: %.2f  Assessment: %s\n", rpt.Score,
				strings.ReplaceAll(string(rpt.Assessment), "_", " "))
			output.Printf("Trends aligned:     %v\n", rpt.TrendsAligned)
			output.Printf("Indicators aligned: %v\n", rpt.IndicatorsAligned)
			if len(rpt.Divergences) > 0 {
				output.Bold("Divergences")
				for _, d := range rpt.Divergences {
					output.Printf("  %s\n", d)
				}
			}
			output.Dim("Context: %s", rpt.HigherTimeframeContext)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lookback, "lookback", "n", 0, "number of bars per timeframe (default from config)")

	return cmd
}
