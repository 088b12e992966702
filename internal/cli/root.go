// Package cli provides the command-line interface for the analysis engine.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"techscan/internal/analysis/confluence"
	"techscan/internal/analysis/report"
	"techscan/internal/config"
	"techscan/internal/logging"
	"techscan/internal/provider"
	"techscan/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Generator  *report.Generator
	Confluence *confluence.Analyzer
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "techscan",
		Short: "Technical analysis and signal synthesis for stock price series",
		Long: `techscan runs a battery of technical analyzers (support/resistance
levels, trend, RSI/MACD/ADX/ATR, pivots, volume) over daily, weekly, or
monthly price series and synthesizes the results into a scored trading
signal. The confluence command fuses all three timeframes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/techscan)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newConfluenceCmd(app))

	return rootCmd
}

// initPipeline builds the provider chain and the report generator from
// configuration.
func (app *App) initPipeline() error {
	if app.Generator != nil {
		return nil
	}

	p, err := buildProvider(app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.Generator = report.NewGenerator(p, app.Config.Provider.FetchTimeout)
	app.Confluence = confluence.NewAnalyzer(app.Generator)
	return nil
}

func buildProvider(cfg *config.Config, logger zerolog.Logger) (provider.Provider, error) {
	var p provider.Provider
	switch cfg.Provider.Kind {
	case "csv":
		p = provider.NewCSVProvider(cfg.Provider.CSVDir)
	case "kite":
		if cfg.Credentials.Kite.APIKey == "" || cfg.Credentials.Kite.AccessToken == "" {
			return nil, fmt.Errorf("kite provider requires api_key and access_token credentials")
		}
		p = provider.NewKiteProvider(cfg.Credentials.Kite.APIKey, cfg.Credentials.Kite.AccessToken)
	default:
		return nil, fmt.Errorf("unknown provider kind: %s", cfg.Provider.Kind)
	}

	if cfg.Cache.Enabled {
		cache, err := store.NewCandleStore(cfg.Cache.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to open candle cache, continuing without it")
			return p, nil
		}
		p = provider.NewCachingProvider(p, cache, cfg.Cache.TTL)
	}

	return p, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
				return
			}
			output.Printf("techscan v%s\n", Version)
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Provider")
			output.Printf("  Kind:          %s\n", app.Config.Provider.Kind)
			output.Printf("  CSV Dir:       %s\n", app.Config.Provider.CSVDir)
			output.Printf("  Fetch Timeout: %s\n", app.Config.Provider.FetchTimeout)
			output.Printf("  Lookback:      %d\n", app.Config.Provider.Lookback)
			output.Println()
			output.Bold("Cache")
			output.Printf("  Enabled: %v\n", app.Config.Cache.Enabled)
			output.Printf("  Path:    %s\n", app.Config.Cache.Path)
			output.Printf("  TTL:     %s\n", app.Config.Cache.TTL)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
				return
			}
			output.Println(config.DefaultConfigDir())
		},
	})

	return cmd
}
