package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/julienpequegnot/sentimon/internal/config"
	"github.com/julienpequegnot/sentimon/internal/dashboard"
	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sentimon",
	Short: "Sentiment dashboard over forum posts and comments",
	Long: `Sentimon reads scored posts, comments and daily category statistics
from Firestore (or a local SQLite mirror), ranks them, aggregates category
trends and serves an interactive dashboard.

Workflow: sync → list / trends / search → show → serve`,
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
}

var (
	verbose      bool
	sourceFlag   string
	storeFlag    string
	loadedConfig *config.Config
)

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "Data source (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store backend: sqlite or firestore (overrides config)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch cfg.Log.Format {
	case "json":
		log.SetHandler(json.New(os.Stderr))
	case "text":
		log.SetHandler(text.New(os.Stderr))
	default:
		log.SetHandler(cli.New(os.Stderr))
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return nil
}

// loadConfig reads the config once per process and applies the global
// flag overrides.
func loadConfig() (*config.Config, error) {
	if loadedConfig != nil {
		return loadedConfig, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if sourceFlag != "" {
		cfg.Source = sourceFlag
	}
	if storeFlag != "" {
		cfg.Store.Backend = storeFlag
	}
	if err := docstore.ValidateSource(cfg.Source); err != nil {
		return nil, err
	}
	loadedConfig = cfg
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		fs, err := docstore.NewFirestore(ctx, cfg.Store.ProjectID, cfg.Store.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.BackendSQLite:
		db, err := docstore.OpenSQLite(config.DBPath())
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func timeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
}

func newController(store docstore.Store, cfg *config.Config) *dashboard.Controller {
	return dashboard.NewController(store, fanout.New(cfg.Fetch.Concurrency), dashboard.Options{
		Limit:      cfg.Ranking.Limit,
		Window:     cfg.Trend.Window,
		LabelWidth: cfg.Chart.LabelWidth,
		Timeout:    timeout(cfg),
	})
}

// rangeFlags is the date window and flag filter shared by the read
// commands.
type rangeFlags struct {
	start    string
	end      string
	days     int
	flagOnly bool
}

func (r *rangeFlags) register(cmd *cobra.Command, days int) {
	cmd.Flags().StringVar(&r.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&r.days, "days", days, "Only the last N days (ignored when --start or --end is set)")
	cmd.Flags().BoolVar(&r.flagOnly, "flagged", false, "Only posts flagged as related to the source")
}

func (r *rangeFlags) rng() record.Range {
	if r.start == "" && r.end == "" && r.days > 0 {
		return record.LastDays(time.Now(), r.days)
	}
	return record.ParseRange(r.start, r.end)
}

func (r *rangeFlags) filter(cfg *config.Config) dashboard.Filter {
	return dashboard.Filter{Source: cfg.Source, Range: r.rng(), FlagOnly: r.flagOnly}
}
