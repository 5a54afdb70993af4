package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/julienpequegnot/sentimon/internal/config"
	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror Firestore documents into the local SQLite store",
	Long: `Copies posts, their comments, the authors they reference and the
daily category statistics from Firestore into the SQLite mirror, so the
other commands can run with --store sqlite.`,
	RunE: runSync,
}

var (
	syncDays int
	syncAll  bool
)

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().IntVar(&syncDays, "days", 0, "Mirror the last N days (0 = use config)")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Mirror every document regardless of date")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rng := record.Range{}
	if !syncAll {
		days := cfg.Daemon.SyncDays
		if syncDays > 0 {
			days = syncDays
		}
		rng = record.LastDays(time.Now(), days)
	}

	stats, err := syncOnce(context.Background(), cfg, rng)
	if err != nil {
		return err
	}

	fmt.Printf("Mirrored %d posts, %d comments, %d authors, %d category days", stats.Posts, stats.Comments, stats.Authors, stats.CategoryDays)
	if stats.Failed > 0 {
		fmt.Printf(" (%d failed)", stats.Failed)
	}
	fmt.Println()
	fmt.Printf("Mirror now holds %d posts\n", stats.Total)
	return nil
}

// syncOnce mirrors cfg.Source in rng from Firestore into the local store.
func syncOnce(ctx context.Context, cfg *config.Config, rng record.Range) (docstore.MirrorStats, error) {
	src, err := docstore.NewFirestore(ctx, cfg.Store.ProjectID, cfg.Store.CredentialsFile)
	if err != nil {
		return docstore.MirrorStats{}, err
	}
	defer src.Close()

	dst, err := docstore.OpenSQLite(config.DBPath())
	if err != nil {
		return docstore.MirrorStats{}, fmt.Errorf("failed to open mirror: %w", err)
	}
	defer dst.Close()

	return docstore.Mirror(ctx, src, dst, fanout.New(cfg.Fetch.Concurrency), cfg.Source, rng)
}
