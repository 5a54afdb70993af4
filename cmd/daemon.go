// cmd/daemon.go
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/julienpequegnot/sentimon/internal/config"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/scheduler"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in daemon mode",
	Long: `Runs sentimon in the background, periodically mirroring Firestore into
the local store. With --serve the dashboard is served from the mirror at
the same time.`,
	RunE: runDaemon,
}

var (
	daemonSchedule string
	daemonOnce     bool
	daemonServe    bool
)

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVar(&daemonSchedule, "schedule", "", "Override sync schedule (cron expression or @every)")
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "Run once and exit")
	daemonCmd.Flags().BoolVar(&daemonServe, "serve", false, "Also serve the dashboard")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	schedule := cfg.Daemon.Schedule
	if daemonSchedule != "" {
		schedule = daemonSchedule
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(30 * time.Minute)
	job := syncJob(cfg)

	fmt.Printf("Sentimon daemon starting (schedule: %s)\n", schedule)

	// Run immediately on start
	if err := sched.RunNow(ctx, "sync", job); err != nil {
		log.WithError(err).Error("initial sync failed")
	}

	if daemonOnce {
		fmt.Println("Single run complete.")
		return nil
	}

	if err := sched.AddJob("sync", schedule, job); err != nil {
		return err
	}
	sched.Start()
	fmt.Println("Daemon running. Press Ctrl+C to stop.")

	if daemonServe {
		local := *cfg
		local.Store.Backend = config.BackendSQLite
		if err := serve(ctx, &local); err != nil {
			log.WithError(err).Error("dashboard server stopped")
		}
	} else {
		<-ctx.Done()
	}

	fmt.Println("\nShutting down...")
	<-sched.Stop().Done()
	return nil
}

func syncJob(cfg *config.Config) scheduler.Job {
	return func(ctx context.Context) error {
		rng := record.LastDays(time.Now(), cfg.Daemon.SyncDays)
		stats, err := syncOnce(ctx, cfg, rng)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"posts":         stats.Posts,
			"comments":      stats.Comments,
			"authors":       stats.Authors,
			"category_days": stats.CategoryDays,
			"failed":        stats.Failed,
			"total":         stats.Total,
		}).Info("sync complete")
		return nil
	}
}
