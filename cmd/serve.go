package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/julienpequegnot/sentimon/internal/config"
	"github.com/julienpequegnot/sentimon/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and its JSON API",
	RunE:  runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Dashboard at http://localhost%s/\n", cfg.Server.Addr)
	return serve(ctx, cfg)
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(newController(store, cfg), cfg.Source)
	return srv.Run(ctx, cfg.Server.Addr)
}
