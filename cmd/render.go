package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/config"
	"github.com/julienpequegnot/sentimon/internal/dashboard"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the dashboard as a static HTML page",
	RunE:  runRender,
}

var (
	renderOut   string
	renderRange rangeFlags
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (default ~/.sentimon/dashboard.html)")
	renderRange.register(renderCmd, 0)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl := newController(store, cfg)
	snap, err := ctrl.Filter(ctx, renderRange.filter(cfg))
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = filepath.Join(config.Dir(), "dashboard.html")
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := chart.RenderPage(f, dashboard.Page(snap, ctrl.Rank(snap, rank.DefaultKey), "")); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	fmt.Printf("Wrote %s (%d posts)\n", out, snap.Summary.Count)
	return nil
}
