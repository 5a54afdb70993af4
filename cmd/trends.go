package cmd

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/trend"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends [category...]",
	Short: "Show category sentiment trends",
	Long: `Aggregates the daily category statistics into one series per category,
with a trailing moving average, and plots them in the terminal.`,
	RunE: runTrends,
}

var (
	trendsRange  rangeFlags
	trendsWindow int
	trendsPlot   bool
)

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsRange.register(trendsCmd, 30)
	trendsCmd.Flags().IntVarP(&trendsWindow, "window", "w", 0, "Moving average window (0 = use config)")
	trendsCmd.Flags().BoolVar(&trendsPlot, "plot", true, "Plot each series")
}

func runTrends(cmd *cobra.Command, args []string) error {
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

	if trendsWindow > 0 {
		cfg.Trend.Window = trendsWindow
	}
	rng := trendsRange.rng()
	series, err := newController(store, cfg).Trends(ctx, cfg.Source, rng)
	if err != nil {
		return err
	}
	series = selectSeries(series, args)

	if len(series) == 0 {
		fmt.Println("No category statistics found.")
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fmt.Printf("\n%s %s (%s, %d-day average)\n\n", titleStyle.Render("CATEGORY TRENDS:"), cfg.Source, rng, cfg.Trend.Window)

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-20s  %-6s  %-7s  %-10s  %-7s  %s", "CATEGORY", "DAYS", "MEAN", "LATEST", "VALUE", "AVG")))
	fmt.Println(strings.Repeat("─", 80))
	for _, s := range series {
		mean := "-"
		if m, ok := s.Mean(); ok {
			mean = fmt.Sprintf("%.2f", m)
		}
		latest, value, avg := "-", "-", "-"
		if p, ok := s.Latest(); ok {
			latest = p.Date
			value = fmt.Sprintf("%.2f", p.Value)
			if len(s.Moving) > 0 {
				avg = fmt.Sprintf("%.2f", s.Moving[len(s.Moving)-1])
			}
		}
		fmt.Printf(" %-20s  %-6d  %-7s  %-10s  %-7s  %s\n", s.Category, len(s.Points), mean, latest, value, avg)
	}
	fmt.Println()

	if !trendsPlot {
		return nil
	}
	axis := trend.Axis(series)
	for _, s := range series {
		data := align(s, axis)
		if !hasValue(data) {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Precision(2),
			asciigraph.Caption(fmt.Sprintf("%s (%s..%s)", s.Category, axis[0], axis[len(axis)-1]))))
		fmt.Println()
	}
	return nil
}

func selectSeries(series []trend.Series, names []string) []trend.Series {
	if len(names) == 0 {
		return series
	}
	var out []trend.Series
	for _, name := range names {
		if s, ok := trend.Find(series, record.CategoryKey(name)); ok {
			out = append(out, s)
		}
	}
	return out
}

// align spreads a series over the shared date axis; missing days are NaN
// so the plot shows a gap.
func align(s trend.Series, axis []string) []float64 {
	data := make([]float64, len(axis))
	for i, date := range axis {
		data[i] = math.NaN()
		if p, ok := s.Point(date); ok && p.Valid {
			data[i] = p.Value
		}
	}
	return data
}

func hasValue(data []float64) bool {
	for _, v := range data {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
