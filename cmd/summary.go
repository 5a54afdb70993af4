package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the sentiment breakdown of the filtered posts",
	RunE:  runSummary,
}

var summaryRange rangeFlags

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryRange.register(summaryCmd, 0)
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	f := summaryRange.filter(cfg)
	snap, err := newController(store, cfg).Filter(ctx, f)
	if err != nil {
		return err
	}
	s := snap.Summary

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Printf("\n%s %s (%s)\n\n", titleStyle.Render("SENTIMENT:"), f.Source, f.Range)
	fmt.Printf("%s %d\n", labelStyle.Render("Posts:           "), s.Count)
	fmt.Printf("%s %s\n", labelStyle.Render("Average weighted:"), chart.AverageLabel(s))
	fmt.Printf("%s %s\n", labelStyle.Render("Positive:        "), scoreStyle(1).Render(fmt.Sprintf("%d (%.1f%%)", s.Positive, s.PositivePercent)))
	fmt.Printf("%s %s\n", labelStyle.Render("Neutral:         "), scoreStyle(0).Render(fmt.Sprintf("%d (%.1f%%)", s.Neutral, s.NeutralPercent)))
	fmt.Printf("%s %s\n", labelStyle.Render("Negative:        "), scoreStyle(-1).Render(fmt.Sprintf("%d (%.1f%%)", s.Negative, s.NegativePercent)))
	fmt.Println()
	return nil
}
