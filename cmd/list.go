// cmd/list.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [ordering]",
	Short: "List ranked posts",
	Long: `List posts ranked by one of the dashboard orderings:
topEngaged, lowestWs, highestWs, lowestRaw, highestRaw, recentPosts.
Defaults to lowestWs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listTop   int
	listKeys  bool
	listRange rangeFlags
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listTop, "top", "n", 0, "Number of posts to show (0 = use config)")
	listCmd.Flags().BoolVar(&listKeys, "keys", false, "Print the available orderings")
	listRange.register(listCmd, 0)
}

func runList(cmd *cobra.Command, args []string) error {
	if listKeys {
		for _, k := range rank.Keys() {
			fmt.Printf("  %-12s %s\n", k, rank.Label(k))
		}
		return nil
	}

	key := rank.DefaultKey
	if len(args) == 1 {
		k, ok := rank.ParseKey(args[0])
		if !ok {
			return fmt.Errorf("unknown ordering %q (see --keys)", args[0])
		}
		key = k
	}

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

	snap, err := newController(store, cfg).Filter(ctx, listRange.filter(cfg))
	if err != nil {
		return err
	}

	top := listTop
	if top <= 0 {
		top = cfg.Ranking.Limit
	}
	posts := rank.TopN(snap.Posts, key, top)

	if len(posts) == 0 {
		fmt.Println("No posts found. Run 'sentimon sync' to mirror posts locally.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println(headerStyle.Render(rank.Label(key)))
	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-20s  %-7s  %-7s  %-6s  %-4s  %-10s  %-14s  %s",
		"ID", "WS", "RAW", "ENGAGE", "CMTS", "DATE", "CATEGORY", "TITLE")))
	fmt.Println(strings.Repeat("─", 100))

	for _, p := range posts {
		date := "-"
		if !p.Created.IsZero() {
			date = p.Created.Format("2006-01-02")
		}

		fmt.Printf(" %s  %s  %s  %-6.2f  %-4d  %s  %s  %s\n",
			idStyle.Render(fmt.Sprintf("%-20s", chart.Truncate(p.ID, 20))),
			scoreStyle(p.WeightedSentimentScore).Render(fmt.Sprintf("%-7.2f", p.WeightedSentimentScore)),
			scoreStyle(p.RawSentimentScore).Render(fmt.Sprintf("%-7.2f", p.RawSentimentScore)),
			p.EngagementScore,
			p.TotalComments,
			dateStyle.Render(fmt.Sprintf("%-10s", date)),
			categoryStyle.Render(fmt.Sprintf("%-14s", chart.Truncate(p.Category, 14))),
			chart.Truncate(p.Title, 50),
		)
	}

	return nil
}

// scoreStyle colors a sentiment value by its sign.
func scoreStyle(v float64) lipgloss.Style {
	switch {
	case v < 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case v > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
}
