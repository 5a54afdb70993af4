// cmd/show.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show details of a post",
	Long:  `Display a post with its scores, badges and comments (newest first).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showComments int

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showComments, "comments", "c", 10, "Maximum comments to show")
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	urlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	divider    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("━", 70))
)

func runShow(cmd *cobra.Command, args []string) error {
	d, err := openDetail(drilldown.Target{Kind: drilldown.KindPost, PostID: args[0]})
	if err != nil {
		return err
	}
	if d.State == drilldown.StateNotFound {
		return fmt.Errorf("post not found: %s", args[0])
	}
	pd := d.Post
	p := pd.Post

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(p.Title))
	fmt.Println(divider)

	fmt.Printf("%s %s\n", labelStyle.Render("ID:"), valueStyle.Render(p.ID))
	fmt.Printf("%s %s\n", labelStyle.Render("Author:"), valueStyle.Render(p.Author))
	if !p.Created.IsZero() {
		fmt.Printf("%s %s\n", labelStyle.Render("Created:"), valueStyle.Render(p.Created.Format("2006-01-02 15:04")))
	}
	if p.URL != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("URL:"), urlStyle.Render(p.URL))
	}
	printBadges(pd.Badges)

	if p.Summary != "" {
		fmt.Printf("\n%s\n%s\n", labelStyle.Render("SUMMARY:"), valueStyle.Render(p.Summary))
	}
	if p.Body != "" {
		fmt.Printf("\n%s\n%s\n", labelStyle.Render("BODY:"), valueStyle.Render(preview(p.Body, 500)))
	}

	fmt.Printf("\n%s\n", labelStyle.Render(fmt.Sprintf("COMMENTS (%d):", len(pd.Comments))))
	if pd.CommentsUnavailable {
		fmt.Println("  comments unavailable")
	}
	printComments(pd.Comments, showComments)
	fmt.Println()
	return nil
}

// openDetail resolves t against the configured store.
func openDetail(t drilldown.Target) (*drilldown.Detail, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	t.Source = cfg.Source
	return newController(store, cfg).Open(ctx, t)
}

func printBadges(badges []drilldown.Badge) {
	parts := make([]string, 0, len(badges))
	for _, b := range badges {
		parts = append(parts, fmt.Sprintf("%s %s", labelStyle.Render(b.Label+":"), valueStyle.Render(b.Value)))
	}
	fmt.Println(strings.Join(parts, "  "))
}

func printPosts(items []drilldown.PostItem) {
	for _, it := range items {
		if it.Unavailable {
			fmt.Printf("  • [%s] %s\n", it.Post.ID, drilldown.Unavailable)
			continue
		}
		fmt.Printf("  • [%s] %s %s\n", it.Post.ID, it.Post.Title,
			scoreStyle(it.Post.WeightedSentimentScore).Render(fmt.Sprintf("(%.2f)", it.Post.WeightedSentimentScore)))
	}
}

func printComments(items []drilldown.CommentItem, limit int) {
	for i, it := range items {
		if limit > 0 && i >= limit {
			fmt.Printf("  ... %d more\n", len(items)-limit)
			return
		}
		c := it.Comment
		if it.Unavailable {
			fmt.Printf("  • [%s/%s] %s\n", c.PostID, c.ID, drilldown.Unavailable)
			continue
		}
		when := ""
		if !c.Created.IsZero() {
			when = c.Created.Format("2006-01-02 15:04")
		}
		fmt.Printf("  • %s %s %s\n", labelStyle.Render(c.Author), labelStyle.Render(when),
			scoreStyle(c.Sentiment).Render(fmt.Sprintf("(%.2f)", c.Sentiment)))
		fmt.Printf("    %s\n", valueStyle.Render(preview(c.Body, 200)))
	}
}

func preview(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return string(runes)
}
