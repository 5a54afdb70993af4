// cmd/search.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/sentimon/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search post titles, bodies and comments",
	Long:  `Case-insensitive keyword search across the filtered posts and all of their comments.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var (
	searchLimit int
	searchRange rangeFlags
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum matches to show per section")
	searchRange.register(searchCmd, 0)
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")

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

	f := searchRange.filter(cfg)
	res, err := newController(store, cfg).Search(ctx, search.Query{
		Keyword:  keyword,
		Source:   f.Source,
		Range:    f.Range,
		FlagOnly: f.FlagOnly,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(res.Posts) == 0 && len(res.Comments) == 0 {
		fmt.Printf("No results found for '%s'\n", res.Keyword)
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	snippetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	matchStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	mark := func(s string) string { return matchStyle.Render(s) }

	fmt.Printf("\n%s '%s' (%d posts, %d comments, %d posts scanned)\n\n",
		titleStyle.Render("SEARCH:"), res.Keyword, len(res.Posts), len(res.Comments), res.Scanned)

	if len(res.Posts) > 0 {
		fmt.Println(sectionStyle.Render("POSTS"))
		for i, m := range res.Posts {
			if i >= searchLimit {
				fmt.Printf("    ... %d more\n", len(res.Posts)-searchLimit)
				break
			}
			fmt.Printf("%s %s\n", idStyle.Render(fmt.Sprintf("[%s]", m.Post.ID)), search.HighlightFunc(m.Post.Title, res.Keyword, mark))
			if excerpt := search.Excerpt(m.Post.Body, res.Keyword, 80); excerpt != "" {
				fmt.Printf("    %s\n", snippetStyle.Render(search.HighlightFunc(excerpt, res.Keyword, mark)))
			}
		}
		fmt.Println()
	}

	if len(res.Comments) > 0 {
		fmt.Println(sectionStyle.Render("COMMENTS"))
		for i, m := range res.Comments {
			if i >= searchLimit {
				fmt.Printf("    ... %d more\n", len(res.Comments)-searchLimit)
				break
			}
			fmt.Printf("%s on %s\n", idStyle.Render(fmt.Sprintf("[%s/%s]", m.PostID, m.Comment.ID)), m.PostTitle)
			fmt.Printf("    %s\n", snippetStyle.Render(search.HighlightFunc(search.Excerpt(m.Comment.Body, res.Keyword, 80), res.Keyword, mark)))
		}
		fmt.Println()
	}

	if res.CommentErrors > 0 {
		fmt.Printf("%d posts' comments could not be searched.\n", res.CommentErrors)
	}
	return nil
}
