package cmd

import (
	"fmt"

	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/spf13/cobra"
)

var authorCmd = &cobra.Command{
	Use:   "author <name>",
	Short: "Show an author's sentiment profile with their posts and comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthor,
}

func init() {
	rootCmd.AddCommand(authorCmd)
}

func runAuthor(cmd *cobra.Command, args []string) error {
	d, err := openDetail(drilldown.Target{Kind: drilldown.KindAuthor, Author: args[0]})
	if err != nil {
		return err
	}
	if d.State == drilldown.StateNotFound {
		return fmt.Errorf("author not found: %s", args[0])
	}
	ad := d.Author
	a := ad.Author

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(a.Name))
	fmt.Println(divider)
	fmt.Printf("%s %d  %s %d\n", labelStyle.Render("Posts:"), a.PostCount, labelStyle.Render("Comments:"), a.CommentCount)
	fmt.Printf("%s %s  %s %s\n",
		labelStyle.Render("Positive:"), scoreStyle(1).Render(fmt.Sprint(a.PositiveCount)),
		labelStyle.Render("Negative:"), scoreStyle(-1).Render(fmt.Sprint(a.NegativeCount)))
	fmt.Printf("%s %s  %s %.2f\n",
		labelStyle.Render("Average:"), scoreStyle(a.AverageSentiment).Render(fmt.Sprintf("%.2f", a.AverageSentiment)),
		labelStyle.Render("Total:"), a.TotalSentimentScore)

	if len(ad.Posts) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("POSTS:"))
		printPosts(ad.Posts)
	}
	if len(ad.Comments) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("COMMENTS:"))
		printComments(ad.Comments, 0)
	}
	if ad.Failed > 0 {
		fmt.Printf("\n%d records could not be loaded.\n", ad.Failed)
	}
	fmt.Println()
	return nil
}
