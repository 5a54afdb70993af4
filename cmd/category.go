package cmd

import (
	"fmt"

	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category <category> <YYYY-MM-DD>",
	Short: "Show the posts and comments behind one category on one day",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategory,
}

func init() {
	rootCmd.AddCommand(categoryCmd)
}

func runCategory(cmd *cobra.Command, args []string) error {
	d, err := openDetail(drilldown.Target{Kind: drilldown.KindCategory, Category: args[0], Date: args[1]})
	if err != nil {
		return err
	}
	cd := d.Category
	if d.State == drilldown.StateNotFound {
		return fmt.Errorf("no statistics for %s on %s", args[0], args[1])
	}

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s on %s", cd.Category, cd.Date)))
	fmt.Println(divider)

	avg := "N/A"
	if cd.Stat.HasAverage {
		avg = scoreStyle(cd.Stat.AverageSentiment).Render(fmt.Sprintf("%.2f", cd.Stat.AverageSentiment))
	}
	fmt.Printf("%s %s  %s %d  %s %d  %s %d\n",
		labelStyle.Render("Average:"), avg,
		labelStyle.Render("Count:"), cd.Stat.Count,
		labelStyle.Render("Positive:"), cd.Stat.PositiveCount,
		labelStyle.Render("Negative:"), cd.Stat.NegativeCount)

	if d.State == drilldown.StateEmpty {
		fmt.Println("\nNo posts or comments recorded for this day.")
		return nil
	}
	if len(cd.Posts) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("POSTS:"))
		printPosts(cd.Posts)
	}
	if len(cd.Comments) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("COMMENTS:"))
		printComments(cd.Comments, 0)
	}
	if cd.Failed > 0 {
		fmt.Printf("\n%d records could not be loaded.\n", cd.Failed)
	}
	fmt.Println()
	return nil
}
