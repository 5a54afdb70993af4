package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/sentimon/internal/config"
	"github.com/julienpequegnot/sentimon/internal/database"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sentimon configuration and local mirror",
	Long:  `Creates the ~/.sentimon directory with config.yaml and the SQLite mirror database.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Created config at %s/config.yaml\n", dir)

	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	db.Close()
	fmt.Printf("Created database at %s\n", config.DBPath())

	fmt.Println("\nSentimon initialized! Next steps:")
	fmt.Println("  sentimon sync --days 30     Mirror Firestore data locally")
	fmt.Println("  sentimon list               Show the most negative posts")
	fmt.Println("  sentimon serve              Open the dashboard")

	return nil
}
