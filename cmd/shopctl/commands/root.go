package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbDriver string
	dbURL    string
)

// Version is overridden at build time with -ldflags "-X ...commands.Version=".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Operator tool for the shop services",
	Long: `shopctl manages the customer, product and order services.

It creates database schemas and can query the customer service the same
way the order service does when it validates a new order.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "sqlite", "Database driver (sqlite or pgx)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database path or URL (defaults to DATABASE_URL, then a per-service SQLite file)")
}
