package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "booktracker",
	Short: "Multi-user book tracking service",
	Long: `booktracker serves a shared book catalog with per-user ordered
reading lists, read progression, and a read-count leaderboard.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
