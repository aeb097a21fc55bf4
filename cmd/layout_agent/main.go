// Package main implements the layout_agent CLI for résumé layout planning.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "layout_agent",
	Short: "Résumé layout and bullet allocation engine",
	Long:  "layout_agent scores a candidate's content pool against a job target, allocates bullets under a two-page line budget, and simulates the page split.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
