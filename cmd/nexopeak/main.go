// Package main provides the entry point for the Nexopeak campaign optimizer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nexopeak",
	Short: "Nexopeak Campaign Optimizer CLI",
	Long:  "Nexopeak analyzes marketing campaigns through a questionnaire-driven optimization workflow and produces timing, platform and budget recommendations you can apply from the terminal.",
}

var (
	rootAPIURL     string
	rootConfigPath string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Backend API origin (defaults to NEXOPEAK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed progress information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
