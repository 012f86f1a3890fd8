package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past optimizations for a campaign",
	RunE:  runHistory,
}

var historyCampaignID string

func init() {
	historyCmd.Flags().StringVarP(&historyCampaignID, "campaign-id", "c", "", "Campaign ID (required)")

	if err := historyCmd.MarkFlagRequired("campaign-id"); err != nil {
		panic(fmt.Sprintf("failed to mark campaign-id flag as required: %v", err))
	}

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openSession(cfg)
	if err != nil {
		return err
	}
	client, err := newClient(cfg, store)
	if err != nil {
		return err
	}

	history, err := client.OptimizationHistory(context.Background(), historyCampaignID)
	if err != nil {
		return fmt.Errorf("failed to fetch optimization history: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(history)
	return nil
}
