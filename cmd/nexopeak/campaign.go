package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/observability"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Show a campaign",
	Long:  "Fetches a campaign by ID and prints its key attributes.",
	RunE:  runCampaign,
}

var campaignID string

func init() {
	campaignCmd.Flags().StringVarP(&campaignID, "campaign-id", "c", "", "Campaign ID (required)")

	if err := campaignCmd.MarkFlagRequired("campaign-id"); err != nil {
		panic(fmt.Sprintf("failed to mark campaign-id flag as required: %v", err))
	}

	rootCmd.AddCommand(campaignCmd)
}

func runCampaign(cmd *cobra.Command, _ []string) error {
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

	campaign, err := client.Campaign(context.Background(), campaignID)
	if err != nil {
		return fmt.Errorf("failed to fetch campaign: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintCampaign(campaign)
	return nil
}
