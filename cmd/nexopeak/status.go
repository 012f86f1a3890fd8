package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/observability"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of a campaign's latest optimization",
	RunE:  runStatus,
}

var statusCampaignID string

func init() {
	statusCmd.Flags().StringVarP(&statusCampaignID, "campaign-id", "c", "", "Campaign ID (required)")

	if err := statusCmd.MarkFlagRequired("campaign-id"); err != nil {
		panic(fmt.Sprintf("failed to mark campaign-id flag as required: %v", err))
	}

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
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

	ctx := context.Background()
	history, err := client.OptimizationHistory(ctx, statusCampaignID)
	if err != nil {
		return fmt.Errorf("failed to fetch optimization history: %w", err)
	}

	out := cmd.OutOrStdout()
	latest := history.Latest()
	if latest == nil {
		_, _ = fmt.Fprintln(out, "No optimizations yet. Run `nexopeak optimize` to start one.")
		return nil
	}

	// The history entry may be stale; ask for the live status.
	current, err := client.OptimizationStatus(ctx, latest.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch optimization status: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Optimization %s: %s\n", current.ID, current.Status)
	if current.Status == types.StatusCompleted {
		observability.NewPrinter(out).PrintConfidenceScores(&current.ConfidenceScores)
		_, _ = fmt.Fprintf(out, "View recommendations with: nexopeak results -o %s\n", current.ID)
	}
	return nil
}
