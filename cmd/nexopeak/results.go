package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/observability"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the recommendations of a completed optimization",
	RunE:  runResults,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply selected recommendations to the campaign",
	Long:  "Applies the chosen subset of a completed optimization's recommendations. Pick sections with --timing, --platform and --budget; at least one is required.",
	RunE:  runApply,
}

var (
	resultsOptimizationID string

	applyOptimizationID string
	applyTiming         bool
	applyPlatform       bool
	applyBudget         bool
)

func init() {
	resultsCmd.Flags().StringVarP(&resultsOptimizationID, "optimization-id", "o", "", "Optimization ID (required)")
	if err := resultsCmd.MarkFlagRequired("optimization-id"); err != nil {
		panic(fmt.Sprintf("failed to mark optimization-id flag as required: %v", err))
	}

	applyCmd.Flags().StringVarP(&applyOptimizationID, "optimization-id", "o", "", "Optimization ID (required)")
	applyCmd.Flags().BoolVar(&applyTiming, "timing", false, "Apply the recommended launch date")
	applyCmd.Flags().BoolVar(&applyPlatform, "platform", false, "Apply the recommended primary platform")
	applyCmd.Flags().BoolVar(&applyBudget, "budget", false, "Apply the recommended budgets")
	if err := applyCmd.MarkFlagRequired("optimization-id"); err != nil {
		panic(fmt.Sprintf("failed to mark optimization-id flag as required: %v", err))
	}

	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(applyCmd)
}

func runResults(cmd *cobra.Command, _ []string) error {
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

	recs, err := client.Recommendations(context.Background(), resultsOptimizationID)
	if err != nil {
		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintRecommendations(recs)
	return nil
}

func runApply(cmd *cobra.Command, _ []string) error {
	if !applyTiming && !applyPlatform && !applyBudget {
		return fmt.Errorf("select at least one of --timing, --platform, --budget")
	}

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

	// The selection carries the recommended values; fetch them first.
	recs, err := client.Recommendations(ctx, applyOptimizationID)
	if err != nil {
		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	selection := &types.ApplySelection{}
	if applyTiming {
		if recs.Timing.OptimalLaunchDate == "" {
			return fmt.Errorf("this optimization has no launch date recommendation to apply")
		}
		selection.Timing = &types.TimingSelection{OptimalLaunchDate: recs.Timing.OptimalLaunchDate}
	}
	if applyPlatform {
		if recs.Platforms.PrimaryPlatform == "" {
			return fmt.Errorf("this optimization has no platform recommendation to apply")
		}
		selection.Platforms = &types.PlatformSelection{PrimaryPlatform: recs.Platforms.PrimaryPlatform}
	}
	if applyBudget {
		if recs.Budget.RecommendedTotalBudget == 0 && recs.Budget.RecommendedDailyBudget == 0 {
			return fmt.Errorf("this optimization has no budget recommendation to apply")
		}
		selection.Budget = &types.BudgetSelection{
			RecommendedTotalBudget: recs.Budget.RecommendedTotalBudget,
			RecommendedDailyBudget: recs.Budget.RecommendedDailyBudget,
		}
	}

	resp, err := client.ApplyRecommendations(ctx, applyOptimizationID, selection)
	if err != nil {
		return fmt.Errorf("failed to apply recommendations: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintAppliedChanges(resp)
	return nil
}
