package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/observability"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/questionnaire"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/workflow"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the campaign optimization wizard",
	Long:  "Walks a campaign through the optimization workflow: starts an analysis job, collects questionnaire answers, waits for the backend analysis and prints the recommendations. Interrupted runs resume where they left off.",
	RunE:  runOptimize,
}

var (
	optimizeCampaignID string
	optimizeType       string
	optimizeAnswers    string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeCampaignID, "campaign-id", "c", "", "Campaign ID (required)")
	optimizeCmd.Flags().StringVarP(&optimizeType, "type", "t", "", "Optimization type: full, timing, platform or budget")
	optimizeCmd.Flags().StringVarP(&optimizeAnswers, "answers", "a", "", "Path to a prepared answers file (JSON or YAML) instead of interactive prompts")

	if err := optimizeCmd.MarkFlagRequired("campaign-id"); err != nil {
		panic(fmt.Sprintf("failed to mark campaign-id flag as required: %v", err))
	}

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
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

	// Ctrl-C stops the wizard cleanly; an interrupted analysis resumes on the
	// next run because the job keeps running server-side.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(cmd.ErrOrStderr(), "nexopeak: ", log.LstdFlags)
	}

	wf, err := workflow.New(workflow.Options{
		Backend:          client,
		CampaignID:       optimizeCampaignID,
		OptimizationType: firstNonEmpty(optimizeType, cfg.OptimizationType),
		PollInterval:     cfg.PollInterval(),
		PollCeiling:      cfg.PollCeiling(),
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	if err := wf.Resume(ctx); err != nil {
		return fmt.Errorf("%s", wf.ErrorMessage())
	}
	printer.PrintCampaign(wf.Campaign())

	switch wf.State() {
	case workflow.StateResults:
		_, _ = fmt.Fprintln(out, "The latest optimization is already complete.")
		return printResults(ctx, out, printer, wf)
	case workflow.StateAnalyzing:
		_, _ = fmt.Fprintln(out, "An analysis is already running; waiting for it to finish.")
		return awaitAndPrint(ctx, out, printer, wf)
	}

	if err := wf.Start(ctx); err != nil {
		if msg := wf.ErrorMessage(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	if optimizeAnswers != "" {
		if err := submitFromFile(ctx, wf, optimizeAnswers); err != nil {
			return err
		}
	} else {
		in := bufio.NewReader(cmd.InOrStdin())
		if err := runInteractive(ctx, out, in, printer, wf); err != nil {
			return err
		}
	}

	return awaitAndPrint(ctx, out, printer, wf)
}

// submitFromFile loads a prepared answer file and submits in one shot.
func submitFromFile(ctx context.Context, wf *workflow.Workflow, path string) error {
	answers, err := questionnaire.LoadAnswersFile(path)
	if err != nil {
		return err
	}
	if err := wf.Navigator().SetAll(answers); err != nil {
		return err
	}

	issues, err := wf.Submit(ctx)
	if errors.Is(err, workflow.ErrQuestionnaireIncomplete) {
		var sb []string
		for _, issue := range issues {
			sb = append(sb, fmt.Sprintf("%s: %s", issue.Key, issue.Message))
		}
		return fmt.Errorf("answers file is incomplete:\n  %s", joinLines(sb))
	}
	if err != nil {
		if msg := wf.ErrorMessage(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return nil
}

// runInteractive walks the questionnaire one question at a time until a
// complete answer set is submitted.
func runInteractive(ctx context.Context, out io.Writer, in *bufio.Reader, printer *observability.Printer, wf *workflow.Workflow) error {
	nav := wf.Navigator()
	if nav.Len() == 0 {
		// Nothing to ask; submit the empty answer set so the analysis
		// still starts.
		_, err := wf.Submit(ctx)
		return err
	}
	_, _ = fmt.Fprintf(out, "\n%d questions. Type 'back' to revisit the previous one.\n\n", nav.Len())

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		q := nav.Current()
		if q == nil {
			break
		}
		printer.PrintQuestion(q, nav.Index(), nav.Len())

		raw, err := promptLine(out, in, "> ")
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}

		if raw == "back" {
			if !nav.Back() {
				_, _ = fmt.Fprintln(out, "Already at the first question.")
			}
			continue
		}

		value, answered, err := parseAnswer(q, raw)
		if err != nil {
			_, _ = fmt.Fprintf(out, "%v\n\n", err)
			continue
		}
		if answered {
			if err := nav.Answer(value); err != nil {
				_, _ = fmt.Fprintf(out, "%v\n\n", err)
				continue
			}
		}

		moved, err := nav.Next()
		if err != nil {
			_, _ = fmt.Fprintln(out, "This question needs an answer before continuing.")
			continue
		}
		if !moved {
			// Last question answered; try to submit.
			issues, err := wf.Submit(ctx)
			if errors.Is(err, workflow.ErrQuestionnaireIncomplete) {
				_, _ = fmt.Fprintf(out, "\n%d question(s) still need attention:\n", len(issues))
				for _, issue := range issues {
					_, _ = fmt.Fprintf(out, "  %s: %s\n", issue.Key, issue.Message)
				}
				_, _ = fmt.Fprintln(out)
				continue // the navigator jumped to the first offender
			}
			if err != nil {
				if msg := wf.ErrorMessage(); msg != "" {
					_, _ = fmt.Fprintf(out, "%s\n", msg)
					continue // answers are kept; retry submission
				}
				return err
			}
			return nil
		}
	}
	return nil
}

// awaitAndPrint blocks until the analysis finishes and prints the outcome.
func awaitAndPrint(ctx context.Context, out io.Writer, printer *observability.Printer, wf *workflow.Workflow) error {
	_, _ = fmt.Fprintln(out, "\nAnalyzing your campaign. This usually takes under a minute.")

	err := wf.Await(ctx)
	switch {
	case errors.Is(err, workflow.ErrAnalysisTimeout):
		return fmt.Errorf("the analysis is taking longer than expected; check back with `nexopeak status -c %s`", optimizeCampaignID)
	case errors.Is(err, workflow.ErrOptimizationFailed):
		return fmt.Errorf("%s", wf.ErrorMessage())
	case err != nil:
		return err
	}

	return printResults(ctx, out, printer, wf)
}

func printResults(ctx context.Context, out io.Writer, printer *observability.Printer, wf *workflow.Workflow) error {
	recs, err := wf.Results(ctx)
	if err != nil {
		if msg := wf.ErrorMessage(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	_, _ = fmt.Fprintln(out)
	printer.PrintRecommendations(recs)
	_, _ = fmt.Fprintf(out, "\nApply with: nexopeak apply -o %s [--platform] [--timing] [--budget]\n", wf.OptimizationID())
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n  "
		}
		out += line
	}
	return out
}
