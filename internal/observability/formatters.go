// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the wizard and verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCampaign outputs a human-readable summary of the campaign being optimized.
func (p *Printer) PrintCampaign(c *types.Campaign) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("Type:      %s\n", c.CampaignType))
	sb.WriteString(fmt.Sprintf("Platform:  %s\n", c.Platform))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", c.Status))
	if c.PrimaryObjective != "" {
		sb.WriteString(fmt.Sprintf("Objective: %s\n", c.PrimaryObjective))
	}
	if c.TotalBudget > 0 {
		sb.WriteString(fmt.Sprintf("Budget:    %.2f %s", c.TotalBudget, c.Currency))
		if c.DailyBudget > 0 {
			sb.WriteString(fmt.Sprintf(" (%.2f/day)", c.DailyBudget))
		}
		sb.WriteString("\n")
	}
	if c.StartDate != nil {
		sb.WriteString(fmt.Sprintf("Starts:    %s\n", c.StartDate.Format("2006-01-02")))
	}

	p.printBox("CAMPAIGN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestion renders one question with its position in the sequence and
// the variant-specific answer hints.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintQuestion(q types.Question, index, total int) {
	if q == nil {
		return
	}
	meta := q.Meta()

	var sb strings.Builder
	sb.WriteString(meta.Text + "\n")
	if !meta.Required {
		sb.WriteString("(optional, press enter to skip)\n")
	}

	switch v := q.(type) {
	case *types.MultipleChoiceQuestion:
		sb.WriteString("\n")
		for i, opt := range v.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			sb.WriteString(fmt.Sprintf("  %d) %s\n", i+1, label))
		}
		if v.MultipleSelect {
			sb.WriteString("\nSelect one or more, comma separated.\n")
		}
	case *types.ScaleQuestion:
		sb.WriteString(fmt.Sprintf("\nEnter a number from %d to %d.\n", v.Min, v.Max))
		if len(v.Labels) > 0 {
			keys := make([]string, 0, len(v.Labels))
			for k := range v.Labels {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("  %s = %s\n", k, v.Labels[k]))
			}
		}
	case *types.BooleanQuestion:
		sb.WriteString("\nEnter yes or no.\n")
	}

	title := fmt.Sprintf("QUESTION %d OF %d [%s]", index+1, total, strings.ToUpper(meta.Category))
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintConfidenceScores outputs the per-area confidence of a completed analysis.
func (p *Printer) PrintConfidenceScores(scores *types.ConfidenceScores) {
	if scores == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:   %s\n", scoreBar(scores.Overall)))
	sb.WriteString(fmt.Sprintf("Timing:    %s\n", scoreBar(scores.Timing)))
	sb.WriteString(fmt.Sprintf("Platform:  %s\n", scoreBar(scores.Platform)))
	sb.WriteString(fmt.Sprintf("Budget:    %s", scoreBar(scores.Budget)))

	p.printBox("CONFIDENCE SCORES", sb.String())
}

// scoreBar renders a 0-1 confidence as a ten-segment bar with a percentage.
func scoreBar(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled := int(score*10 + 0.5)
	return fmt.Sprintf("%s%s %3.0f%%", strings.Repeat("█", filled), strings.Repeat("░", 10-filled), score*100)
}

// PrintRecommendations outputs the full recommendation set of a completed
// optimization, one box per area.
func (p *Printer) PrintRecommendations(recs *types.RecommendationSet) {
	if recs == nil {
		return
	}

	p.printTiming(&recs.Timing)
	p.printPlatforms(&recs.Platforms)
	p.printBudget(&recs.Budget)
	p.PrintConfidenceScores(&recs.ConfidenceScores)
}

func (p *Printer) printTiming(t *types.TimingRecommendation) {
	var sb strings.Builder
	if t.ImmediateLaunch {
		sb.WriteString("Launch:    immediately\n")
	} else if t.OptimalLaunchDate != "" {
		sb.WriteString(fmt.Sprintf("Launch:    %s\n", t.OptimalLaunchDate))
	}

	if len(t.AlternativeDates) > 0 {
		count := min(len(t.AlternativeDates), 3)
		sb.WriteString("Alternatives:\n")
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", t.AlternativeDates[i]))
		}
		if len(t.AlternativeDates) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(t.AlternativeDates)-3))
		}
	}
	if t.SeasonalMultiplier > 0 {
		sb.WriteString(fmt.Sprintf("Seasonal multiplier: %.2fx\n", t.SeasonalMultiplier))
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		return
	}
	p.printBox("TIMING", content)
}

func (p *Printer) printPlatforms(pl *types.PlatformRecommendation) {
	var sb strings.Builder
	if pl.PrimaryPlatform != "" {
		sb.WriteString(fmt.Sprintf("Primary:   %s\n", pl.PrimaryPlatform))
	}
	if len(pl.SecondaryPlatforms) > 0 {
		secondary := strings.Join(pl.SecondaryPlatforms, ", ")
		if len(secondary) > 40 {
			secondary = secondary[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Secondary: %s\n", secondary))
	}
	if len(pl.BudgetAllocation) > 0 {
		sb.WriteString("Budget split:\n")
		names := make([]string, 0, len(pl.BudgetAllocation))
		for name := range pl.BudgetAllocation {
			names = append(names, name)
		}
		sort.Strings(names)
		count := min(len(names), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %-20s %.0f%%\n", names[i], pl.BudgetAllocation[names[i]]*100))
		}
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		return
	}
	p.printBox("PLATFORMS", content)
}

func (p *Printer) printBudget(b *types.BudgetRecommendation) {
	var sb strings.Builder
	if b.RecommendedTotalBudget > 0 {
		sb.WriteString(fmt.Sprintf("Total:     %.2f\n", b.RecommendedTotalBudget))
	}
	if b.RecommendedDailyBudget > 0 {
		sb.WriteString(fmt.Sprintf("Daily:     %.2f\n", b.RecommendedDailyBudget))
	}
	if b.BudgetPacing != "" {
		sb.WriteString(fmt.Sprintf("Pacing:    %s\n", b.BudgetPacing))
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		return
	}
	p.printBox("BUDGET", content)
}

// PrintAppliedChanges outputs the backend's record of what was changed.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAppliedChanges(resp *types.ApplyResponse) {
	if resp == nil || len(resp.AppliedChanges) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CHANGES APPLIED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applied %d changes:\n\n", len(resp.AppliedChanges)))
	for _, change := range resp.AppliedChanges {
		sb.WriteString(fmt.Sprintf("  ✓ %s\n", change))
	}

	p.printBox("APPLIED RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHistory outputs past optimizations, newest first.
func (p *Printer) PrintHistory(h *types.OptimizationHistory) {
	if h == nil || len(h.Optimizations) == 0 {
		p.printBox("OPTIMIZATION HISTORY", "No optimizations yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total runs: %d\n\n", h.TotalOptimizations))

	count := min(len(h.Optimizations), maxItemsToShow)
	for i := 0; i < count; i++ {
		opt := h.Optimizations[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", opt.CreatedAt.Format("2006-01-02 15:04"), opt.Status))
		if opt.Status == types.StatusCompleted {
			sb.WriteString(fmt.Sprintf("    confidence %.0f%%", opt.ConfidenceScores.Overall*100))
			if opt.RecommendationsApplied {
				sb.WriteString("  (applied)")
			}
			sb.WriteString("\n")
		}
	}
	if len(h.Optimizations) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(h.Optimizations)-maxItemsToShow))
	}

	p.printBox("OPTIMIZATION HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}
