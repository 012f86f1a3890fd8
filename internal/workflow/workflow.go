// Package workflow implements the campaign optimization workflow: a small
// state machine that starts a backend optimization job, walks the
// questionnaire, polls the job until it reaches a terminal status, and
// exposes the resulting recommendations.
//
// States move intro -> questionnaire -> analyzing -> results, with a failed
// job collapsing back to intro. All mutation happens on the calling
// goroutine; polling is a single blocking, context-cancellable loop rather
// than a detached timer.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/api"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/questionnaire"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/session"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

// State identifies a step of the optimization workflow.
type State string

// Workflow states.
const (
	StateIntro         State = "intro"
	StateQuestionnaire State = "questionnaire"
	StateAnalyzing     State = "analyzing"
	StateResults       State = "results"
)

// DefaultPollInterval is how often the job status is polled.
const DefaultPollInterval = 3 * time.Second

// DefaultPollCeiling is the hard cap on total polling time. When it is
// reached the loop stops unconditionally, whatever the job status.
const DefaultPollCeiling = 5 * time.Minute

// ErrAnalysisTimeout is returned when the polling ceiling elapses before the
// job reaches a terminal status. The workflow stays in StateAnalyzing; the
// job may still finish server-side and can be picked up later via Resume.
var ErrAnalysisTimeout = errors.New("analysis did not complete within the polling ceiling")

// ErrOptimizationFailed is returned when the backend reports the job failed.
// The workflow resets to StateIntro so the user can start over.
var ErrOptimizationFailed = errors.New("the optimization failed")

// ErrOptimizationInProgress blocks starting a second job while one is still
// pending or analyzing for this campaign.
var ErrOptimizationInProgress = errors.New("an optimization is already in progress for this campaign")

// ErrQuestionnaireIncomplete is returned by Submit when required questions
// are missing or malformed; no network call has been made.
var ErrQuestionnaireIncomplete = errors.New("the questionnaire has unanswered required questions")

// Backend is the slice of the API client the workflow depends on.
// *api.Client satisfies it; tests substitute doubles.
type Backend interface {
	Campaign(ctx context.Context, campaignID string) (*types.Campaign, error)
	OptimizationHistory(ctx context.Context, campaignID string) (*types.OptimizationHistory, error)
	StartOptimization(ctx context.Context, campaignID, optimizationType string) (*types.StartOptimizationResponse, error)
	Questionnaire(ctx context.Context, campaignID string) (*types.Questionnaire, error)
	SubmitQuestionnaire(ctx context.Context, campaignID string, answers types.AnswerMap) (*types.SubmitQuestionnaireResponse, error)
	OptimizationStatus(ctx context.Context, optimizationID string) (*types.Optimization, error)
	Recommendations(ctx context.Context, optimizationID string) (*types.RecommendationSet, error)
	ApplyRecommendations(ctx context.Context, optimizationID string, selection *types.ApplySelection) (*types.ApplyResponse, error)
}

// Options configures a workflow instance.
type Options struct {
	Backend    Backend
	CampaignID string
	// OptimizationType selects the analysis scope. Empty means full.
	OptimizationType string
	// PollInterval overrides DefaultPollInterval (tests use milliseconds).
	PollInterval time.Duration
	// PollCeiling overrides DefaultPollCeiling.
	PollCeiling time.Duration
	// Logger receives swallowed poll errors. Defaults to log.Default().
	Logger *log.Logger
}

// Workflow drives one optimization run for one campaign. It is not safe for
// concurrent use; like the UI it replaces, everything happens on one
// goroutine.
type Workflow struct {
	backend          Backend
	campaignID       string
	optimizationType string
	interval         time.Duration
	ceiling          time.Duration
	logger           *log.Logger

	state          State
	campaign       *types.Campaign
	optimizationID string
	jobStatus      types.OptimizationStatus
	nav            *questionnaire.Navigator
	scores         *types.ConfidenceScores
	lastErr        string
	polling        bool
}

// New builds a workflow in StateIntro. Call Resume to pick up prior jobs.
func New(opts Options) (*Workflow, error) {
	if opts.Backend == nil {
		return nil, errors.New("workflow requires a backend")
	}
	if opts.CampaignID == "" {
		return nil, errors.New("workflow requires a campaign ID")
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ceiling := opts.PollCeiling
	if ceiling <= 0 {
		ceiling = DefaultPollCeiling
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Workflow{
		backend:          opts.Backend,
		campaignID:       opts.CampaignID,
		optimizationType: opts.OptimizationType,
		interval:         interval,
		ceiling:          ceiling,
		logger:           logger,
		state:            StateIntro,
	}, nil
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// Campaign returns the campaign loaded by Resume, or nil.
func (w *Workflow) Campaign() *types.Campaign { return w.campaign }

// OptimizationID returns the job handle currently held, or empty.
func (w *Workflow) OptimizationID() string { return w.optimizationID }

// ConfidenceScores returns the scores reported with the terminal status, or
// nil before completion.
func (w *Workflow) ConfidenceScores() *types.ConfidenceScores { return w.scores }

// ErrorMessage returns the last user-facing error message, or empty.
func (w *Workflow) ErrorMessage() string { return w.lastErr }

// Navigator returns the questionnaire navigator, available from
// StateQuestionnaire onward.
func (w *Workflow) Navigator() *questionnaire.Navigator { return w.nav }

// Resume loads the campaign and its optimization history (concurrently) and
// positions the workflow: a completed latest job jumps straight to results,
// a still-running one back to analyzing, anything else stays at intro.
func (w *Workflow) Resume(ctx context.Context) error {
	var (
		campaign *types.Campaign
		history  *types.OptimizationHistory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := w.backend.Campaign(gctx, w.campaignID)
		if err != nil {
			return fmt.Errorf("failed to load campaign: %w", err)
		}
		campaign = c
		return nil
	})
	g.Go(func() error {
		h, err := w.backend.OptimizationHistory(gctx, w.campaignID)
		if err != nil {
			return fmt.Errorf("failed to load optimization history: %w", err)
		}
		history = h
		return nil
	})
	if err := g.Wait(); err != nil {
		w.lastErr = surfaceMessage(err)
		return err
	}

	w.campaign = campaign
	w.lastErr = ""

	latest := history.Latest()
	switch {
	case latest == nil:
		w.state = StateIntro
	case latest.Status == types.StatusCompleted:
		w.optimizationID = latest.ID
		w.jobStatus = latest.Status
		w.scores = &latest.ConfidenceScores
		w.state = StateResults
	case latest.Status == types.StatusAnalyzing || latest.Status == types.StatusProcessing:
		w.optimizationID = latest.ID
		w.jobStatus = latest.Status
		w.state = StateAnalyzing
	case latest.Status == types.StatusPending:
		// Started but never submitted. Keep the handle; the backend reuses
		// the pending job when Start is called again.
		w.optimizationID = latest.ID
		w.jobStatus = latest.Status
		w.state = StateIntro
	default:
		// Latest job failed; offer a fresh start.
		w.state = StateIntro
	}
	return nil
}

// Start creates a new optimization job and loads the questionnaire, moving
// intro -> questionnaire. On any failure the workflow stays in intro with
// the error surfaced so the user can retry. Starting is refused, without a
// network call, while a non-terminal job is already held.
func (w *Workflow) Start(ctx context.Context) error {
	if w.state != StateIntro {
		return fmt.Errorf("cannot start an optimization from state %q", w.state)
	}
	if w.optimizationID != "" && !w.jobStatus.IsTerminal() && w.jobStatus != types.StatusPending {
		return ErrOptimizationInProgress
	}

	resp, err := w.backend.StartOptimization(ctx, w.campaignID, w.optimizationType)
	if err != nil {
		w.lastErr = surfaceMessage(err)
		return err
	}

	qn, err := w.backend.Questionnaire(ctx, w.campaignID)
	if err != nil {
		// The backend reuses the pending job on the next Start, so staying
		// in intro keeps retry idempotent.
		w.lastErr = surfaceMessage(err)
		return err
	}

	w.optimizationID = resp.OptimizationID
	w.jobStatus = resp.Status
	w.nav = questionnaire.NewNavigator(qn)
	w.state = StateQuestionnaire
	w.lastErr = ""
	return nil
}

// Submit re-validates every required question and, when clean, posts the
// answer map atomically, moving questionnaire -> analyzing. Validation
// issues are returned without any network call, with the navigator already
// positioned on the first offending question. A submission failure keeps the
// workflow in questionnaire so the user can retry.
func (w *Workflow) Submit(ctx context.Context) ([]questionnaire.Issue, error) {
	if w.state != StateQuestionnaire {
		return nil, fmt.Errorf("cannot submit from state %q", w.state)
	}

	if issues := w.nav.Validate(); len(issues) > 0 {
		return issues, ErrQuestionnaireIncomplete
	}

	resp, err := w.backend.SubmitQuestionnaire(ctx, w.campaignID, w.nav.Answers())
	if err != nil {
		w.lastErr = surfaceMessage(err)
		return nil, err
	}

	if resp.OptimizationID != "" {
		w.optimizationID = resp.OptimizationID
	}
	w.jobStatus = resp.Status
	w.state = StateAnalyzing
	w.lastErr = ""
	return nil, nil
}

// Await polls the job status until it reaches a terminal state, the polling
// ceiling elapses, or ctx is cancelled. It is the one cancellable task that
// replaces the web client's pair of timers.
//
//   - completed: moves to StateResults and returns nil.
//   - failed: resets to StateIntro and returns ErrOptimizationFailed.
//   - ceiling reached: stays in StateAnalyzing and returns
//     ErrAnalysisTimeout.
//   - transport errors: logged and swallowed; the loop keeps going.
//
// At most one Await runs per workflow instance.
func (w *Workflow) Await(ctx context.Context) error {
	if w.state != StateAnalyzing {
		return fmt.Errorf("cannot await results from state %q", w.state)
	}
	if w.polling {
		return errors.New("already polling this optimization")
	}
	w.polling = true
	defer func() { w.polling = false }()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(w.ceiling)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrAnalysisTimeout
		case <-ticker.C:
			status, err := w.backend.OptimizationStatus(ctx, w.optimizationID)
			if err != nil {
				// Transient poll failures never surface; only a terminal
				// status or the ceiling ends the loop.
				w.logger.Printf("optimization %s: status poll failed: %v", w.optimizationID, err)
				continue
			}

			w.jobStatus = status.Status
			switch status.Status {
			case types.StatusCompleted:
				w.scores = &status.ConfidenceScores
				w.state = StateResults
				return nil
			case types.StatusFailed:
				w.state = StateIntro
				w.lastErr = "the optimization failed; you can start a new one"
				return ErrOptimizationFailed
			}
		}
	}
}

// Results fetches the recommendation set of the completed job. Only valid in
// StateResults.
func (w *Workflow) Results(ctx context.Context) (*types.RecommendationSet, error) {
	if w.state != StateResults {
		return nil, fmt.Errorf("no results available in state %q", w.state)
	}
	recs, err := w.backend.Recommendations(ctx, w.optimizationID)
	if err != nil {
		w.lastErr = surfaceMessage(err)
		return nil, err
	}
	return recs, nil
}

// Apply sends the selected subset of recommendations to the backend. Only
// valid in StateResults; the backend additionally refuses jobs that are not
// completed.
func (w *Workflow) Apply(ctx context.Context, selection *types.ApplySelection) (*types.ApplyResponse, error) {
	if w.state != StateResults {
		return nil, fmt.Errorf("cannot apply recommendations in state %q", w.state)
	}
	resp, err := w.backend.ApplyRecommendations(ctx, w.optimizationID, selection)
	if err != nil {
		w.lastErr = surfaceMessage(err)
		return nil, err
	}
	return resp, nil
}

// surfaceMessage turns an error into the plain string shown to the user:
// the backend's detail message when there is one, a generic message for
// transport failures.
func surfaceMessage(err error) string {
	// Token source failures happen before any request is sent; the store's
	// own message tells the user what to do.
	for _, sentinel := range []error{session.ErrNotLoggedIn, session.ErrTokenExpired} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "your session has expired; please log in again"
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.StatusCode != 0 {
			return fmt.Sprintf("the server returned an error (HTTP %d); please try again", apiErr.StatusCode)
		}
	}
	return "network error; please check your connection and try again"
}
