package types

import "time"

// OptimizationStatus is the backend-owned lifecycle status of an optimization job.
type OptimizationStatus string

// Optimization job statuses. The backend owns all transitions; the client
// only observes them via polling.
const (
	StatusPending    OptimizationStatus = "pending"
	StatusProcessing OptimizationStatus = "processing"
	StatusAnalyzing  OptimizationStatus = "analyzing"
	StatusCompleted  OptimizationStatus = "completed"
	StatusFailed     OptimizationStatus = "failed"
)

// IsTerminal reports whether the job has reached a final state.
// Anything else means the analysis is still in progress.
func (s OptimizationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ConfidenceScores holds the backend's 0-1 confidence per recommendation area.
type ConfidenceScores struct {
	Overall  float64 `json:"overall"`
	Timing   float64 `json:"timing"`
	Platform float64 `json:"platform"`
	Budget   float64 `json:"budget"`
}

// Optimization represents a backend optimization job as reported by the
// status and history endpoints.
type Optimization struct {
	ID                     string             `json:"id"`
	Status                 OptimizationStatus `json:"status"`
	OptimizationType       string             `json:"optimization_type,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	CompletedAt            *time.Time         `json:"completed_at,omitempty"`
	ProcessingTimeSeconds  float64            `json:"processing_time,omitempty"`
	ConfidenceScores       ConfidenceScores   `json:"confidence_scores"`
	RecommendationsApplied bool               `json:"recommendations_applied,omitempty"`
}

// OptimizationHistory is the response of GET /campaigns/{id}/optimize/history.
// Entries are ordered newest first.
type OptimizationHistory struct {
	CampaignID         string         `json:"campaign_id"`
	Optimizations      []Optimization `json:"optimization_history"`
	TotalOptimizations int            `json:"total_optimizations"`
}

// Latest returns the most recent optimization, or nil when none exist.
func (h *OptimizationHistory) Latest() *Optimization {
	if h == nil || len(h.Optimizations) == 0 {
		return nil
	}
	return &h.Optimizations[0]
}

// StartOptimizationRequest is the body of POST /campaigns/{id}/optimize.
type StartOptimizationRequest struct {
	OptimizationType string `json:"optimization_type"`
}

// StartOptimizationResponse is the backend's acknowledgement of a started job.
type StartOptimizationResponse struct {
	OptimizationID string             `json:"optimization_id"`
	Status         OptimizationStatus `json:"status"`
	Message        string             `json:"message,omitempty"`
	NextStep       string             `json:"next_step,omitempty"`
}

// SubmitQuestionnaireResponse acknowledges a questionnaire submission and
// marks the start of the analysis phase.
type SubmitQuestionnaireResponse struct {
	OptimizationID             string             `json:"optimization_id"`
	Status                     OptimizationStatus `json:"status"`
	Message                    string             `json:"message,omitempty"`
	EstimatedCompletionMinutes float64            `json:"estimated_completion_minutes,omitempty"`
}
