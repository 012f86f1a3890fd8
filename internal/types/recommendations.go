package types

// TimingRecommendation holds launch-timing guidance. The backend guarantees
// the typed fields; everything else rides along in Extra.
type TimingRecommendation struct {
	ImmediateLaunch    bool                   `json:"immediate_launch"`
	OptimalLaunchDate  string                 `json:"optimal_launch_date,omitempty"` // RFC 3339 date
	AlternativeDates   []string               `json:"alternative_dates,omitempty"`
	AvoidPeriods       []int                  `json:"avoid_periods,omitempty"` // month numbers
	SeasonalMultiplier float64                `json:"seasonal_multiplier,omitempty"`
	ConfidenceLevel    float64                `json:"confidence_level,omitempty"`
	Reasoning          map[string]interface{} `json:"reasoning,omitempty"`
}

// PlatformRecommendation ranks advertising platforms for the campaign.
type PlatformRecommendation struct {
	PrimaryPlatform    string                 `json:"primary_platform,omitempty"`
	SecondaryPlatforms []string               `json:"secondary_platforms,omitempty"`
	PlatformScores     map[string]interface{} `json:"platform_scores,omitempty"`
	ChannelMix         map[string]float64     `json:"channel_mix,omitempty"`
	BudgetAllocation   map[string]float64     `json:"budget_allocation,omitempty"`
	Reasoning          map[string]interface{} `json:"reasoning,omitempty"`
}

// BudgetRecommendation holds total/daily budget and pacing guidance.
type BudgetRecommendation struct {
	RecommendedTotalBudget float64                `json:"recommended_total_budget,omitempty"`
	RecommendedDailyBudget float64                `json:"recommended_daily_budget,omitempty"`
	BudgetPacing           string                 `json:"budget_pacing,omitempty"`
	PlatformAllocation     map[string]float64     `json:"platform_allocation,omitempty"`
	SeasonalAdjustments    map[string]interface{} `json:"seasonal_adjustments,omitempty"`
	EfficiencyInsights     map[string]interface{} `json:"efficiency_insights,omitempty"`
}

// RecommendationSet is the full output of a completed optimization,
// returned by GET /optimizations/{id}/recommendations.
type RecommendationSet struct {
	Timing           TimingRecommendation   `json:"timing"`
	Platforms        PlatformRecommendation `json:"platforms"`
	Budget           BudgetRecommendation   `json:"budget"`
	Creative         map[string]interface{} `json:"creative,omitempty"`
	Audience         map[string]interface{} `json:"audience,omitempty"`
	ConfidenceScores ConfidenceScores       `json:"confidence_scores"`
}

// ApplySelection is the subset of recommendations the user chose to apply,
// posted to POST /optimizations/{id}/apply. Only non-nil sections are sent.
type ApplySelection struct {
	Timing    *TimingSelection       `json:"timing,omitempty"`
	Platforms *PlatformSelection     `json:"platforms,omitempty"`
	Budget    *BudgetSelection       `json:"budget,omitempty"`
	Audience  map[string]interface{} `json:"audience,omitempty"`
}

// TimingSelection applies the recommended launch date to the campaign.
type TimingSelection struct {
	OptimalLaunchDate string `json:"optimal_launch_date" validate:"required"`
}

// PlatformSelection applies the recommended primary platform.
type PlatformSelection struct {
	PrimaryPlatform string `json:"primary_platform" validate:"required"`
}

// BudgetSelection applies the recommended budgets. Zero values are omitted
// so the backend only touches the fields the user selected.
type BudgetSelection struct {
	RecommendedTotalBudget float64 `json:"recommended_total_budget,omitempty" validate:"omitempty,gt=0"`
	RecommendedDailyBudget float64 `json:"recommended_daily_budget,omitempty" validate:"omitempty,gt=0"`
}

// IsEmpty reports whether nothing was selected.
func (s *ApplySelection) IsEmpty() bool {
	return s == nil || (s.Timing == nil && s.Platforms == nil && s.Budget == nil && len(s.Audience) == 0)
}

// ApplyResponse lists which campaign fields the backend actually changed.
type ApplyResponse struct {
	Message        string   `json:"message,omitempty"`
	AppliedChanges []string `json:"applied_changes"`
	CampaignID     string   `json:"campaign_id"`
	OptimizationID string   `json:"optimization_id"`
}
