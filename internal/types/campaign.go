// Package types provides type definitions for structured data exchanged with the Nexopeak API.
package types

import "time"

// Campaign represents a campaign record as returned by the backend.
// The optimizer only reads campaigns; all mutation happens server-side.
type Campaign struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	CampaignType     string     `json:"campaign_type"` // search, display, video, shopping, etc.
	Platform         string     `json:"platform"`      // google_ads, facebook, instagram, etc.
	Status           string     `json:"status"`        // draft, active, paused, completed
	PrimaryObjective string     `json:"primary_objective"`
	TotalBudget      float64    `json:"total_budget,omitempty"`
	DailyBudget      float64    `json:"daily_budget,omitempty"`
	Currency         string     `json:"currency,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
}
