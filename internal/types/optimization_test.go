package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizationStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAnalyzing.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestOptimizationHistory_Latest(t *testing.T) {
	var empty OptimizationHistory
	assert.Nil(t, empty.Latest())
	assert.Nil(t, (*OptimizationHistory)(nil).Latest())

	h := OptimizationHistory{
		Optimizations: []Optimization{
			{ID: "opt-2", Status: StatusAnalyzing, CreatedAt: time.Now()},
			{ID: "opt-1", Status: StatusCompleted, CreatedAt: time.Now().Add(-time.Hour)},
		},
	}
	latest := h.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "opt-2", latest.ID)
}

func TestOptimizationHistory_Decode(t *testing.T) {
	payload := `{
		"campaign_id": "c-9",
		"total_optimizations": 1,
		"optimization_history": [{
			"id": "opt-1",
			"status": "completed",
			"optimization_type": "full",
			"created_at": "2026-08-01T10:00:00Z",
			"completed_at": "2026-08-01T10:02:30Z",
			"confidence_scores": {"overall": 0.78, "timing": 0.6, "platform": 0.8, "budget": 0.7},
			"recommendations_applied": true
		}]
	}`

	var h OptimizationHistory
	require.NoError(t, json.Unmarshal([]byte(payload), &h))
	require.Len(t, h.Optimizations, 1)
	assert.Equal(t, StatusCompleted, h.Optimizations[0].Status)
	assert.InDelta(t, 0.78, h.Optimizations[0].ConfidenceScores.Overall, 1e-9)
	assert.True(t, h.Optimizations[0].RecommendationsApplied)
	require.NotNil(t, h.Optimizations[0].CompletedAt)
}

func TestApplySelection_IsEmptyAndValidate(t *testing.T) {
	var nilSel *ApplySelection
	assert.True(t, nilSel.IsEmpty())
	assert.True(t, (&ApplySelection{}).IsEmpty())

	sel := &ApplySelection{
		Timing:    &TimingSelection{OptimalLaunchDate: "2026-09-15"},
		Platforms: &PlatformSelection{PrimaryPlatform: "google_ads"},
		Budget:    &BudgetSelection{RecommendedTotalBudget: 5000},
	}
	assert.False(t, sel.IsEmpty())
	assert.NoError(t, sel.Validate())

	bad := &ApplySelection{Budget: &BudgetSelection{RecommendedTotalBudget: -10}}
	assert.Error(t, bad.Validate())

	missing := &ApplySelection{Timing: &TimingSelection{}}
	assert.Error(t, missing.Validate())
}
