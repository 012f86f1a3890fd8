package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/schemas"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

// Login exchanges email/password for a bearer token. It is the only call
// that does not require an authenticated client.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return request[types.TokenResponse](ctx, c, http.MethodPost, "/auth/login", req, http.StatusOK)
}

// Campaign fetches a campaign by ID.
func (c *Client) Campaign(ctx context.Context, campaignID string) (*types.Campaign, error) {
	return request[types.Campaign](ctx, c, http.MethodGet, "/campaigns/"+url.PathEscape(campaignID), nil, http.StatusOK)
}

// OptimizationHistory fetches a campaign's past optimizations, newest first.
func (c *Client) OptimizationHistory(ctx context.Context, campaignID string) (*types.OptimizationHistory, error) {
	path := "/campaigns/" + url.PathEscape(campaignID) + "/optimize/history"
	return request[types.OptimizationHistory](ctx, c, http.MethodGet, path, nil, http.StatusOK)
}

// StartOptimization creates a new optimization job for the campaign.
func (c *Client) StartOptimization(ctx context.Context, campaignID, optimizationType string) (*types.StartOptimizationResponse, error) {
	if optimizationType == "" {
		optimizationType = "full"
	}
	path := "/campaigns/" + url.PathEscape(campaignID) + "/optimize"
	body := types.StartOptimizationRequest{OptimizationType: optimizationType}
	return request[types.StartOptimizationResponse](ctx, c, http.MethodPost, path, body, http.StatusOK)
}

// Questionnaire fetches the dynamic questionnaire for a campaign. The raw
// payload is validated against the embedded JSON Schema before it is decoded
// into typed question variants; the backend assembles these payloads
// dynamically and a malformed one must fail loudly here, not mid-wizard.
func (c *Client) Questionnaire(ctx context.Context, campaignID string) (*types.Questionnaire, error) {
	path := "/campaigns/" + url.PathEscape(campaignID) + "/optimize/questionnaire"
	data, err := c.doRaw(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateQuestionnaire(data); err != nil {
		return nil, fmt.Errorf("backend returned an invalid questionnaire: %w", err)
	}

	var qn types.Questionnaire
	if err := json.Unmarshal(data, &qn); err != nil {
		return nil, &Error{Method: http.MethodGet, Path: path, Cause: fmt.Errorf("failed to decode questionnaire: %w", err)}
	}
	return &qn, nil
}

// SubmitQuestionnaire posts the full answer map atomically and starts the
// backend analysis.
func (c *Client) SubmitQuestionnaire(ctx context.Context, campaignID string, answers types.AnswerMap) (*types.SubmitQuestionnaireResponse, error) {
	path := "/campaigns/" + url.PathEscape(campaignID) + "/optimize/questionnaire"
	return request[types.SubmitQuestionnaireResponse](ctx, c, http.MethodPost, path, answers, http.StatusOK)
}

// OptimizationStatus polls the current state of an optimization job.
func (c *Client) OptimizationStatus(ctx context.Context, optimizationID string) (*types.Optimization, error) {
	path := "/optimizations/" + url.PathEscape(optimizationID) + "/status"
	return request[types.Optimization](ctx, c, http.MethodGet, path, nil, http.StatusOK)
}

// Recommendations fetches the full recommendation set of a completed job.
func (c *Client) Recommendations(ctx context.Context, optimizationID string) (*types.RecommendationSet, error) {
	path := "/optimizations/" + url.PathEscape(optimizationID) + "/recommendations"
	return request[types.RecommendationSet](ctx, c, http.MethodGet, path, nil, http.StatusOK)
}

// ApplyRecommendations applies the selected subset of recommendations to the
// campaign. The backend only allows this on completed optimizations.
func (c *Client) ApplyRecommendations(ctx context.Context, optimizationID string, selection *types.ApplySelection) (*types.ApplyResponse, error) {
	if selection.IsEmpty() {
		return nil, fmt.Errorf("nothing selected to apply")
	}
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	path := "/optimizations/" + url.PathEscape(optimizationID) + "/apply"
	return request[types.ApplyResponse](ctx, c, http.MethodPost, path, selection, http.StatusOK)
}
