package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/schemas"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

const questionnairePayload = `{
	"campaign_id": "c-1",
	"questions": [
		{
			"key": "competitive_intensity",
			"text": "How competitive is your market?",
			"type": "scale",
			"category": "market",
			"order_index": 2,
			"required": true,
			"scale_min": 1,
			"scale_max": 5
		},
		{
			"key": "campaign_urgency",
			"text": "How urgent is this campaign?",
			"type": "multiple_choice",
			"category": "market",
			"order_index": 1,
			"required": true,
			"options": [
				{"value": "immediate", "label": "Launch now"},
				{"value": "flexible", "label": "Flexible timing"}
			]
		}
	],
	"total_questions": 2
}`

func TestLogin_ValidatesBeforeSending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid login must not reach the server")
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{})
	_, err := c.Login(context.Background(), types.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)
}

func TestStartOptimization_DefaultsToFull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/campaigns/c-1/optimize", r.URL.Path)

		var body types.StartOptimizationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "full", body.OptimizationType)

		_ = json.NewEncoder(w).Encode(types.StartOptimizationResponse{
			OptimizationID: "opt-1",
			Status:         types.StatusPending,
		})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	resp, err := c.StartOptimization(context.Background(), "c-1", "")
	require.NoError(t, err)
	assert.Equal(t, "opt-1", resp.OptimizationID)
	assert.Equal(t, types.StatusPending, resp.Status)
}

func TestQuestionnaire_DecodesVariantsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/campaigns/c-1/optimize/questionnaire", r.URL.Path)
		_, _ = w.Write([]byte(questionnairePayload))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	qn, err := c.Questionnaire(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, qn.Questions, 2)

	// Sorted by order_index within the category.
	first, ok := qn.Questions[0].(*types.MultipleChoiceQuestion)
	require.True(t, ok)
	assert.Equal(t, "campaign_urgency", first.Meta().Key)
	assert.Len(t, first.Options, 2)

	second, ok := qn.Questions[1].(*types.ScaleQuestion)
	require.True(t, ok)
	assert.Equal(t, 1, second.Min)
	assert.Equal(t, 5, second.Max)
}

func TestQuestionnaire_RejectsPayloadFailingSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// multiple_choice without options violates the schema.
		_, _ = w.Write([]byte(`{
			"campaign_id": "c-1",
			"questions": [
				{"key": "k", "text": "t", "type": "multiple_choice", "category": "c", "order_index": 1, "required": true}
			]
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	_, err := c.Questionnaire(context.Background(), "c-1")
	require.Error(t, err)

	var vErr *schemas.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestSubmitQuestionnaire_PostsAnswerMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var answers types.AnswerMap
		require.NoError(t, json.NewDecoder(r.Body).Decode(&answers))
		assert.Equal(t, "immediate", answers["campaign_urgency"])

		_ = json.NewEncoder(w).Encode(types.SubmitQuestionnaireResponse{
			OptimizationID: "opt-1",
			Status:         types.StatusProcessing,
		})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	resp, err := c.SubmitQuestionnaire(context.Background(), "c-1", types.AnswerMap{"campaign_urgency": "immediate"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusProcessing, resp.Status)
}

func TestOptimizationStatus_DecodesScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/optimizations/opt-1/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.Optimization{
			ID:     "opt-1",
			Status: types.StatusCompleted,
			ConfidenceScores: types.ConfidenceScores{
				Overall: 0.82, Timing: 0.9, Platform: 0.75, Budget: 0.8,
			},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	opt, err := c.OptimizationStatus(context.Background(), "opt-1")
	require.NoError(t, err)
	assert.True(t, opt.Status.IsTerminal())
	assert.InDelta(t, 0.82, opt.ConfidenceScores.Overall, 1e-9)
}

func TestApplyRecommendations_RefusesEmptySelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("empty selection must not reach the server")
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	_, err := c.ApplyRecommendations(context.Background(), "opt-1", &types.ApplySelection{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing selected")
}

func TestApplyRecommendations_PostsSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/optimizations/opt-1/apply", r.URL.Path)

		var sel types.ApplySelection
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sel))
		require.NotNil(t, sel.Platforms)
		assert.Equal(t, "google_ads", sel.Platforms.PrimaryPlatform)

		_ = json.NewEncoder(w).Encode(types.ApplyResponse{
			CampaignID:     "c-1",
			OptimizationID: "opt-1",
			AppliedChanges: []string{"primary_platform"},
		})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	resp, err := c.ApplyRecommendations(context.Background(), "opt-1", &types.ApplySelection{
		Platforms: &types.PlatformSelection{PrimaryPlatform: "google_ads"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary_platform"}, resp.AppliedChanges)
}

func TestCampaignIDsArePathEscaped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/campaigns/c%2F..%2Fadmin", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(types.Campaign{ID: "c/../admin"})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	_, err := c.Campaign(context.Background(), "c/../admin")
	require.NoError(t, err)
}
