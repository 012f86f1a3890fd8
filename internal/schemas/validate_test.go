package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQuestionnaire = `{
	"campaign_id": "c-1",
	"total_questions": 2,
	"estimated_time_minutes": 1,
	"categories": {"business_context": ["campaign_urgency", "competitive_intensity"]},
	"questions": [
		{
			"key": "campaign_urgency",
			"text": "How urgent is the launch?",
			"type": "multiple_choice",
			"category": "business_context",
			"order_index": 1,
			"required": true,
			"options": [{"value": "immediate", "label": "Immediate"}]
		},
		{
			"key": "competitive_intensity",
			"text": "How intense is the competition?",
			"type": "scale",
			"category": "business_context",
			"order_index": 2,
			"required": true,
			"scale_min": 1,
			"scale_max": 5
		}
	]
}`

func TestValidateQuestionnaire_Valid(t *testing.T) {
	assert.NoError(t, ValidateQuestionnaire([]byte(validQuestionnaire)))
}

func TestValidateQuestionnaire_MissingCampaignID(t *testing.T) {
	err := ValidateQuestionnaire([]byte(`{"questions": []}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "campaign_id")
}

func TestValidateQuestionnaire_BadQuestionType(t *testing.T) {
	payload := `{
		"campaign_id": "c-1",
		"questions": [{
			"key": "q", "text": "?", "type": "date",
			"category": "x", "order_index": 1, "required": true
		}]
	}`
	err := ValidateQuestionnaire([]byte(payload))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidateQuestionnaire_ChoiceWithoutOptions(t *testing.T) {
	payload := `{
		"campaign_id": "c-1",
		"questions": [{
			"key": "q", "text": "?", "type": "multiple_choice",
			"category": "x", "order_index": 1, "required": true
		}]
	}`
	err := ValidateQuestionnaire([]byte(payload))
	require.Error(t, err)
}

func TestValidateQuestionnaire_EmptyQuestions(t *testing.T) {
	// A questionnaire with no questions is useless to the wizard; refuse it
	// at the boundary instead of rendering an empty flow.
	err := ValidateQuestionnaire([]byte(`{"campaign_id": "c-1", "questions": []}`))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "questions")
}

func TestValidateQuestionnaire_NotJSON(t *testing.T) {
	err := ValidateQuestionnaire([]byte("not json at all"))
	require.Error(t, err)
}
