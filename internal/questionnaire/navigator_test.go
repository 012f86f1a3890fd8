package questionnaire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

func testQuestionnaire() *types.Questionnaire {
	return &types.Questionnaire{
		CampaignID: "c-1",
		Questions: []types.Question{
			&types.MultipleChoiceQuestion{
				QuestionMeta: types.QuestionMeta{Key: "campaign_urgency", Required: true, OrderIndex: 1},
				Options:      []types.Option{{Value: "immediate"}, {Value: "flexible"}},
			},
			&types.ScaleQuestion{
				QuestionMeta: types.QuestionMeta{Key: "competitive_intensity", Required: true, OrderIndex: 2},
				Min:          1, Max: 5,
			},
			&types.TextQuestion{
				QuestionMeta: types.QuestionMeta{Key: "extra_notes", Required: false, OrderIndex: 3},
			},
			&types.BooleanQuestion{
				QuestionMeta: types.QuestionMeta{Key: "has_landing_page", Required: true, OrderIndex: 4},
			},
		},
		TotalQuestions: 4,
	}
}

func TestNavigator_ForwardGatedOnRequired(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())
	require.Equal(t, 0, nav.Index())

	// Required and unanswered: Next must refuse.
	moved, err := nav.Next()
	assert.False(t, moved)
	assert.ErrorIs(t, err, ErrAnswerRequired)
	assert.Equal(t, 0, nav.Index())

	require.NoError(t, nav.Answer("immediate"))
	moved, err = nav.Next()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 1, nav.Index())
}

func TestNavigator_OptionalQuestionDoesNotGate(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())
	require.NoError(t, nav.Answer("immediate"))
	_, err := nav.Next()
	require.NoError(t, err)
	require.NoError(t, nav.Answer(3))
	_, err = nav.Next()
	require.NoError(t, err)

	// extra_notes is optional; forward passes without an answer.
	require.Equal(t, "extra_notes", nav.Current().Meta().Key)
	moved, err := nav.Next()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "has_landing_page", nav.Current().Meta().Key)
}

func TestNavigator_BackAndJumpAreNotGated(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())

	assert.False(t, nav.Back()) // already at the first question

	// Jump skips the gate entirely, even off a required unanswered question.
	require.NoError(t, nav.Jump(3))
	assert.Equal(t, 3, nav.Index())
	assert.True(t, nav.Back())
	assert.Equal(t, 2, nav.Index())

	assert.Error(t, nav.Jump(-1))
	assert.Error(t, nav.Jump(4))
}

func TestNavigator_AnswerRejectsWrongShape(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())
	assert.Error(t, nav.Answer("eventually")) // not an option
	assert.Error(t, nav.Answer(7))            // not even a string
	assert.False(t, nav.Answered("campaign_urgency"))
}

func TestNavigator_SkipClearsAnswer(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())
	require.NoError(t, nav.Answer("immediate"))
	require.True(t, nav.Answered("campaign_urgency"))

	nav.Skip()
	assert.False(t, nav.Answered("campaign_urgency"))
}

func TestNavigator_ValidateJumpsToFirstOffender(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())
	require.NoError(t, nav.SetAll(types.AnswerMap{
		"competitive_intensity": 4,
		"has_landing_page":      true,
	}))
	require.NoError(t, nav.Jump(3))

	issues := nav.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, "campaign_urgency", issues[0].Key)
	assert.Equal(t, 0, issues[0].Index)
	// Cursor landed on the offending question.
	assert.Equal(t, 0, nav.Index())
}

func TestNavigator_ValidateCleanWhenComplete(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())
	require.NoError(t, nav.SetAll(types.AnswerMap{
		"campaign_urgency":      "flexible",
		"competitive_intensity": 2,
		"has_landing_page":      false,
	}))

	assert.Empty(t, nav.Validate())
	assert.Len(t, nav.Answers(), 3)
}

func TestNavigator_SetAllRejectsUnknownAndMalformed(t *testing.T) {
	nav := NewNavigator(testQuestionnaire())

	err := nav.SetAll(types.AnswerMap{"mystery_question": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery_question")

	err = nav.SetAll(types.AnswerMap{"competitive_intensity": 9})
	require.Error(t, err)

	// A failed batch must not record partial answers.
	assert.Empty(t, nav.Answers())
}

func TestLoadAnswersFile_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"campaign_urgency": "immediate", "competitive_intensity": 3}`), 0o600))
	answers, err := LoadAnswersFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "immediate", answers["campaign_urgency"])

	yamlPath := filepath.Join(dir, "answers.yaml")
	yamlBody := "campaign_urgency: flexible\nhas_landing_page: true\nseasons:\n  - holiday_season\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlBody), 0o600))
	answers, err = LoadAnswersFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "flexible", answers["campaign_urgency"])
	assert.Equal(t, true, answers["has_landing_page"])

	_, err = LoadAnswersFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{}`), 0o600))
	_, err = LoadAnswersFile(emptyPath)
	assert.Error(t, err)
}
