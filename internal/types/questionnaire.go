package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// QuestionType discriminates the question variants served by the backend.
type QuestionType string

// Supported question types.
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionScale          QuestionType = "scale"
	QuestionText           QuestionType = "text"
	QuestionBoolean        QuestionType = "boolean"
)

// QuestionMeta holds the fields common to every question variant.
type QuestionMeta struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	Category   string `json:"category"`
	OrderIndex int    `json:"order_index"`
	Required   bool   `json:"required"`
}

// Question is the tagged union over question variants. Each variant carries
// only the configuration its type needs; a scale question never has options
// and a boolean question never has scale bounds.
type Question interface {
	// Meta returns the fields shared by all variants.
	Meta() QuestionMeta
	// Type returns the variant discriminator.
	Type() QuestionType
	// ValidateAnswer checks that an answer value has the shape and range
	// this variant accepts. It does not enforce Required; presence is the
	// navigator's concern.
	ValidateAnswer(value interface{}) error
}

// Option is a single selectable choice of a multiple-choice question.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// MultipleChoiceQuestion selects one option, or several when MultipleSelect
// is set (radio vs checkbox semantics).
type MultipleChoiceQuestion struct {
	QuestionMeta
	Options        []Option `json:"options"`
	MultipleSelect bool     `json:"multiple_select,omitempty"`
}

// Meta implements Question.
func (q *MultipleChoiceQuestion) Meta() QuestionMeta { return q.QuestionMeta }

// Type implements Question.
func (q *MultipleChoiceQuestion) Type() QuestionType { return QuestionMultipleChoice }

// ValidateAnswer accepts a known option value, or a list of known option
// values when MultipleSelect is set.
func (q *MultipleChoiceQuestion) ValidateAnswer(value interface{}) error {
	if q.MultipleSelect {
		values, err := toStringSlice(value)
		if err != nil {
			return fmt.Errorf("question %q expects a list of values", q.Key)
		}
		for _, v := range values {
			if !q.hasOption(v) {
				return fmt.Errorf("invalid option %q for question %q", v, q.Key)
			}
		}
		return nil
	}

	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("question %q expects a single option value", q.Key)
	}
	if !q.hasOption(v) {
		return fmt.Errorf("invalid option %q for question %q", v, q.Key)
	}
	return nil
}

func (q *MultipleChoiceQuestion) hasOption(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// ScaleQuestion asks for a number between Min and Max inclusive.
// Labels annotate individual scale points and may be sparse.
type ScaleQuestion struct {
	QuestionMeta
	Min    int               `json:"scale_min"`
	Max    int               `json:"scale_max"`
	Labels map[string]string `json:"scale_labels,omitempty"`
}

// Meta implements Question.
func (q *ScaleQuestion) Meta() QuestionMeta { return q.QuestionMeta }

// Type implements Question.
func (q *ScaleQuestion) Type() QuestionType { return QuestionScale }

// ValidateAnswer accepts a number within [Min, Max].
func (q *ScaleQuestion) ValidateAnswer(value interface{}) error {
	n, ok := toFloat(value)
	if !ok || n < float64(q.Min) || n > float64(q.Max) {
		return fmt.Errorf("question %q expects a number between %d and %d", q.Key, q.Min, q.Max)
	}
	return nil
}

// TextQuestion asks for free text.
type TextQuestion struct {
	QuestionMeta
}

// Meta implements Question.
func (q *TextQuestion) Meta() QuestionMeta { return q.QuestionMeta }

// Type implements Question.
func (q *TextQuestion) Type() QuestionType { return QuestionText }

// ValidateAnswer accepts any string.
func (q *TextQuestion) ValidateAnswer(value interface{}) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("question %q expects a text response", q.Key)
	}
	return nil
}

// BooleanQuestion asks for yes/no.
type BooleanQuestion struct {
	QuestionMeta
}

// Meta implements Question.
func (q *BooleanQuestion) Meta() QuestionMeta { return q.QuestionMeta }

// Type implements Question.
func (q *BooleanQuestion) Type() QuestionType { return QuestionBoolean }

// ValidateAnswer accepts a bool.
func (q *BooleanQuestion) ValidateAnswer(value interface{}) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("question %q expects a true/false response", q.Key)
	}
	return nil
}

// Questionnaire is the ordered question sequence for one campaign, as served
// by GET /campaigns/{id}/optimize/questionnaire.
type Questionnaire struct {
	CampaignID           string
	Questions            []Question
	Categories           map[string][]string
	TotalQuestions       int
	EstimatedTimeMinutes float64
}

// questionEnvelope is the wire shape of a question before the variant is known.
type questionEnvelope struct {
	QuestionMeta
	Type           QuestionType      `json:"type"`
	Options        []Option          `json:"options,omitempty"`
	MultipleSelect bool              `json:"multiple_select,omitempty"`
	ScaleMin       int               `json:"scale_min,omitempty"`
	ScaleMax       int               `json:"scale_max,omitempty"`
	ScaleLabels    map[string]string `json:"scale_labels,omitempty"`
}

type questionnaireEnvelope struct {
	CampaignID           string              `json:"campaign_id"`
	Questions            []questionEnvelope  `json:"questions"`
	Categories           map[string][]string `json:"categories,omitempty"`
	TotalQuestions       int                 `json:"total_questions"`
	EstimatedTimeMinutes float64             `json:"estimated_time_minutes,omitempty"`
}

// UnmarshalJSON decodes the wire payload into typed question variants.
// An unknown question type is an error naming the offending key.
func (qn *Questionnaire) UnmarshalJSON(data []byte) error {
	var env questionnaireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	questions := make([]Question, 0, len(env.Questions))
	for _, e := range env.Questions {
		q, err := e.toQuestion()
		if err != nil {
			return err
		}
		questions = append(questions, q)
	}

	// The backend sorts by (category, order_index); keep that ordering
	// stable even if a proxy reorders the array.
	sort.SliceStable(questions, func(i, j int) bool {
		mi, mj := questions[i].Meta(), questions[j].Meta()
		if mi.Category != mj.Category {
			return mi.Category < mj.Category
		}
		return mi.OrderIndex < mj.OrderIndex
	})

	qn.CampaignID = env.CampaignID
	qn.Questions = questions
	qn.Categories = env.Categories
	qn.TotalQuestions = env.TotalQuestions
	qn.EstimatedTimeMinutes = env.EstimatedTimeMinutes
	return nil
}

func (e *questionEnvelope) toQuestion() (Question, error) {
	switch e.Type {
	case QuestionMultipleChoice:
		if len(e.Options) == 0 {
			return nil, fmt.Errorf("multiple-choice question %q has no options", e.Key)
		}
		return &MultipleChoiceQuestion{
			QuestionMeta:   e.QuestionMeta,
			Options:        e.Options,
			MultipleSelect: e.MultipleSelect,
		}, nil
	case QuestionScale:
		min, max := e.ScaleMin, e.ScaleMax
		if min == 0 && max == 0 {
			min, max = 1, 5
		}
		if min >= max {
			return nil, fmt.Errorf("scale question %q has invalid bounds [%d, %d]", e.Key, min, max)
		}
		return &ScaleQuestion{QuestionMeta: e.QuestionMeta, Min: min, Max: max, Labels: e.ScaleLabels}, nil
	case QuestionText:
		return &TextQuestion{QuestionMeta: e.QuestionMeta}, nil
	case QuestionBoolean:
		return &BooleanQuestion{QuestionMeta: e.QuestionMeta}, nil
	default:
		return nil, fmt.Errorf("question %q has unsupported type %q", e.Key, e.Type)
	}
}

// Find returns the question with the given key, or nil.
func (qn *Questionnaire) Find(key string) Question {
	for _, q := range qn.Questions {
		if q.Meta().Key == key {
			return q
		}
	}
	return nil
}

// AnswerMap accumulates questionnaire answers keyed by question key.
// Values are string, []string, a number, or bool depending on the variant.
// The whole map is submitted atomically.
type AnswerMap map[string]interface{}

// toStringSlice normalizes []string and []interface{} (the shape produced by
// decoding JSON or YAML answer files) into []string.
func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string list, found %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, found %T", value)
	}
}

// toFloat normalizes the numeric types produced by JSON and YAML decoding.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
