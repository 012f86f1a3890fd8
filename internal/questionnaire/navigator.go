// Package questionnaire implements the linear, single-question-at-a-time
// answer flow used by the optimization wizard: forward/back navigation with
// required-answer gating, free jumps, and full re-validation at submit time.
package questionnaire

import (
	"errors"
	"fmt"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

// ErrAnswerRequired blocks forward navigation past an unanswered required
// question.
var ErrAnswerRequired = errors.New("an answer is required before continuing")

// Issue describes one validation problem found at submit time.
type Issue struct {
	Index   int    // position of the question in the sequence
	Key     string // question key
	Message string
}

// Navigator walks a questionnaire one question at a time and accumulates
// answers. Answers live only in memory; abandoning the navigator loses them.
type Navigator struct {
	qn      *types.Questionnaire
	answers types.AnswerMap
	current int
}

// NewNavigator starts at the first question with no answers recorded.
func NewNavigator(qn *types.Questionnaire) *Navigator {
	return &Navigator{qn: qn, answers: types.AnswerMap{}}
}

// Len returns the number of questions.
func (n *Navigator) Len() int { return len(n.qn.Questions) }

// Index returns the current question position.
func (n *Navigator) Index() int { return n.current }

// Current returns the question under the cursor, or nil for an empty
// questionnaire.
func (n *Navigator) Current() types.Question {
	if n.current < 0 || n.current >= len(n.qn.Questions) {
		return nil
	}
	return n.qn.Questions[n.current]
}

// Answered reports whether the question with the given key has an answer.
func (n *Navigator) Answered(key string) bool {
	_, ok := n.answers[key]
	return ok
}

// Answer validates value against the current question's variant and records
// it. Recording over an existing answer replaces it.
func (n *Navigator) Answer(value interface{}) error {
	q := n.Current()
	if q == nil {
		return errors.New("no current question")
	}
	if err := q.ValidateAnswer(value); err != nil {
		return err
	}
	n.answers[q.Meta().Key] = value
	return nil
}

// Skip clears any answer for the current question. Skipping a required
// question is allowed here; the gate is enforced on Next and at submit.
func (n *Navigator) Skip() {
	if q := n.Current(); q != nil {
		delete(n.answers, q.Meta().Key)
	}
}

// Next advances to the following question. It is blocked when the current
// question is required and unanswered. Returns false at the last question.
func (n *Navigator) Next() (bool, error) {
	q := n.Current()
	if q == nil {
		return false, nil
	}
	if meta := q.Meta(); meta.Required && !n.Answered(meta.Key) {
		return false, ErrAnswerRequired
	}
	if n.current >= len(n.qn.Questions)-1 {
		return false, nil
	}
	n.current++
	return true, nil
}

// Back moves to the previous question. Returns false at the first question.
// Backward navigation is never gated.
func (n *Navigator) Back() bool {
	if n.current == 0 {
		return false
	}
	n.current--
	return true
}

// Jump moves the cursor to an arbitrary question. Unlike Next, jumping does
// not enforce the required-answer gate on the question being left.
func (n *Navigator) Jump(index int) error {
	if index < 0 || index >= len(n.qn.Questions) {
		return fmt.Errorf("question index %d out of range [0, %d)", index, len(n.qn.Questions))
	}
	n.current = index
	return nil
}

// SetAll records a batch of answers (e.g. from an answers file), validating
// each against its question's variant. Keys without a matching question are
// rejected. Required-ness is not checked here; call Validate before submit.
func (n *Navigator) SetAll(answers types.AnswerMap) error {
	for key, value := range answers {
		q := n.qn.Find(key)
		if q == nil {
			return fmt.Errorf("answer for unknown question %q", key)
		}
		if err := q.ValidateAnswer(value); err != nil {
			return err
		}
	}
	for key, value := range answers {
		n.answers[key] = value
	}
	return nil
}

// Validate re-checks every question before submission: required questions
// must be answered and every recorded answer must match its variant. When
// issues exist, the cursor jumps to the first offending question so the user
// lands where the fix is needed. A nil return means the answer map is ready
// to submit.
func (n *Navigator) Validate() []Issue {
	var issues []Issue
	for i, q := range n.qn.Questions {
		meta := q.Meta()
		value, answered := n.answers[meta.Key]
		if !answered {
			if meta.Required {
				issues = append(issues, Issue{Index: i, Key: meta.Key, Message: "required question is unanswered"})
			}
			continue
		}
		if err := q.ValidateAnswer(value); err != nil {
			issues = append(issues, Issue{Index: i, Key: meta.Key, Message: err.Error()})
		}
	}

	if len(issues) > 0 {
		n.current = issues[0].Index
	}
	return issues
}

// Answers returns the accumulated answer map. The map is shared, not copied;
// it is handed to the API client for atomic submission.
func (n *Navigator) Answers() types.AnswerMap {
	return n.answers
}
