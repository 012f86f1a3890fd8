// Package schemas provides JSON Schema validation for payloads received from
// the Nexopeak backend. The backend assembles questionnaires dynamically, so
// the client checks structure before trusting a payload.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed questionnaire.schema.json
var questionnaireSchema string

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateQuestionnaire checks a raw questionnaire payload against the
// embedded schema. A nil return means the payload is safe to decode into
// typed question variants.
func ValidateQuestionnaire(payload []byte) error {
	return validate(questionnaireSchema, payload)
}

func validate(schema string, payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
