// Package schemas validates the JSON artifacts the dashboard loads at startup.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed corpus.schema.json
	corpusSchema []byte
	//go:embed model.schema.json
	modelSchema []byte
)

// Schema names an embedded JSON Schema.
type Schema string

const (
	// Corpus describes the job dataset as a JSON array of records.
	Corpus Schema = "corpus"
	// Model describes the serialized TF-IDF vectorizer.
	Model Schema = "model"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema Schema
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Schema  Schema
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks a JSON document against one of the embedded schemas.
func Validate(schema Schema, document []byte) error {
	var raw []byte
	switch schema {
	case Corpus:
		raw = corpusSchema
	case Model:
		raw = modelSchema
	default:
		return &SchemaLoadError{Schema: schema, Message: "unknown schema"}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(raw), gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{
			Schema:  schema,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
