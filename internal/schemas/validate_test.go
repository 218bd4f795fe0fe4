package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["person"],
	"properties": {
		"person": {
			"type": "object",
			"required": ["name"],
			"properties": {"name": {"type": "string"}}
		}
	}
}`

func TestValidate_Review(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{"valid", `{"score": 72, "recommendations": ["Add metrics"], "missingKeywords": ["kubernetes"]}`, true},
		{"fractional score", `{"score": 72.5, "recommendations": [], "missingKeywords": []}`, true},
		{"extra fields", `{"score": 1, "recommendations": [], "missingKeywords": [], "summary": "ok"}`, true},
		{"missing score", `{"recommendations": [], "missingKeywords": []}`, false},
		{"score as string", `{"score": "72", "recommendations": [], "missingKeywords": []}`, false},
		{"non-string keyword", `{"score": 1, "recommendations": [], "missingKeywords": [3]}`, false},
		{"not an object", `[1, 2]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Review, tt.payload)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr), "got %v", err)
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(Review, `{"score": `)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "invalid JSON")
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "missing.schema.json", loadErr.Name)
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(personSchema, `{"person": {"name": "Ada"}}`))

	err := ValidateJSONString(personSchema, `{"person": {}}`)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "person", validationErr.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "age", Message: "must be a number"},
	}}
	assert.Equal(t, "validation failed: name: is required; age: must be a number", err.Error())
}
