// Package validation provides JSON Schema validation for API request payloads.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult carries the outcome of a schema check.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for a specific field.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// TeamGenerateSchema validates the team generation request body.
var TeamGenerateSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"sessionId": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"teamType": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"additionalConstraints": map[string]interface{}{
			"type":      "string",
			"maxLength": 2000,
		},
		"notification": NotificationSchema,
	},
	"required":             []interface{}{"sessionId", "teamType"},
	"additionalProperties": false,
}

// NotificationSchema validates the optional notification override block of a
// generation request.
var NotificationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"channel": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"email", "sns"},
		},
		"recipient": map[string]interface{}{
			"type":      "string",
			"minLength": 3,
		},
	},
	"required":             []interface{}{"channel"},
	"additionalProperties": false,
}

// Validate checks data against a schema map and returns per-field errors.
func Validate(schemaMap, data map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return vr, nil
}
