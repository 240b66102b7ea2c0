package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// factsSchema accepts the same keys as a facts file. Numbers may arrive as
// strings so form posts with comma decimals pass through unchanged.
const factsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "gender":           {"type": "string", "minLength": 1},
    "birth_year":       {"type": ["integer", "string"], "minimum": 1900},
    "current_age":      {"type": ["integer", "string"], "minimum": 0, "maximum": 120},
    "age":              {"type": ["integer", "string"], "minimum": 0, "maximum": 120},
    "insurance_years":  {"type": ["number", "string"], "minimum": 0},
    "insurance_days":   {"type": ["integer", "string"], "minimum": 0},
    "heavy_work_years": {"type": ["integer", "string"], "minimum": 0},
    "salary":           {"type": ["number", "string"], "minimum": 0},
    "fund":             {"type": "string"},
    "children":         {"type": ["integer", "string"], "minimum": 0},
    "data_source":      {"type": "string"}
  }
}`

const privateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["current_age", "retirement_age"],
  "properties": {
    "current_age":          {"type": "integer", "minimum": 0},
    "retirement_age":       {"type": "integer", "minimum": 1},
    "monthly_contribution": {"type": ["number", "string"]},
    "current_savings":      {"type": ["number", "string"]},
    "expected_return":      {"type": ["number", "string"]},
    "inflation_rate":       {"type": ["number", "string"]},
    "target_monthly":       {"type": ["number", "string"]},
    "forecast_years":       {"type": "integer", "minimum": 0, "maximum": 60}
  }
}`

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return s
}

// schemaError lists every violation found in one document.
type schemaError struct {
	Problems []string
}

func (e *schemaError) Error() string {
	return "request validation failed: " + strings.Join(e.Problems, "; ")
}

func validateAgainst(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return &schemaError{Problems: problems}
	}
	return nil
}
