package content

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// bankSchema describes the shape of *.assessments.yaml. Answer-key semantics
// (index ranges, duplicates) are checked when widgets are built.
const bankSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["section_id"],
  "additionalProperties": false,
  "properties": {
    "section_id": {"type": "string", "minLength": 1},
    "pass_threshold": {"$ref": "#/definitions/threshold"},
    "inline_checks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "question"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "question": {"$ref": "#/definitions/question"}
        }
      }
    },
    "quizzes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "questions"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "pass_threshold": {"$ref": "#/definitions/threshold"},
          "questions": {"type": "array", "items": {"$ref": "#/definitions/question"}}
        }
      }
    }
  },
  "definitions": {
    "threshold": {"type": "integer", "minimum": 0, "maximum": 100},
    "question": {
      "type": "object",
      "required": ["id", "prompt"],
      "additionalProperties": false,
      "properties": {
        "id": {"type": ["string", "integer"]},
        "prompt": {"type": "string"},
        "kind": {"enum": ["multiple_choice", "true_false"]},
        "options": {"type": "array", "items": {"type": "string"}},
        "answer": {"type": ["integer", "boolean", "null"]},
        "explanation": {"type": "string"}
      }
    }
  }
}`

var compiledBankSchema = mustCompileSchema(bankSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile bank schema: %v", err))
	}
	return schema
}

// SchemaError lists the structural problems found in a bank document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "bank schema: " + strings.Join(e.Problems, "; ")
}

// ValidateDocument checks raw bank YAML against the bank schema.
func ValidateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse bank: %w", err)
	}
	if doc == nil {
		return &SchemaError{Problems: []string{"document is empty"}}
	}

	result, err := compiledBankSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate bank: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}
