package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/harbordesk/sof-extractor/constants"
)

// resultSchemaTemplate constrains the JSON result envelope before it is
// published. The event enum slot is filled from the canonical label set.
const resultSchemaTemplate = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["metadata", "events", "raw_text", "summary"],
  "properties": {
    "metadata": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "events": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["event", "start", "end", "remarks"],
        "properties": {
          "event": {"type": "string", "enum": %s},
          "start": {"type": "string"},
          "end": {"type": "string"},
          "remarks": {"type": "string"},
          "line_number": {"type": "integer", "minimum": 1}
        }
      }
    },
    "raw_text": {"type": "string"},
    "summary": {
      "type": "object",
      "required": ["total_events", "event_types", "extraction_date"],
      "properties": {
        "total_events": {"type": "integer", "minimum": 0},
        "event_types": {"type": "array", "items": {"type": "string"}},
        "extraction_date": {"type": "string"}
      }
    }
  }
}`

var compiledResultSchema = mustCompile(resultSchemaJSON())

func resultSchemaJSON() string {
	enum, err := json.Marshal(constants.AsStringSlice())
	if err != nil {
		panic(fmt.Sprintf("marshal event enum: %v", err))
	}
	return fmt.Sprintf(resultSchemaTemplate, enum)
}

func mustCompile(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.schema.json", strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add result schema: %v", err))
	}
	return compiler.MustCompile("result.schema.json")
}

// ValidateResultJSON checks an encoded result envelope against the schema.
func ValidateResultJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	if err := compiledResultSchema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}
