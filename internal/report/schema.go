package report

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaURL is the resource name the embedded schema compiles under.
const SchemaURL = "report.schema.json"

// Schema describes the JSON report format. It ships embedded so external
// consumers of `scan --format json` can validate what they ingest.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "report.schema.json",
  "title": "todo-collector report",
  "type": "object",
  "required": ["todos"],
  "additionalProperties": false,
  "properties": {
    "todos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["done", "who", "what", "source"],
        "additionalProperties": false,
        "properties": {
          "done": {"type": "boolean"},
          "who": {"type": "string"},
          "what": {"type": "string"},
          "source": {"type": "string"}
        }
      }
    }
  }
}`

// CompileSchema compiles the embedded report schema. Used by doctor as a
// self-check and by ValidateJSON.
func CompileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(SchemaURL, strings.NewReader(Schema)); err != nil {
		return nil, fmt.Errorf("add report schema resource: %w", err)
	}
	schema, err := compiler.Compile(SchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile report schema: %w", err)
	}
	return schema, nil
}

// ValidateJSON checks that data is a valid JSON report document.
func ValidateJSON(data []byte) error {
	schema, err := CompileSchema()
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse report document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("validate report document: %w", err)
	}
	return nil
}
