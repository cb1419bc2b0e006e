package language

import (
	"fmt"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// definitionsSchema validates a custom language definitions file. It encodes
// the table invariants: single_comment must be non-empty, and multi_start
// and multi_end are either both present or both absent.
const definitionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "minProperties": 1,
  "patternProperties": {
    "^\\..+$": {
      "type": "object",
      "required": ["name", "single_comment"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "single_comment": {"type": "string", "minLength": 1},
        "multi_start": {"type": "string", "minLength": 1},
        "multi_end": {"type": "string", "minLength": 1},
        "grammar_aware": {"type": "boolean"}
      },
      "dependentRequired": {
        "multi_start": ["multi_end"],
        "multi_end": ["multi_start"]
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var compiledDefinitionsSchema = jsonschema.MustCompileString("languages.schema.json", definitionsSchema)

// LoadCustom reads a yaml definitions file mapping file extensions to
// language definitions, validates it against the schema, and merges the
// entries into the registry. Call before parsing begins.
func (r *Registry) LoadCustom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read language definitions: %w", err)
	}
	return r.mergeCustom(data)
}

func (r *Registry) mergeCustom(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse language definitions: %w", err)
	}

	if err := compiledDefinitionsSchema.Validate(normalizeForSchema(raw)); err != nil {
		return fmt.Errorf("invalid language definitions: %w", err)
	}

	var defs map[string]Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("failed to parse language definitions: %w", err)
	}
	for ext, d := range defs {
		r.Add(ext, d)
	}
	return nil
}

// normalizeForSchema converts yaml-decoded values into the shapes the JSON
// schema validator expects (string-keyed maps all the way down).
func normalizeForSchema(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalizeForSchema(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeForSchema(val)
		}
		return out
	case int:
		return float64(t)
	default:
		return v
	}
}
