package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://pathwise/snapshot.json"

// snapshotSchema describes the documents written by Encode. Decode accepts
// far more than this; the schema is used for linting only.
var snapshotSchema = map[string]any{
	"type":     "object",
	"required": []any{"version", "exported_at", "items", "attempts"},
	"properties": map[string]any{
		"version":     map[string]any{"type": "integer", "minimum": 1},
		"exported_at": map[string]any{"type": "string", "format": "date-time"},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "prompt", "status", "order"},
				"properties": map[string]any{
					"id":               map[string]any{"type": "string", "minLength": 1},
					"prompt":           map[string]any{"type": "string"},
					"status":           map[string]any{"enum": []any{"new", "review"}},
					"order":            map[string]any{"type": "integer"},
					"due_at":           map[string]any{"type": []any{"string", "null"}},
					"review_level":     map[string]any{"type": "integer", "minimum": 0},
					"interval_minutes": map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
		"attempts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"item_id", "timestamp", "outcome"},
				"properties": map[string]any{
					"item_id":   map[string]any{"type": "string", "minLength": 1},
					"timestamp": map[string]any{"type": "string"},
					"outcome":   map[string]any{"enum": []any{"correct", "incorrect", "skip"}},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ErrSchema is wrapped by Validate for documents that are not valid
// snapshot JSON.
var ErrSchema = errors.New("snapshot does not match schema")

// Validate checks a snapshot document against the snapshot schema.
// It returns nil for a conforming document.
func Validate(data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrSchema, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile snapshot schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants decoded JSON values, not Go literals.
		defBytes, err := json.Marshal(snapshotSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
