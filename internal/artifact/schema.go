package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaChecker validates persisted JSON against a compiled JSON Schema.
type SchemaChecker struct {
	schema *jsonschema.Schema
}

// LoadSchema compiles the JSON Schema file at path.
func LoadSchema(path string) (*SchemaChecker, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return CompileSchema(b)
}

func CompileSchema(schemaJSON []byte) (*SchemaChecker, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaChecker{schema: schema}, nil
}

// Check validates data, which must be JSON.
func (c *SchemaChecker) Check(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := c.schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
