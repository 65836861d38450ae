package catalog

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// ValidateJSON checks that data is a JSON document matching the serialized
// catalog shape (an array of learning paths). The stored blob carries no
// version field, so this is the only guard against loading a stale or foreign
// blob into the tree.
func ValidateJSON(data []byte) error {
	schema := gojsonschema.NewBytesLoader(schemaJSON)
	doc := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schema, doc)
	if err != nil {
		return fmt.Errorf("validate catalog blob: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("catalog blob does not match schema: %s", errs[0])
		}
		return fmt.Errorf("catalog blob does not match schema")
	}
	return nil
}
