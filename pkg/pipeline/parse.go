package pipeline

import (
	"github.com/matzehuels/schemaflow/pkg/erd"
	"github.com/matzehuels/schemaflow/pkg/errors"
	"github.com/matzehuels/schemaflow/pkg/schema"
)

// Parse turns schema text into a schema. Text wrapped in a ```dbml fence is
// unwrapped first. The only failure is text rejected by
// [errors.ValidateSchemaText]; anything else parses, possibly to an empty
// schema.
func Parse(text string) (*schema.Schema, error) {
	if err := errors.ValidateSchemaText(text); err != nil {
		return nil, err
	}
	return schema.Parse(schema.ExtractFenced(text)), nil
}

// Build projects s onto a diagram graph sized per opts.
func Build(s *schema.Schema, opts Options) erd.Graph {
	return erd.BuildWithOptions(s, erd.Options{NodeWidth: opts.NodeWidth})
}
