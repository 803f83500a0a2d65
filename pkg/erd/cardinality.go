package erd

import "github.com/matzehuels/schemaflow/pkg/schema"

// End is the marker drawn where an edge meets a table.
type End string

const (
	EndOne  End = "one"
	EndMany End = "many"
)

// Cardinality is the label and end markers of a relationship.
type Cardinality struct {
	Label  string
	Source End
	Target End
}

// Relationships read left to right: "a.id > b.a_id" puts the one side on a
// and the many side on b.
var cardinalities = map[schema.Relation]Cardinality{
	schema.OneToOne:   {Label: "1:1", Source: EndOne, Target: EndOne},
	schema.OneToMany:  {Label: "1:N", Source: EndOne, Target: EndMany},
	schema.ManyToOne:  {Label: "N:1", Source: EndMany, Target: EndOne},
	schema.ManyToMany: {Label: "M:N", Source: EndMany, Target: EndMany},
}

// CardinalityOf looks up the label and end markers for r. Unknown relations
// get an empty label and one-to-one markers.
func CardinalityOf(r schema.Relation) Cardinality {
	if c, ok := cardinalities[r]; ok {
		return c
	}
	return Cardinality{Source: EndOne, Target: EndOne}
}
