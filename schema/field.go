package schema

import "github.com/bawdo/quarry/nodes"

// Field is one schema entry: a leaf (dimension or measure), a nested
// structure, or a nested named query.
type Field struct {
	Name string
	Kind Kind

	// Type is the leaf value type (string, number, date, timestamp,
	// boolean). Empty for structs and queries.
	Type string

	// Fields holds the members of a Struct.
	Fields []*Field

	// Pipeline holds the stage definition of a Query.
	Pipeline []*nodes.Stage

	// Source is the field's self-contained definition text, when known.
	// Only populated for fields declared at a schema's own top level.
	Source string
}

// Copy returns a deep copy of the field.
func (f *Field) Copy() *Field {
	c := &Field{Name: f.Name, Kind: f.Kind, Type: f.Type, Source: f.Source}
	if f.Fields != nil {
		c.Fields = make([]*Field, len(f.Fields))
		for i, m := range f.Fields {
			c.Fields[i] = m.Copy()
		}
	}
	c.Pipeline = nodes.CopyStages(f.Pipeline)
	return c
}

// Dim returns a leaf dimension field.
func Dim(name, typ string) *Field {
	return &Field{Name: name, Kind: Dimension, Type: typ}
}

// Calc returns a leaf measure field.
func Calc(name, typ string) *Field {
	return &Field{Name: name, Kind: Measure, Type: typ}
}
