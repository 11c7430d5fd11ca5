// Package schema models the read-only field catalogue a query is built
// against and provides the two navigation primitives the editor needs:
// dotted-path resolution and projecting a schema through one stage.
package schema

// Kind classifies a schema field.
type Kind int

const (
	// Dimension is a leaf value selectable for grouping.
	Dimension Kind = iota
	// Measure is a leaf calculation (aggregate).
	Measure
	// Struct is a nested structure with its own fields.
	Struct
	// Query is a nested named query: a pipeline evaluated per row group.
	Query
)

func (k Kind) String() string {
	switch k {
	case Dimension:
		return "dimension"
	case Measure:
		return "measure"
	case Struct:
		return "struct"
	case Query:
		return "query"
	}
	return "unknown"
}

// Schema is a named structure with an ordered field list.
type Schema struct {
	Name   string
	Fields []*Field
}

// Field returns the named field, or nil.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Copy returns a deep copy of the schema.
func (s *Schema) Copy() *Schema {
	c := &Schema{Name: s.Name}
	if s.Fields != nil {
		c.Fields = make([]*Field, len(s.Fields))
		for i, f := range s.Fields {
			c.Fields[i] = f.Copy()
		}
	}
	return c
}
