// Package nodes defines the tree types used to represent an editable
// analytical query: the query itself, its pipeline stages, and the four
// field reference shapes a stage can carry.
package nodes

import "strings"

// FieldRef is the closed union of the four shapes a stage field can take.
// Consumers dispatch with a type switch; the unexported marker method keeps
// the union closed to this package.
type FieldRef interface {
	// DisplayName returns the name the field presents in its stage:
	// the rename when one is set, otherwise the trailing path segment,
	// otherwise the declared name.
	DisplayName() string

	// Copy returns a deep copy sharing no mutable state with the receiver.
	Copy() FieldRef

	isFieldRef()
}

// FieldName is a bare dotted reference to a schema field, unmodified.
type FieldName struct {
	Path string
}

// RefinedField is a dotted reference carrying a rename and/or private
// filters distinct from its base definition.
type RefinedField struct {
	Path    string
	As      string // optional rename; empty keeps the trailing path segment
	Filters []*Filter
}

// NestedQuery is an inline named sub-pipeline attached as a field. It is
// query-shaped: its stages follow the same rules as the root pipeline.
type NestedQuery struct {
	Name   string
	Stages []*Stage
}

// ExpressionField is self-contained source code absent from the schema,
// classified as either an aggregate calculation or a plain dimension.
type ExpressionField struct {
	Name      string
	Source    string
	Aggregate bool
}

func (*FieldName) isFieldRef()       {}
func (*RefinedField) isFieldRef()    {}
func (*NestedQuery) isFieldRef()     {}
func (*ExpressionField) isFieldRef() {}

func (f *FieldName) DisplayName() string { return TrailingSegment(f.Path) }

func (f *RefinedField) DisplayName() string {
	if f.As != "" {
		return f.As
	}
	return TrailingSegment(f.Path)
}

func (f *NestedQuery) DisplayName() string { return f.Name }

func (f *ExpressionField) DisplayName() string { return f.Name }

func (f *FieldName) Copy() FieldRef {
	c := *f
	return &c
}

func (f *RefinedField) Copy() FieldRef {
	return &RefinedField{Path: f.Path, As: f.As, Filters: CopyFilters(f.Filters)}
}

func (f *NestedQuery) Copy() FieldRef {
	return &NestedQuery{Name: f.Name, Stages: CopyStages(f.Stages)}
}

func (f *ExpressionField) Copy() FieldRef {
	c := *f
	return &c
}

// TrailingSegment returns the last segment of a dotted path.
func TrailingSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
