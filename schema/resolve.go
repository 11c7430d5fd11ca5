package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFieldNotFound reports a path segment absent from the schema.
var ErrFieldNotFound = errors.New("field not found")

// ErrInvalidPath reports a path that descends through a leaf field.
var ErrInvalidPath = errors.New("invalid field path")

// ResolveField resolves a dotted path against a schema, descending through
// nested structures directly and through nested queries by projecting the
// schema through every stage of the query's pipeline in order.
func ResolveField(s *Schema, path string) (*Field, error) {
	segments := strings.Split(path, ".")
	cur := s
	for i, seg := range segments {
		f := cur.Field(seg)
		if f == nil {
			return nil, fmt.Errorf("%w: %q has no field %q (resolving %q)", ErrFieldNotFound, cur.Name, seg, path)
		}
		if i == len(segments)-1 {
			return f, nil
		}
		switch f.Kind {
		case Struct:
			cur = &Schema{Name: f.Name, Fields: f.Fields}
		case Query:
			out := cur
			for _, st := range f.Pipeline {
				out = Project(out, st)
			}
			cur = &Schema{Name: f.Name, Fields: out.Fields}
		default:
			return nil, fmt.Errorf("%w: %q is a %s, cannot descend (resolving %q)", ErrInvalidPath, seg, f.Kind, path)
		}
	}
	// Unreachable: strings.Split never returns an empty slice.
	return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
}
