package nodes

// Filter is one predicate attached to a stage or to a refined field,
// carried as source text. Structural decomposition is the filter parser's
// business; the tree only stores and compares the source form.
type Filter struct {
	Source string
}

// Copy returns a copy of the filter.
func (f *Filter) Copy() *Filter {
	c := *f
	return &c
}

// CopyFilters deep-copies a filter list.
func CopyFilters(filters []*Filter) []*Filter {
	if filters == nil {
		return nil
	}
	out := make([]*Filter, len(filters))
	for i, f := range filters {
		out[i] = f.Copy()
	}
	return out
}
