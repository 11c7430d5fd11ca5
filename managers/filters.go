package managers

import (
	"fmt"
	"slices"

	"github.com/bawdo/quarry/nodes"
)

// AddFilter appends a stage-level filter, auto-expanding the target stage.
func (m *QueryManager) AddFilter(path nodes.StagePath, source string) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	st.Filters = append(st.Filters, &nodes.Filter{Source: source})
	return nil
}

// EditFilter rewrites a stage-level filter in place.
func (m *QueryManager) EditFilter(path nodes.StagePath, index int, source string) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if err := checkFilterIndex(st.Filters, index); err != nil {
		return err
	}
	st.Filters[index].Source = source
	return nil
}

// RemoveFilter deletes a stage-level filter.
func (m *QueryManager) RemoveFilter(path nodes.StagePath, index int) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if err := checkFilterIndex(st.Filters, index); err != nil {
		return err
	}
	st.Filters = slices.Delete(st.Filters, index, index+1)
	return nil
}

// AddFieldFilter attaches a private filter to a single field. A bare
// reference is promoted to a refined one; a nested query receives the
// filter on its first stage. Inline expressions have no filter list.
func (m *QueryManager) AddFieldFilter(path nodes.StagePath, index int, source string) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if err := checkFieldIndex(st, index); err != nil {
		return err
	}
	switch f := st.Fields[index].(type) {
	case *nodes.FieldName:
		st.Fields[index] = &nodes.RefinedField{
			Path:    f.Path,
			Filters: []*nodes.Filter{{Source: source}},
		}
	case *nodes.RefinedField:
		f.Filters = append(f.Filters, &nodes.Filter{Source: source})
	case *nodes.NestedQuery:
		f.Stages[0].Filters = append(f.Stages[0].Filters, &nodes.Filter{Source: source})
	case *nodes.ExpressionField:
		return fmt.Errorf("%w: inline expression %q has no filter list", ErrInvalidOperation, f.Name)
	}
	return nil
}

// EditFieldFilter rewrites one private filter of a refined reference.
// Any other field shape fails: there is no filter list to address until
// the field has been refined.
func (m *QueryManager) EditFieldFilter(path nodes.StagePath, index, filterIndex int, source string) error {
	f, err := m.refinedFieldAt(path, index)
	if err != nil {
		return err
	}
	if err := checkFilterIndex(f.Filters, filterIndex); err != nil {
		return err
	}
	f.Filters[filterIndex].Source = source
	return nil
}

// RemoveFieldFilter deletes one private filter of a refined reference.
func (m *QueryManager) RemoveFieldFilter(path nodes.StagePath, index, filterIndex int) error {
	f, err := m.refinedFieldAt(path, index)
	if err != nil {
		return err
	}
	if err := checkFilterIndex(f.Filters, filterIndex); err != nil {
		return err
	}
	f.Filters = slices.Delete(f.Filters, filterIndex, filterIndex+1)
	return nil
}

func (m *QueryManager) refinedFieldAt(path nodes.StagePath, index int) (*nodes.RefinedField, error) {
	st, err := m.expandAt(path)
	if err != nil {
		return nil, err
	}
	if err := editableStage(st); err != nil {
		return nil, err
	}
	if err := checkFieldIndex(st, index); err != nil {
		return nil, err
	}
	f, ok := st.Fields[index].(*nodes.RefinedField)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a refined reference",
			ErrInvalidOperation, st.Fields[index].DisplayName())
	}
	return f, nil
}

func checkFilterIndex(filters []*nodes.Filter, index int) error {
	if index < 0 || index >= len(filters) {
		return fmt.Errorf("filter index %d out of range (%d filters)", index, len(filters))
	}
	return nil
}
