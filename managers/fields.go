package managers

import (
	"fmt"
	"slices"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/schema"
)

// Field insertion ranks. New fields are placed before the first existing
// field of strictly greater rank, so insertion stays stable among equal
// and lower ranks.
const (
	rankDimension = iota
	rankMeasure
	rankQuery
	rankStruct
)

func kindRank(k schema.Kind) int {
	switch k {
	case schema.Dimension:
		return rankDimension
	case schema.Measure:
		return rankMeasure
	case schema.Query:
		return rankQuery
	}
	return rankStruct
}

func fieldRank(in *schema.Schema, ref nodes.FieldRef) (int, error) {
	switch f := ref.(type) {
	case *nodes.FieldName:
		def, err := schema.ResolveField(in, f.Path)
		if err != nil {
			return 0, err
		}
		return kindRank(def.Kind), nil
	case *nodes.RefinedField:
		def, err := schema.ResolveField(in, f.Path)
		if err != nil {
			return 0, err
		}
		return kindRank(def.Kind), nil
	case *nodes.NestedQuery:
		return rankQuery, nil
	case *nodes.ExpressionField:
		if f.Aggregate {
			return rankMeasure, nil
		}
		return rankDimension, nil
	}
	return rankStruct, nil
}

// InsertField places a field reference into the addressed stage at the
// position its rank dictates: before the first existing field of strictly
// greater rank. Existing fields that fail to resolve against the live
// schema are logged and treated as lowest rank; they never abort the
// insert.
func (m *QueryManager) InsertField(path nodes.StagePath, ref nodes.FieldRef) error {
	st, err := m.stageAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	// A nested query owns at least one stage, like the root pipeline.
	if nq, ok := ref.(*nodes.NestedQuery); ok && len(nq.Stages) == 0 {
		nq.Stages = []*nodes.Stage{nodes.NewStage()}
	}
	in, err := m.inputSchema(path)
	if err != nil {
		return err
	}
	rank, err := fieldRank(in, ref)
	if err != nil {
		return err
	}

	pos := len(st.Fields)
	for i, f := range st.Fields {
		r, err := fieldRank(in, f)
		if err != nil {
			m.log.Warn("skipping unresolvable field during insert ranking",
				"field", f.DisplayName(), "error", err)
			continue
		}
		if r > rank {
			pos = i
			break
		}
	}
	st.Fields = slices.Insert(st.Fields, pos, ref)
	return nil
}

// AddField inserts a bare-name reference to a schema field.
func (m *QueryManager) AddField(path nodes.StagePath, fieldPath string) error {
	return m.InsertField(path, &nodes.FieldName{Path: fieldPath})
}

// ToggleField removes a top-level bare-name match if one exists,
// otherwise adds the field. Refined and inline matches are not
// recognised. The target stage is auto-expanded first.
func (m *QueryManager) ToggleField(path nodes.StagePath, fieldPath string) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	for i, f := range st.Fields {
		if fn, ok := f.(*nodes.FieldName); ok && fn.Path == fieldPath {
			removeFieldAt(st, i)
			return nil
		}
	}
	return m.AddField(path, fieldPath)
}

// RemoveField deletes the field at the given index, dropping any order-by
// entries that reference its display name first.
func (m *QueryManager) RemoveField(path nodes.StagePath, index int) error {
	st, err := m.stageAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if err := checkFieldIndex(st, index); err != nil {
		return err
	}
	removeFieldAt(st, index)
	return nil
}

func removeFieldAt(st *nodes.Stage, index int) {
	name := st.Fields[index].DisplayName()
	st.OrderBy = slices.DeleteFunc(st.OrderBy, func(o *nodes.Ordering) bool {
		return o.Field == name
	})
	st.Fields = slices.Delete(st.Fields, index, index+1)
}

// ReorderFields replaces the field list according to a full index
// permutation: position i of the new list holds the field previously at
// order[i].
func (m *QueryManager) ReorderFields(path nodes.StagePath, order []int) error {
	st, err := m.stageAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if len(order) != len(st.Fields) {
		return fmt.Errorf("%w: permutation has %d entries, stage has %d fields",
			ErrInvalidOperation, len(order), len(st.Fields))
	}
	seen := make([]bool, len(order))
	for _, from := range order {
		if from < 0 || from >= len(order) || seen[from] {
			return fmt.Errorf("%w: %v is not a permutation", ErrInvalidOperation, order)
		}
		seen[from] = true
	}
	fields := make([]nodes.FieldRef, len(order))
	for i, from := range order {
		fields[i] = st.Fields[from]
	}
	st.Fields = fields
	return nil
}

// RenameField sets or replaces the display alias of the field at the
// given index, promoting a bare reference to a refined one as needed.
// Order-by entries referencing the old display name are rewritten to the
// new one.
func (m *QueryManager) RenameField(path nodes.StagePath, index int, alias string) error {
	st, err := m.stageAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if err := checkFieldIndex(st, index); err != nil {
		return err
	}

	old := st.Fields[index].DisplayName()
	switch f := st.Fields[index].(type) {
	case *nodes.FieldName:
		st.Fields[index] = &nodes.RefinedField{Path: f.Path, As: alias}
	case *nodes.RefinedField:
		f.As = alias
	case *nodes.NestedQuery:
		f.Name = alias
	case *nodes.ExpressionField:
		f.Name = alias
	}
	renameOrderings(st.OrderBy, old, st.Fields[index].DisplayName())
	return nil
}

func renameOrderings(orderings []*nodes.Ordering, old, name string) {
	for _, o := range orderings {
		if o.Field == old {
			o.Field = name
		}
	}
}

func checkFieldIndex(st *nodes.Stage, index int) error {
	if index < 0 || index >= len(st.Fields) {
		return fmt.Errorf("field index %d out of range (stage has %d fields)", index, len(st.Fields))
	}
	return nil
}
