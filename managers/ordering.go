package managers

import (
	"fmt"
	"slices"

	"github.com/bawdo/quarry/nodes"
)

// AddLimit sets the row limit of the addressed stage, auto-expanding it
// first.
func (m *QueryManager) AddLimit(path nodes.StagePath, limit int) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidOperation, limit)
	}
	st.Limit = limit
	return nil
}

// AddLimitWithOrder sets the row limit and, when the stage has no
// ordering yet, installs one on the given field. An explicit ordering is
// never clobbered by a limit.
func (m *QueryManager) AddLimitWithOrder(path nodes.StagePath, limit, fieldIndex int, dir nodes.Direction) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidOperation, limit)
	}
	if err := checkFieldIndex(st, fieldIndex); err != nil {
		return err
	}
	st.Limit = limit
	if len(st.OrderBy) == 0 {
		st.OrderBy = []*nodes.Ordering{{Field: st.Fields[fieldIndex].DisplayName(), Dir: dir}}
	}
	return nil
}

// RemoveLimit clears the stage's row limit.
func (m *QueryManager) RemoveLimit(path nodes.StagePath) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	st.Limit = 0
	return nil
}

// AddOrderBy orders the stage by the field at the given index. An
// existing entry for the same display name has its direction replaced;
// otherwise a new entry is appended.
func (m *QueryManager) AddOrderBy(path nodes.StagePath, fieldIndex int, dir nodes.Direction) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if err := checkFieldIndex(st, fieldIndex); err != nil {
		return err
	}
	name := st.Fields[fieldIndex].DisplayName()
	for _, o := range st.OrderBy {
		if o.Field == name {
			o.Dir = dir
			return nil
		}
	}
	st.OrderBy = append(st.OrderBy, &nodes.Ordering{Field: name, Dir: dir})
	return nil
}

// EditOrderBy changes the direction of an existing order-by entry.
func (m *QueryManager) EditOrderBy(path nodes.StagePath, index int, dir nodes.Direction) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if index < 0 || index >= len(st.OrderBy) {
		return fmt.Errorf("order-by index %d out of range (%d entries)", index, len(st.OrderBy))
	}
	st.OrderBy[index].Dir = dir
	return nil
}

// RemoveOrderBy deletes an order-by entry.
func (m *QueryManager) RemoveOrderBy(path nodes.StagePath, index int) error {
	st, err := m.expandAt(path)
	if err != nil {
		return err
	}
	if err := editableStage(st); err != nil {
		return err
	}
	if index < 0 || index >= len(st.OrderBy) {
		return fmt.Errorf("order-by index %d out of range (%d entries)", index, len(st.OrderBy))
	}
	st.OrderBy = slices.Delete(st.OrderBy, index, index+1)
	return nil
}
