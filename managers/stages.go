package managers

import (
	"slices"

	"github.com/bawdo/quarry/nodes"
)

// AddStage appends an empty reduce stage to the pipeline owning the
// addressed stage (the root pipeline for a nil path).
func (m *QueryManager) AddStage(path nodes.StagePath) error {
	pl, _, err := m.pipelineOf(path)
	if err != nil {
		return err
	}
	*pl = append(*pl, nodes.NewStage())
	return nil
}

// AddStageToField appends an empty reduce stage to the sub-pipeline of
// the field at (path, fieldIndex). The field must resolve to a nested
// query; a bare or refined reference is promoted first.
func (m *QueryManager) AddStageToField(path nodes.StagePath, fieldIndex int) error {
	st, err := m.stageAt(path)
	if err != nil {
		return err
	}
	if err := checkFieldIndex(st, fieldIndex); err != nil {
		return err
	}
	if _, ok := st.Fields[fieldIndex].(*nodes.NestedQuery); !ok {
		if err := m.promote(fieldPrefix(path, fieldIndex)); err != nil {
			return err
		}
	}
	nq := st.Fields[fieldIndex].(*nodes.NestedQuery)
	nq.Stages = append(nq.Stages, nodes.NewStage())
	return nil
}

// RemoveStage splices the addressed stage out of its pipeline. A pipeline
// emptied by the removal immediately gets one empty stage back: the tree
// never holds an empty pipeline.
func (m *QueryManager) RemoveStage(path nodes.StagePath) error {
	pl, idx, err := m.pipelineOf(path)
	if err != nil {
		return err
	}
	*pl = slices.Delete(*pl, idx, idx+1)
	if len(*pl) == 0 {
		*pl = []*nodes.Stage{nodes.NewStage()}
	}
	return nil
}

// pipelineOf resolves the pipeline slice containing the addressed stage
// and the stage's index within it.
func (m *QueryManager) pipelineOf(path nodes.StagePath) (*[]*nodes.Stage, int, error) {
	pl := &m.query.Stages
	if len(path) == 0 {
		return pl, 0, nil
	}
	for i, seg := range path {
		if seg.Stage < 0 || seg.Stage >= len(*pl) {
			return nil, 0, &PathError{Path: path[:i+1], Reason: reasonStageRange}
		}
		if i == len(path)-1 {
			if seg.Field != nodes.NoField {
				return nil, 0, &PathError{Path: path, Reason: reasonTrailingField}
			}
			return pl, seg.Stage, nil
		}
		if seg.Field == nodes.NoField {
			return nil, 0, &PathError{Path: path[:i+1], Reason: reasonMissingField}
		}
		st := (*pl)[seg.Stage]
		if seg.Field < 0 || seg.Field >= len(st.Fields) {
			return nil, 0, &PathError{Path: path[:i+1], Reason: reasonFieldRange}
		}
		nq, ok := st.Fields[seg.Field].(*nodes.NestedQuery)
		if !ok {
			return nil, 0, &PathError{Path: path[:i+1], Reason: ReasonNotAStage}
		}
		pl = &nq.Stages
	}
	return nil, 0, &PathError{Path: path, Reason: reasonMissingField}
}

// fieldPrefix builds the promotion prefix addressing a field of the
// stage at path.
func fieldPrefix(path nodes.StagePath, fieldIndex int) nodes.StagePath {
	if len(path) == 0 {
		return nodes.StagePath{nodes.SegField(0, fieldIndex)}
	}
	prefix := make(nodes.StagePath, len(path))
	copy(prefix, path)
	prefix[len(prefix)-1].Field = fieldIndex
	return prefix
}
