// Package managers provides the tree editor: a QueryManager owns the
// mutable pipeline tree of one named query and exposes path-addressed
// structural operations kept consistent with the schema it is bound to.
package managers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
	"github.com/bawdo/quarry/schema"
)

// QueryManager is the editable core: one query, one root schema, applied
// edits synchronous and unretried. Accessors return deep copies so that
// callers can never mutate through into the live tree.
type QueryManager struct {
	schema       *schema.Schema
	query        *nodes.Query
	transformers []plugins.Transformer
	log          *slog.Logger
}

// NewQueryManager binds an editor to a root schema. The query starts
// blank: unnamed, with a single empty reduce stage.
func NewQueryManager(s *schema.Schema) *QueryManager {
	return &QueryManager{
		schema: s,
		query:  nodes.NewQuery(""),
		log:    slog.Default(),
	}
}

// Schema returns the root schema the editor is bound to.
func (m *QueryManager) Schema() *schema.Schema { return m.schema }

// Query returns a deep copy of the current tree.
func (m *QueryManager) Query() *nodes.Query { return m.query.Copy() }

// Name returns the query's name.
func (m *QueryManager) Name() string { return m.query.Name }

// SetName renames the query.
func (m *QueryManager) SetName(name string) { m.query.Name = name }

// CanRun reports whether the first stage has at least one output field.
// This is a minimal readiness gate, not full validity checking.
func (m *QueryManager) CanRun() bool {
	return len(m.query.Stages[0].Fields) > 0
}

// AddTransformer appends a transformer plugin applied by TransformedQuery.
func (m *QueryManager) AddTransformer(t plugins.Transformer) {
	m.transformers = append(m.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (m *QueryManager) Transformers() []plugins.Transformer {
	return m.transformers
}

// TransformedQuery runs the transformer pipeline over a deep copy of the
// tree and returns the result. The live tree is never handed to plugins.
func (m *QueryManager) TransformedQuery() (*nodes.Query, error) {
	q := m.query.Copy()
	for _, t := range m.transformers {
		var err error
		if q, err = t.TransformQuery(q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// GetStage resolves a stage path through nested queries and returns a
// deep copy of the addressed stage.
func (m *QueryManager) GetStage(path nodes.StagePath) (*nodes.Stage, error) {
	st, err := m.stageAt(path)
	if err != nil {
		return nil, err
	}
	return st.Copy(), nil
}

// AutoExpand resolves a stage path like GetStage, but when resolution
// stops at a bare or refined reference whose schema definition is itself
// a nested query, the reference is promoted in place (deep-copied from
// the definition) and resolution is retried exactly once.
func (m *QueryManager) AutoExpand(path nodes.StagePath) (*nodes.Stage, error) {
	st, err := m.expandAt(path)
	if err != nil {
		return nil, err
	}
	return st.Copy(), nil
}

// stageAt resolves a path to the live stage by iterative descent. A nil
// path addresses the first root stage.
func (m *QueryManager) stageAt(path nodes.StagePath) (*nodes.Stage, error) {
	stages := m.query.Stages
	if len(path) == 0 {
		return stages[0], nil
	}
	for i, seg := range path {
		if seg.Stage < 0 || seg.Stage >= len(stages) {
			return nil, &PathError{Path: path[:i+1], Reason: reasonStageRange}
		}
		st := stages[seg.Stage]
		if i == len(path)-1 {
			if seg.Field != nodes.NoField {
				return nil, &PathError{Path: path, Reason: reasonTrailingField}
			}
			return st, nil
		}
		if seg.Field == nodes.NoField {
			return nil, &PathError{Path: path[:i+1], Reason: reasonMissingField}
		}
		if seg.Field < 0 || seg.Field >= len(st.Fields) {
			return nil, &PathError{Path: path[:i+1], Reason: reasonFieldRange}
		}
		nq, ok := st.Fields[seg.Field].(*nodes.NestedQuery)
		if !ok {
			return nil, &PathError{Path: path[:i+1], Reason: ReasonNotAStage}
		}
		stages = nq.Stages
	}
	return nil, &PathError{Path: path, Reason: reasonMissingField}
}

// expandAt is the live-stage form of AutoExpand: detect the promotable
// failure, promote, then resolve again, exactly once.
func (m *QueryManager) expandAt(path nodes.StagePath) (*nodes.Stage, error) {
	st, err := m.stageAt(path)
	if err == nil {
		return st, nil
	}
	var perr *PathError
	if !errors.As(err, &perr) || perr.Reason != ReasonNotAStage {
		return nil, err
	}
	if err := m.promote(perr.Path); err != nil {
		return nil, err
	}
	return m.stageAt(path)
}

// promote replaces the bare or refined reference addressed by the final
// hop of prefix with an explicit nested query deep-copied from its schema
// definition. Private filters of a refined reference move onto the
// promoted pipeline's first stage.
func (m *QueryManager) promote(prefix nodes.StagePath) error {
	cp := containerPath(prefix)
	st, err := m.stageAt(cp)
	if err != nil {
		return err
	}
	in, err := m.inputSchema(cp)
	if err != nil {
		return err
	}
	idx := prefix[len(prefix)-1].Field
	if idx < 0 || idx >= len(st.Fields) {
		return &PathError{Path: prefix, Reason: reasonFieldRange}
	}

	var refPath string
	var filters []*nodes.Filter
	switch f := st.Fields[idx].(type) {
	case *nodes.FieldName:
		refPath = f.Path
	case *nodes.RefinedField:
		refPath = f.Path
		filters = nodes.CopyFilters(f.Filters)
	default:
		return &PathError{Path: prefix, Reason: ReasonNotAStage}
	}

	def, err := schema.ResolveField(in, refPath)
	if err != nil {
		return err
	}
	if def.Kind != schema.Query {
		return &PathError{Path: prefix, Reason: ReasonNotAStage}
	}

	nq := &nodes.NestedQuery{
		Name:   st.Fields[idx].DisplayName(),
		Stages: nodes.CopyStages(def.Pipeline),
	}
	if len(nq.Stages) == 0 {
		nq.Stages = []*nodes.Stage{nodes.NewStage()}
	}
	if len(filters) > 0 {
		nq.Stages[0].Filters = append(filters, nq.Stages[0].Filters...)
	}
	st.Fields[idx] = nq
	return nil
}

// inputSchema computes the live schema feeding the addressed stage: the
// root schema projected through every ancestor stage. A nested pipeline
// reads the same input source as the stage that owns it.
func (m *QueryManager) inputSchema(path nodes.StagePath) (*schema.Schema, error) {
	cur := m.schema
	stages := m.query.Stages
	if len(path) == 0 {
		return cur, nil
	}
	for i, seg := range path {
		if seg.Stage < 0 || seg.Stage >= len(stages) {
			return nil, &PathError{Path: path[:i+1], Reason: reasonStageRange}
		}
		for j := 0; j < seg.Stage; j++ {
			cur = schema.Project(cur, stages[j])
		}
		st := stages[seg.Stage]
		if i == len(path)-1 || seg.Field == nodes.NoField {
			return cur, nil
		}
		if seg.Field < 0 || seg.Field >= len(st.Fields) {
			return nil, &PathError{Path: path[:i+1], Reason: reasonFieldRange}
		}
		nq, ok := st.Fields[seg.Field].(*nodes.NestedQuery)
		if !ok {
			return nil, &PathError{Path: path[:i+1], Reason: ReasonNotAStage}
		}
		stages = nq.Stages
	}
	return cur, nil
}

// containerPath strips the field index from the final hop, addressing the
// stage that owns the field.
func containerPath(prefix nodes.StagePath) nodes.StagePath {
	cp := make(nodes.StagePath, len(prefix))
	copy(cp, prefix)
	cp[len(cp)-1].Field = nodes.NoField
	return cp
}

// editableStage gates structural edits to reduce stages.
func editableStage(st *nodes.Stage) error {
	if st.Kind != nodes.Reduce {
		return fmt.Errorf("%w: %s stage does not accept edits", ErrInvalidOperation, st.Kind)
	}
	return nil
}
