package managers

import (
	"fmt"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/schema"
)

// LoadQuery merges the named query at the given schema path into the
// current tree, stage by stage. For the first stage: ordering from the
// loaded definition replaces the existing one, a loaded limit overwrites,
// filters are unioned (deduplicated by source text), and loaded fields
// are prepended with colliding existing display names dropped. Deeper
// stages are copied verbatim only when the current tree lacks them;
// a stage present on both sides fails with ErrMergeConflict.
func (m *QueryManager) LoadQuery(path string) error {
	def, err := schema.ResolveField(m.schema, path)
	if err != nil {
		return err
	}
	if def.Kind != schema.Query {
		return fmt.Errorf("%w: %q is a %s, not a query", ErrInvalidOperation, path, def.Kind)
	}
	loaded := nodes.CopyStages(def.Pipeline)
	if len(loaded) == 0 {
		return nil
	}

	// Deep non-uniform merges are unsupported; reject before mutating.
	for i := 1; i < len(loaded); i++ {
		if i < len(m.query.Stages) {
			return fmt.Errorf("%w: stage %d exists in both the loaded query and the current tree",
				ErrMergeConflict, i)
		}
	}

	cur := m.query.Stages[0]
	l0 := loaded[0]

	cur.OrderBy = l0.OrderBy
	if l0.Limit != 0 {
		cur.Limit = l0.Limit
	}

	seen := make(map[string]bool, len(cur.Filters))
	for _, f := range cur.Filters {
		seen[f.Source] = true
	}
	for _, f := range l0.Filters {
		if !seen[f.Source] {
			cur.Filters = append(cur.Filters, f)
			seen[f.Source] = true
		}
	}

	names := make(map[string]bool, len(l0.Fields))
	for _, f := range l0.Fields {
		names[f.DisplayName()] = true
	}
	merged := l0.Fields
	for _, f := range cur.Fields {
		if !names[f.DisplayName()] {
			merged = append(merged, f)
		}
	}
	cur.Fields = merged

	m.query.Stages = append(m.query.Stages, loaded[1:]...)
	if m.query.Name == "" {
		m.query.Name = def.Name
	}
	return nil
}

// ReplaceQuery replaces the whole tree with a deep copy of the given
// named query definition. When the current tree is a single field-less
// stage carrying filters, those filters are prepended onto the new first
// stage so an in-progress filter set survives the swap.
func (m *QueryManager) ReplaceQuery(def *schema.Field) error {
	if def.Kind != schema.Query {
		return fmt.Errorf("%w: %q is a %s, not a query", ErrInvalidOperation, def.Name, def.Kind)
	}

	var carried []*nodes.Filter
	if len(m.query.Stages) == 1 {
		st := m.query.Stages[0]
		if len(st.Fields) == 0 && len(st.Filters) > 0 {
			carried = st.Filters
		}
	}

	stages := nodes.CopyStages(def.Pipeline)
	if len(stages) == 0 {
		stages = []*nodes.Stage{nodes.NewStage()}
	}
	if carried != nil {
		stages[0].Filters = append(carried, stages[0].Filters...)
	}
	m.query = &nodes.Query{Name: def.Name, Stages: stages}
	return nil
}
