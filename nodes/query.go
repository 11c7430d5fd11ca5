package nodes

// StageKind identifies what a pipeline stage does with its input. Only
// reduce stages are editable; project and index stages can be loaded from
// a predefined query and rendered, but structural edits reject them.
type StageKind int

const (
	Reduce StageKind = iota
	Project
	Index
)

func (k StageKind) String() string {
	switch k {
	case Reduce:
		return "reduce"
	case Project:
		return "project"
	case Index:
		return "index"
	}
	return "unknown"
}

// Stage is one pipeline element: ordered fields plus optional filters,
// row limit, and ordering. Field order is caller-controlled.
type Stage struct {
	Kind    StageKind
	Fields  []FieldRef
	Filters []*Filter
	Limit   int // 0 means no limit
	OrderBy []*Ordering
}

// NewStage returns an empty reduce stage.
func NewStage() *Stage {
	return &Stage{Kind: Reduce}
}

// Copy returns a deep copy of the stage.
func (s *Stage) Copy() *Stage {
	c := &Stage{Kind: s.Kind, Limit: s.Limit}
	if len(s.Fields) > 0 {
		c.Fields = make([]FieldRef, len(s.Fields))
		for i, f := range s.Fields {
			c.Fields[i] = f.Copy()
		}
	}
	c.Filters = CopyFilters(s.Filters)
	if len(s.OrderBy) > 0 {
		c.OrderBy = make([]*Ordering, len(s.OrderBy))
		for i, o := range s.OrderBy {
			c.OrderBy[i] = o.Copy()
		}
	}
	return c
}

// CopyStages deep-copies a pipeline.
func CopyStages(stages []*Stage) []*Stage {
	if stages == nil {
		return nil
	}
	out := make([]*Stage, len(stages))
	for i, s := range stages {
		out[i] = s.Copy()
	}
	return out
}

// Query is the root entity: a name and a pipeline of stages. The pipeline
// is never empty; editors reinsert an empty stage rather than leave none.
type Query struct {
	Name   string
	Stages []*Stage
}

// NewQuery returns a blank query holding one empty reduce stage.
func NewQuery(name string) *Query {
	return &Query{Name: name, Stages: []*Stage{NewStage()}}
}

// Copy returns a deep copy of the query.
func (q *Query) Copy() *Query {
	return &Query{Name: q.Name, Stages: CopyStages(q.Stages)}
}
