// Package rowlimit provides a transformer that installs a default row
// limit on any final stage that has none, so an exploratory query cannot
// be rendered unbounded.
package rowlimit

import (
	"fmt"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/plugins"
)

// Plugin caps limitless final stages at Max rows.
type Plugin struct {
	plugins.BaseTransformer
	Max int
}

// New returns a row limit plugin with the given cap.
func New(max int) (*Plugin, error) {
	if max <= 0 {
		return nil, fmt.Errorf("rowlimit: cap must be positive, got %d", max)
	}
	return &Plugin{Max: max}, nil
}

// TransformQuery applies the cap to the root pipeline's final stage and,
// recursively, to the final stage of every nested query.
func (p *Plugin) TransformQuery(q *nodes.Query) (*nodes.Query, error) {
	p.capStages(q.Stages)
	return q, nil
}

func (p *Plugin) capStages(stages []*nodes.Stage) {
	if len(stages) == 0 {
		return
	}
	last := stages[len(stages)-1]
	if last.Limit == 0 {
		last.Limit = p.Max
	}
	for _, st := range stages {
		for _, f := range st.Fields {
			if nq, ok := f.(*nodes.NestedQuery); ok {
				p.capStages(nq.Stages)
			}
		}
	}
}
