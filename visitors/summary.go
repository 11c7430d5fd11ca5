package visitors

import (
	"strings"

	"github.com/bawdo/quarry/filter"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/schema"
	"github.com/bawdo/quarry/styles"
)

// Summary is the structural description of a query handed to the
// presentation layer. It is the sole contract between the core and any
// UI.
type Summary struct {
	Stages []*StageSummary `json:"stages"`
}

// StageSummary describes one pipeline stage as an ordered list of
// heterogeneous items plus the fields eligible as order-by targets.
type StageSummary struct {
	Items         []*Item         `json:"items"`
	OrderByFields []*OrderByField `json:"orderByFields"`
	InputSource   string          `json:"inputSource"`
}

// ItemType discriminates summary items.
type ItemType string

const (
	ItemFilter  ItemType = "filter"
	ItemField   ItemType = "field"
	ItemNested  ItemType = "nested_query"
	ItemLimit   ItemType = "limit"
	ItemOrderBy ItemType = "order_by"
	ItemError   ItemType = "error_field"
)

// Item is one entry of a stage summary. The populated fields depend on
// Type.
type Item struct {
	Type ItemType `json:"type"`

	// filter
	FilterSource string         `json:"filterSource,omitempty"`
	Parsed       *filter.Parsed `json:"parsed,omitempty"`

	// field, nested_query, error_field
	Name       string     `json:"name,omitempty"`
	Path       string     `json:"path,omitempty"`
	Kind       string     `json:"kind,omitempty"`
	FieldIndex int        `json:"fieldIndex"`
	IsRefined  bool       `json:"isRefined,omitempty"`
	IsRenamed  bool       `json:"isRenamed,omitempty"`
	Source     string     `json:"source,omitempty"`
	Style      *StyleInfo `json:"style,omitempty"`

	// nested_query
	Stages []*StageSummary `json:"stages,omitempty"`

	// limit
	Limit int `json:"limit,omitempty"`

	// order_by
	OrderField string `json:"orderField,omitempty"`
	Direction  string `json:"direction,omitempty"`

	// error_field
	Error string `json:"error,omitempty"`
}

// StyleInfo is a field's style annotation: its configured renderer plus
// the renderers its shape admits.
type StyleInfo struct {
	Renderer         string   `json:"renderer"`
	AllowedRenderers []string `json:"allowedRenderers"`
	CanRemove        bool     `json:"canRemove"`
}

// OrderByField names a stage field eligible as an order-by target.
type OrderByField struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// SummaryVisitor builds summaries of a query tree against a root schema
// and an opaque style mapping.
type SummaryVisitor struct {
	schema *schema.Schema
	styles styles.Mapping
}

// NewSummaryVisitor creates a summary builder. The style mapping may be
// nil.
func NewSummaryVisitor(s *schema.Schema, m styles.Mapping) *SummaryVisitor {
	return &SummaryVisitor{schema: s, styles: m}
}

// Summarize builds the UI-facing description of the tree. A field that
// fails to resolve becomes an error item; the rest of its stage renders
// normally.
func (v *SummaryVisitor) Summarize(q *nodes.Query) *Summary {
	return &Summary{Stages: v.stageList(v.schema, q.Stages)}
}

func (v *SummaryVisitor) stageList(in *schema.Schema, stages []*nodes.Stage) []*StageSummary {
	out := make([]*StageSummary, len(stages))
	cur := in
	for i, st := range stages {
		out[i] = v.stage(cur, st)
		cur = schema.Project(cur, st)
	}
	return out
}

func (v *SummaryVisitor) stage(in *schema.Schema, st *nodes.Stage) *StageSummary {
	s := &StageSummary{InputSource: in.Name}
	for _, f := range st.Filters {
		s.Items = append(s.Items, &Item{
			Type:         ItemFilter,
			FilterSource: f.Source,
			Parsed:       filter.Parse(f.Source),
		})
	}
	for i, f := range st.Fields {
		s.Items = append(s.Items, v.fieldItem(in, f, i))
	}
	if st.Limit > 0 {
		s.Items = append(s.Items, &Item{Type: ItemLimit, Limit: st.Limit})
	}
	for _, o := range st.OrderBy {
		s.Items = append(s.Items, orderItem(st, o))
	}
	s.OrderByFields = orderByFields(in, st)
	return s
}

func (v *SummaryVisitor) fieldItem(in *schema.Schema, ref nodes.FieldRef, index int) *Item {
	switch f := ref.(type) {
	case *nodes.NestedQuery:
		return &Item{
			Type:       ItemNested,
			Name:       f.Name,
			Kind:       schema.Query.String(),
			FieldIndex: index,
			Stages:     v.stageList(in, f.Stages),
			Style:      v.styleFor(f.Name, true),
		}
	case *nodes.ExpressionField:
		kind := schema.Dimension
		if f.Aggregate {
			kind = schema.Measure
		}
		return &Item{
			Type:       ItemField,
			Name:       f.Name,
			Kind:       kind.String(),
			FieldIndex: index,
			Source:     f.Source,
			Style:      v.styleFor(f.Name, false),
		}
	case *nodes.FieldName:
		return v.pathItem(in, f.Path, f.DisplayName(), false, false, index)
	case *nodes.RefinedField:
		return v.pathItem(in, f.Path, f.DisplayName(), true, f.As != "", index)
	}
	return nil
}

func (v *SummaryVisitor) pathItem(in *schema.Schema, path, name string, refined, renamed bool, index int) *Item {
	def, err := schema.ResolveField(in, path)
	if err != nil {
		return &Item{
			Type:       ItemError,
			Name:       name,
			Path:       path,
			FieldIndex: index,
			Error:      err.Error(),
		}
	}
	it := &Item{
		Type:       ItemField,
		Name:       name,
		Path:       path,
		Kind:       def.Kind.String(),
		FieldIndex: index,
		IsRefined:  refined,
		IsRenamed:  renamed,
		Style:      v.styleFor(name, def.Kind == schema.Query),
	}
	// A round-trippable definition is only available for fields declared
	// at the root schema's own top level.
	if !strings.Contains(path, ".") {
		if top := v.schema.Field(path); top != nil {
			it.Source = top.Source
		}
	}
	return it
}

func (v *SummaryVisitor) styleFor(name string, queryShaped bool) *StyleInfo {
	st, ok := v.styles.Lookup(name)
	if !ok {
		return nil
	}
	allowed := styles.ScalarRenderers
	if queryShaped {
		allowed = styles.QueryRenderers
	}
	return &StyleInfo{
		Renderer:         st.Renderer,
		AllowedRenderers: allowed,
		CanRemove:        v.styles.CanRemove(name),
	}
}

// orderItem reads an ordering entry, normalising a legacy 1-based
// position to the display name of the field it points at.
func orderItem(st *nodes.Stage, o *nodes.Ordering) *Item {
	name := o.Field
	if name == "" && o.Num >= 1 && o.Num <= len(st.Fields) {
		name = st.Fields[o.Num-1].DisplayName()
	}
	return &Item{Type: ItemOrderBy, OrderField: name, Direction: o.Dir.String()}
}

// orderByFields lists the fields of a stage eligible as order-by
// targets: scalar outputs only, never nested queries or structures.
func orderByFields(in *schema.Schema, st *nodes.Stage) []*OrderByField {
	var out []*OrderByField
	for _, ref := range st.Fields {
		var kind schema.Kind
		switch f := ref.(type) {
		case *nodes.NestedQuery:
			continue
		case *nodes.ExpressionField:
			kind = schema.Dimension
			if f.Aggregate {
				kind = schema.Measure
			}
		case *nodes.FieldName:
			def, err := schema.ResolveField(in, f.Path)
			if err != nil || def.Kind == schema.Query || def.Kind == schema.Struct {
				continue
			}
			kind = def.Kind
		case *nodes.RefinedField:
			def, err := schema.ResolveField(in, f.Path)
			if err != nil || def.Kind == schema.Query || def.Kind == schema.Struct {
				continue
			}
			kind = def.Kind
		}
		out = append(out, &OrderByField{Name: ref.DisplayName(), Kind: kind.String()})
	}
	return out
}
