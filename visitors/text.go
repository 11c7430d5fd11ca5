package visitors

import (
	"strconv"
	"strings"

	"github.com/bawdo/quarry/internal/quoting"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/schema"
)

// Mode selects how the text projection frames the query.
type Mode int

const (
	// ModeQuery renders a full query bound to a named source.
	ModeQuery Mode = iota
	// ModeSource renders a query defined inline within a source, so the
	// source name is omitted.
	ModeSource
	// ModeNotebook prefixes a documentation block carrying name,
	// description, renderer and model-path metadata.
	ModeNotebook
)

// Metadata is the documentation-block header emitted by ModeNotebook.
type Metadata struct {
	Name        string
	Description string
	Renderer    string
	ModelPath   string
}

// TextOption configures a TextVisitor.
type TextOption func(*TextVisitor)

// WithMode selects the framing mode.
func WithMode(m Mode) TextOption {
	return func(v *TextVisitor) { v.mode = m }
}

// WithMetadata sets the ModeNotebook header fields.
func WithMetadata(meta Metadata) TextOption {
	return func(v *TextVisitor) { v.meta = meta }
}

// WithIndent overrides the two-space indentation unit.
func WithIndent(indent string) TextOption {
	return func(v *TextVisitor) { v.indent = indent }
}

// TextVisitor renders a query tree as source text. It walks the pipeline
// depth-first, tracking the live schema per stage (the root schema
// projected through all prior stages).
type TextVisitor struct {
	schema *schema.Schema
	mode   Mode
	meta   Metadata
	indent string
}

// NewTextVisitor creates a text renderer bound to the given root schema.
func NewTextVisitor(s *schema.Schema, opts ...TextOption) *TextVisitor {
	v := &TextVisitor{schema: s, mode: ModeQuery, indent: "  "}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Render emits the query as source text. The same (tree, schema) pair
// always yields identical output.
func (v *TextVisitor) Render(q *nodes.Query) string {
	w := &TextWriter{}
	if v.mode == ModeNotebook {
		v.writeHeader(w, q)
	}
	w.Write("query: ")
	if q.Name != "" {
		w.Write(quoting.MaybeBacktick(q.Name) + " is ")
	}
	if v.mode != ModeSource {
		w.Write(quoting.MaybeBacktick(v.schema.Name) + " -> ")
	}
	v.writePipeline(w, v.schema, q.Stages)
	return w.Render(v.indent)
}

func (v *TextVisitor) writeHeader(w *TextWriter, q *nodes.Query) {
	name := v.meta.Name
	if name == "" {
		name = q.Name
	}
	if name != "" {
		w.Write("// name: " + name)
		w.Newline()
	}
	if v.meta.Description != "" {
		w.Write("// description: " + v.meta.Description)
		w.Newline()
	}
	if v.meta.Renderer != "" {
		w.Write("// renderer: " + v.meta.Renderer)
		w.Newline()
	}
	if v.meta.ModelPath != "" {
		w.Write("// model: " + v.meta.ModelPath)
		w.Newline()
	}
}

func (v *TextVisitor) writePipeline(w *TextWriter, in *schema.Schema, stages []*nodes.Stage) {
	cur := in
	for i, st := range stages {
		if i > 0 {
			w.Write(" -> ")
		}
		v.writeStage(w, cur, st)
		cur = schema.Project(cur, st)
	}
}

func (v *TextVisitor) writeStage(w *TextWriter, in *schema.Schema, st *nodes.Stage) {
	clauses := stageClauses(in, st)
	if len(clauses) == 0 {
		w.Write("{ }")
		return
	}
	if len(clauses) == 1 && clauses[0].items() == 1 {
		w.Write("{ ")
		v.writeClause(w, in, clauses[0])
		w.Write(" }")
		return
	}
	w.Write("{")
	w.Indent()
	for _, c := range clauses {
		w.Newline()
		v.writeClause(w, in, c)
	}
	w.Outdent()
	w.Newline()
	w.Write("}")
}

// Output buckets. One property clause is emitted per contiguous run of
// same-bucket fields in original order; a bucket change splits into an
// additional clause, never reordering fields.
const (
	bucketGroupBy   = "group_by"
	bucketAggregate = "aggregate"
	bucketNest      = "nest"
)

type clauseKind int

const (
	clauseWhere clauseKind = iota
	clauseFields
	clauseLimit
	clauseOrderBy
)

type clause struct {
	kind    clauseKind
	keyword string
	filters []*nodes.Filter
	fields  []nodes.FieldRef
	limit   int
	orders  []*nodes.Ordering
}

func (c clause) items() int {
	switch c.kind {
	case clauseWhere:
		return len(c.filters)
	case clauseFields:
		return len(c.fields)
	}
	return 1
}

func stageClauses(in *schema.Schema, st *nodes.Stage) []clause {
	var out []clause
	if len(st.Filters) > 0 {
		out = append(out, clause{kind: clauseWhere, filters: st.Filters})
	}
	var run clause
	for _, f := range st.Fields {
		kw := bucketOf(in, f)
		if run.keyword != kw {
			if len(run.fields) > 0 {
				out = append(out, run)
			}
			run = clause{kind: clauseFields, keyword: kw}
		}
		run.fields = append(run.fields, f)
	}
	if len(run.fields) > 0 {
		out = append(out, run)
	}
	if st.Limit > 0 {
		out = append(out, clause{kind: clauseLimit, limit: st.Limit})
	}
	if len(st.OrderBy) > 0 {
		out = append(out, clause{kind: clauseOrderBy, orders: st.OrderBy})
	}
	return out
}

func bucketOf(in *schema.Schema, ref nodes.FieldRef) string {
	switch f := ref.(type) {
	case *nodes.NestedQuery:
		return bucketNest
	case *nodes.ExpressionField:
		if f.Aggregate {
			return bucketAggregate
		}
		return bucketGroupBy
	case *nodes.FieldName:
		return bucketOfPath(in, f.Path)
	case *nodes.RefinedField:
		return bucketOfPath(in, f.Path)
	}
	return bucketGroupBy
}

func bucketOfPath(in *schema.Schema, path string) string {
	def, err := schema.ResolveField(in, path)
	if err != nil {
		return bucketGroupBy
	}
	switch def.Kind {
	case schema.Measure:
		return bucketAggregate
	case schema.Query:
		return bucketNest
	}
	return bucketGroupBy
}

func (v *TextVisitor) writeClause(w *TextWriter, in *schema.Schema, c clause) {
	switch c.kind {
	case clauseWhere:
		if len(c.filters) == 1 {
			w.Write("where: " + c.filters[0].Source)
			return
		}
		w.Write("where:")
		w.Indent()
		for _, f := range c.filters {
			w.Newline()
			w.Write(f.Source)
		}
		w.Outdent()
	case clauseFields:
		if len(c.fields) == 1 {
			w.Write(c.keyword + ": ")
			v.writeField(w, in, c.fields[0])
			return
		}
		w.Write(c.keyword + ":")
		w.Indent()
		for _, f := range c.fields {
			w.Newline()
			v.writeField(w, in, f)
		}
		w.Outdent()
	case clauseLimit:
		w.Write("limit: " + strconv.Itoa(c.limit))
	case clauseOrderBy:
		w.Write("order_by: " + orderByList(c.orders))
	}
}

func (v *TextVisitor) writeField(w *TextWriter, in *schema.Schema, ref nodes.FieldRef) {
	switch f := ref.(type) {
	case *nodes.FieldName:
		w.Write(quoting.Path(f.Path))
	case *nodes.RefinedField:
		if f.As != "" {
			w.Write(quoting.MaybeBacktick(f.As) + " is ")
		}
		w.Write(quoting.Path(f.Path))
		if len(f.Filters) > 0 {
			w.Write(" ")
			v.writeFilterBlock(w, f.Filters)
		}
	case *nodes.NestedQuery:
		w.Write(quoting.MaybeBacktick(f.Name) + " is ")
		v.writePipeline(w, in, f.Stages)
	case *nodes.ExpressionField:
		w.Write(quoting.MaybeBacktick(f.Name) + " is " + f.Source)
	}
}

func (v *TextVisitor) writeFilterBlock(w *TextWriter, filters []*nodes.Filter) {
	if len(filters) == 1 {
		w.Write("{ where: " + filters[0].Source + " }")
		return
	}
	w.Write("{")
	w.Indent()
	w.Newline()
	w.Write("where:")
	w.Indent()
	for _, f := range filters {
		w.Newline()
		w.Write(f.Source)
	}
	w.Outdent()
	w.Outdent()
	w.Newline()
	w.Write("}")
}

// orderByList renders order-by entries as a comma list. Each entry shows
// the trailing segment of the referenced display name; legacy numeric
// references render their position as-is.
func orderByList(orders []*nodes.Ordering) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		var ref string
		if o.Field == "" && o.Num > 0 {
			ref = strconv.Itoa(o.Num)
		} else {
			ref = quoting.MaybeBacktick(nodes.TrailingSegment(o.Field))
		}
		if d := o.Dir.String(); d != "" {
			ref += " " + d
		}
		parts[i] = ref
	}
	return strings.Join(parts, ", ")
}
