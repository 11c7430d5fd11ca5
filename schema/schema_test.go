package schema

import (
	"errors"
	"testing"

	"github.com/bawdo/quarry/nodes"
)

func flights() *Schema {
	return &Schema{
		Name: "flights",
		Fields: []*Field{
			Dim("carrier", "string"),
			Dim("distance", "number"),
			{Name: "origin", Kind: Struct, Fields: []*Field{
				Dim("code", "string"),
				Dim("city", "string"),
			}},
			Calc("flight_count", "number"),
			{Name: "by_carrier", Kind: Query, Pipeline: []*nodes.Stage{{
				Kind: nodes.Reduce,
				Fields: []nodes.FieldRef{
					&nodes.FieldName{Path: "carrier"},
					&nodes.FieldName{Path: "flight_count"},
				},
			}}},
		},
	}
}

// --- ResolveField ---

func TestResolveTopLevelField(t *testing.T) {
	t.Parallel()
	f, err := ResolveField(flights(), "carrier")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Kind != Dimension || f.Type != "string" {
		t.Errorf("unexpected field %+v", f)
	}
}

func TestResolveThroughStruct(t *testing.T) {
	t.Parallel()
	f, err := ResolveField(flights(), "origin.city")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "city" || f.Kind != Dimension {
		t.Errorf("unexpected field %+v", f)
	}
}

func TestResolveThroughNestedQuery(t *testing.T) {
	t.Parallel()
	// Descending through by_carrier projects the schema through its
	// pipeline; the query output exposes carrier and flight_count.
	f, err := ResolveField(flights(), "by_carrier.flight_count")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Kind != Measure {
		t.Errorf("expected measure, got %s", f.Kind)
	}
}

func TestResolveMissingField(t *testing.T) {
	t.Parallel()
	_, err := ResolveField(flights(), "origin.altitude")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestResolveDescendThroughLeaf(t *testing.T) {
	t.Parallel()
	_, err := ResolveField(flights(), "carrier.code")
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

// --- Project ---

func TestProjectRenamesAndClassifies(t *testing.T) {
	t.Parallel()
	stage := &nodes.Stage{Kind: nodes.Reduce, Fields: []nodes.FieldRef{
		&nodes.RefinedField{Path: "origin.city", As: "departure"},
		&nodes.FieldName{Path: "flight_count"},
		&nodes.ExpressionField{Name: "avg_distance", Source: "avg(distance)", Aggregate: true},
	}}

	out := Project(flights(), stage)
	if len(out.Fields) != 3 {
		t.Fatalf("expected 3 output fields, got %d", len(out.Fields))
	}
	if out.Fields[0].Name != "departure" || out.Fields[0].Kind != Dimension {
		t.Errorf("unexpected first field %+v", out.Fields[0])
	}
	if out.Fields[1].Kind != Measure {
		t.Errorf("expected measure, got %s", out.Fields[1].Kind)
	}
	if out.Fields[2].Kind != Measure || out.Fields[2].Source != "avg(distance)" {
		t.Errorf("unexpected expression projection %+v", out.Fields[2])
	}
}

func TestProjectSkipsUnresolvable(t *testing.T) {
	t.Parallel()
	stage := &nodes.Stage{Kind: nodes.Reduce, Fields: []nodes.FieldRef{
		&nodes.FieldName{Path: "no_such_field"},
		&nodes.FieldName{Path: "carrier"},
	}}
	out := Project(flights(), stage)
	if len(out.Fields) != 1 || out.Fields[0].Name != "carrier" {
		t.Errorf("expected only carrier to survive, got %+v", out.Fields)
	}
}

func TestProjectNestedQueryKeepsPipelineCopy(t *testing.T) {
	t.Parallel()
	nested := &nodes.NestedQuery{Name: "by_city", Stages: []*nodes.Stage{{
		Kind:   nodes.Reduce,
		Fields: []nodes.FieldRef{&nodes.FieldName{Path: "origin.city"}},
	}}}
	stage := &nodes.Stage{Kind: nodes.Reduce, Fields: []nodes.FieldRef{nested}}

	out := Project(flights(), stage)
	if len(out.Fields) != 1 || out.Fields[0].Kind != Query {
		t.Fatalf("expected one query field, got %+v", out.Fields)
	}
	// The projected pipeline must be independent of the source tree.
	out.Fields[0].Pipeline[0].Fields[0].(*nodes.FieldName).Path = "changed"
	if nested.Stages[0].Fields[0].(*nodes.FieldName).Path != "origin.city" {
		t.Error("projection shares pipeline with the stage field")
	}
}
