package nodes

import "testing"

// --- Display names ---

func TestFieldNameDisplayName(t *testing.T) {
	t.Parallel()
	f := &FieldName{Path: "origin.city"}
	if got := f.DisplayName(); got != "city" {
		t.Errorf("expected %q, got %q", "city", got)
	}
}

func TestFieldNameDisplayNameNoDots(t *testing.T) {
	t.Parallel()
	f := &FieldName{Path: "carrier"}
	if got := f.DisplayName(); got != "carrier" {
		t.Errorf("expected %q, got %q", "carrier", got)
	}
}

func TestRefinedFieldDisplayNamePrefersRename(t *testing.T) {
	t.Parallel()
	f := &RefinedField{Path: "origin.city", As: "departure_city"}
	if got := f.DisplayName(); got != "departure_city" {
		t.Errorf("expected %q, got %q", "departure_city", got)
	}
}

func TestRefinedFieldDisplayNameFallsBackToPath(t *testing.T) {
	t.Parallel()
	f := &RefinedField{Path: "origin.city"}
	if got := f.DisplayName(); got != "city" {
		t.Errorf("expected %q, got %q", "city", got)
	}
}

func TestNestedAndExpressionDisplayNames(t *testing.T) {
	t.Parallel()
	nq := &NestedQuery{Name: "by_carrier"}
	if nq.DisplayName() != "by_carrier" {
		t.Errorf("unexpected nested query display name %q", nq.DisplayName())
	}
	ex := &ExpressionField{Name: "total", Source: "sum(distance)", Aggregate: true}
	if ex.DisplayName() != "total" {
		t.Errorf("unexpected expression display name %q", ex.DisplayName())
	}
}

// --- Deep copies ---

func TestQueryCopyIsIndependent(t *testing.T) {
	t.Parallel()
	q := NewQuery("flights")
	q.Stages[0].Fields = []FieldRef{
		&RefinedField{Path: "carrier", As: "airline", Filters: []*Filter{{Source: "distance > 100"}}},
		&NestedQuery{Name: "by_city", Stages: []*Stage{{Kind: Reduce, Fields: []FieldRef{&FieldName{Path: "origin.city"}}}}},
	}
	q.Stages[0].OrderBy = []*Ordering{{Field: "airline", Dir: Desc}}
	q.Stages[0].Limit = 10

	c := q.Copy()

	c.Stages[0].Fields[0].(*RefinedField).As = "changed"
	c.Stages[0].Fields[0].(*RefinedField).Filters[0].Source = "changed"
	c.Stages[0].Fields[1].(*NestedQuery).Stages[0].Fields[0].(*FieldName).Path = "changed"
	c.Stages[0].OrderBy[0].Field = "changed"

	if q.Stages[0].Fields[0].(*RefinedField).As != "airline" {
		t.Error("copy shares refined field rename with original")
	}
	if q.Stages[0].Fields[0].(*RefinedField).Filters[0].Source != "distance > 100" {
		t.Error("copy shares filter with original")
	}
	if q.Stages[0].Fields[1].(*NestedQuery).Stages[0].Fields[0].(*FieldName).Path != "origin.city" {
		t.Error("copy shares nested pipeline with original")
	}
	if q.Stages[0].OrderBy[0].Field != "airline" {
		t.Error("copy shares ordering with original")
	}
}

func TestNewQueryHasOneEmptyStage(t *testing.T) {
	t.Parallel()
	q := NewQuery("flights")
	if len(q.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(q.Stages))
	}
	if q.Stages[0].Kind != Reduce {
		t.Errorf("expected reduce stage, got %s", q.Stages[0].Kind)
	}
	if len(q.Stages[0].Fields) != 0 {
		t.Error("expected no fields in a blank query")
	}
}

// --- Paths ---

func TestStagePathString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path StagePath
		want string
	}{
		{nil, "0"},
		{StagePath{Seg(1)}, "1"},
		{StagePath{SegField(0, 2), Seg(1)}, "0:2/1"},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.want {
			t.Errorf("path %#v: expected %q, got %q", tt.path, tt.want, got)
		}
	}
}

func TestStagePathNest(t *testing.T) {
	t.Parallel()
	p := StagePath{Seg(0)}
	nested := p.Nest(2, 1)

	if len(nested) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(nested))
	}
	if nested[0] != SegField(0, 2) || nested[1] != Seg(1) {
		t.Errorf("unexpected nested path %v", nested)
	}
	// The original path must be untouched.
	if p[0].Field != NoField {
		t.Error("Nest modified its receiver")
	}
}

func TestStagePathNestFromEmpty(t *testing.T) {
	t.Parallel()
	var p StagePath
	nested := p.Nest(1, 0)
	if nested.String() != "0:1/0" {
		t.Errorf("expected %q, got %q", "0:1/0", nested.String())
	}
}
