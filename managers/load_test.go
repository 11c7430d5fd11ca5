package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/schema"
)

func TestLoadQueryLimitOverwrites(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	// by_region's first stage carries limit 10; the current stage has
	// none.
	if err := m.LoadQuery("by_region"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := m.GetStage(nil)
	if st.Limit != 10 {
		t.Errorf("expected merged limit 10, got %d", st.Limit)
	}
}

func TestLoadQueryPrependsLoadedFields(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.LoadQuery("by_region"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := displayNames(m.Query())
	// Loaded fields (code, flight_count) come first; carrier does not
	// collide and is retained after them.
	if !equalNames(got, []string{"code", "flight_count", "carrier"}) {
		t.Errorf("unexpected merged fields %v", got)
	}
}

func TestLoadQueryDropsCollidingExistingFields(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "flight_count"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.LoadQuery("by_region"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := displayNames(m.Query())
	if !equalNames(got, []string{"code", "flight_count"}) {
		t.Errorf("expected colliding field dropped, got %v", got)
	}
}

func TestLoadQueryUnionsFiltersBySource(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddFilter(nil, "distance > 100"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddFilter(nil, "carrier = 'AA'"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.LoadQuery("by_region"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := m.GetStage(nil)
	// by_region contributes "distance > 100", already present.
	if len(st.Filters) != 2 {
		t.Errorf("expected filters deduplicated by source, got %+v", st.Filters)
	}
}

func TestLoadQueryReplacesOrdering(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddOrderBy(nil, 0, nodes.Asc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.LoadQuery("by_region"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := m.GetStage(nil)
	if len(st.OrderBy) != 1 || st.OrderBy[0].Field != "flight_count" || st.OrderBy[0].Dir != nodes.Desc {
		t.Errorf("expected the loaded ordering to replace the existing one, got %+v", st.OrderBy)
	}
}

func TestLoadQueryCopiesDeepStagesIntoFlatTree(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.LoadQuery("top_then_detail"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(m.Query().Stages); got != 2 {
		t.Errorf("expected 2 stages, got %d", got)
	}
}

func TestLoadQueryDeepStageConflict(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddStage(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := m.LoadQuery("top_then_detail")
	if !errors.Is(err, ErrMergeConflict) {
		t.Errorf("expected ErrMergeConflict, got %v", err)
	}
}

func TestLoadQueryConflictLeavesTreeUntouched(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddStage(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := displayNames(m.Query())
	if err := m.LoadQuery("top_then_detail"); err == nil {
		t.Fatal("expected merge conflict")
	}
	if !equalNames(displayNames(m.Query()), before) {
		t.Error("failed merge mutated the tree")
	}
}

func TestLoadQueryNonQueryPathFails(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.LoadQuery("carrier"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}
	if err := m.LoadQuery("nope"); !errors.Is(err, schema.ErrFieldNotFound) {
		t.Errorf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestLoadedCopyIsIndependentOfSchema(t *testing.T) {
	t.Parallel()
	s := flightsSchema()
	m := NewQueryManager(s)
	if err := m.LoadQuery("by_region"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.RemoveField(nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := s.Field("by_region")
	if len(def.Pipeline[0].Fields) != 2 {
		t.Error("editing the loaded tree mutated the schema definition")
	}
}

func TestReplaceQueryCarriesFilters(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddFilter(nil, "carrier = 'UA'"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := m.Schema().Field("by_carrier")
	if err := m.ReplaceQuery(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := m.GetStage(nil)
	if len(st.Filters) != 1 || st.Filters[0].Source != "carrier = 'UA'" {
		t.Errorf("expected pending filter carried onto the new first stage, got %+v", st.Filters)
	}
	if m.Name() != "by_carrier" {
		t.Errorf("expected query renamed to %q, got %q", "by_carrier", m.Name())
	}
}

func TestReplaceQueryDropsFiltersWhenFieldsExist(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddFilter(nil, "carrier = 'UA'"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.ReplaceQuery(m.Schema().Field("by_carrier")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ := m.GetStage(nil)
	if len(st.Filters) != 0 {
		t.Errorf("expected no carried filters, got %+v", st.Filters)
	}
}

func TestCanRun(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if m.CanRun() {
		t.Error("blank query must not be runnable")
	}
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.CanRun() {
		t.Error("query with an output field must be runnable")
	}
}
