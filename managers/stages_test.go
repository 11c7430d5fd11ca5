package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/quarry/nodes"
)

func TestAddStageAppendsToRootPipeline(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddStage(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(m.Query().Stages); got != 2 {
		t.Errorf("expected 2 stages, got %d", got)
	}
}

func TestRemoveLastStageReinsertsEmptyStage(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.RemoveStage(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := m.Query()
	if len(q.Stages) != 1 {
		t.Fatalf("expected pipeline length 1, got %d", len(q.Stages))
	}
	if len(q.Stages[0].Fields) != 0 {
		t.Error("expected the reinserted stage to be empty")
	}
}

func TestRemoveMiddleStage(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddStage(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.RemoveStage(nodes.StagePath{nodes.Seg(1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := m.Query()
	if len(q.Stages) != 1 || len(q.Stages[0].Fields) != 1 {
		t.Errorf("expected the first stage to survive, got %+v", q.Stages)
	}
}

func TestAddStageToNestedQueryField(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.InsertField(nil, &nodes.NestedQuery{Name: "sub", Stages: []*nodes.Stage{nodes.NewStage()}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddStageToField(nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nq := m.Query().Stages[0].Fields[0].(*nodes.NestedQuery)
	if len(nq.Stages) != 2 {
		t.Errorf("expected 2 nested stages, got %d", len(nq.Stages))
	}
}

func TestAddStageToFieldPromotesBareReference(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "by_carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddStageToField(nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nq, ok := m.Query().Stages[0].Fields[0].(*nodes.NestedQuery)
	if !ok {
		t.Fatal("expected promotion to a nested query")
	}
	if len(nq.Stages) != 2 {
		t.Errorf("expected definition stage plus the new one, got %d stages", len(nq.Stages))
	}
}

func TestAddStageToFieldRejectsNonQuery(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := m.AddStageToField(nil, 0)
	var perr *PathError
	if !errors.As(err, &perr) || perr.Reason != ReasonNotAStage {
		t.Errorf("expected NotAStage PathError, got %v", err)
	}
}

func TestRemoveNestedStageReinsertsEmptyStage(t *testing.T) {
	t.Parallel()
	m := newManager(t)
	if err := m.AddField(nil, "by_carrier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nested := nodes.StagePath{nodes.SegField(0, 0), nodes.Seg(0)}
	// Promote first so the nested pipeline exists, then remove its only
	// stage.
	if _, err := m.AutoExpand(nested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.RemoveStage(nested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nq := m.Query().Stages[0].Fields[0].(*nodes.NestedQuery)
	if len(nq.Stages) != 1 || len(nq.Stages[0].Fields) != 0 {
		t.Errorf("expected one empty nested stage, got %+v", nq.Stages)
	}
}
