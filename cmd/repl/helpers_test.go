package main

import (
	"testing"

	"github.com/bawdo/quarry/nodes"
)

func TestParseStagePath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want nodes.StagePath
	}{
		{"0", nodes.StagePath{nodes.Seg(0)}},
		{"1", nodes.StagePath{nodes.Seg(1)}},
		{"0:2/1", nodes.StagePath{nodes.SegField(0, 2), nodes.Seg(1)}},
		{"0:1/1:0/0", nodes.StagePath{nodes.SegField(0, 1), nodes.SegField(1, 0), nodes.Seg(0)}},
	}
	for _, c := range cases {
		got, err := parseStagePath(c.in)
		if err != nil {
			t.Errorf("parseStagePath(%q): %v", c.in, err)
			continue
		}
		if got.String() != c.want.String() {
			t.Errorf("parseStagePath(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "a", "-1", "0:x", "0:", "/0"} {
		if _, err := parseStagePath(bad); err == nil {
			t.Errorf("parseStagePath(%q): expected an error", bad)
		}
	}
}

func TestSplitIsClause(t *testing.T) {
	t.Parallel()
	name, expr, ok := splitIsClause("total is count()")
	if !ok || name != "total" || expr != "count()" {
		t.Errorf("unexpected split %q %q %v", name, expr, ok)
	}
	if _, _, ok := splitIsClause("total"); ok {
		t.Error("expected failure without an is clause")
	}
	if _, _, ok := splitIsClause("two words is count()"); ok {
		t.Error("expected failure for a multi-word name")
	}
}

func TestParseIndexAndRest(t *testing.T) {
	t.Parallel()
	i, rest, err := parseIndexAndRest("2 distance > 100", "usage")
	if err != nil || i != 2 || rest != "distance > 100" {
		t.Errorf("unexpected parse %d %q %v", i, rest, err)
	}
	if _, _, err := parseIndexAndRest("nope", "usage"); err == nil {
		t.Error("expected an error")
	}
}

func TestParseIndexList(t *testing.T) {
	t.Parallel()
	got, err := parseIndexList("2 0 1")
	if err != nil || len(got) != 3 || got[0] != 2 || got[2] != 1 {
		t.Errorf("unexpected parse %v %v", got, err)
	}
	if _, err := parseIndexList(""); err == nil {
		t.Error("expected an error for an empty list")
	}
}
