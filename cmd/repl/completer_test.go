package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/bawdo/quarry/schema"
)

func doComplete(t *testing.T, s *Session, line string) []string {
	t.Helper()
	c := &replCompleter{sess: s}
	runes := []rune(line)
	newLine, length := c.Do(runes, len(runes))
	prefix := string(runes[len(runes)-length:])
	var out []string
	for _, suffix := range newLine {
		out = append(out, prefix+strings.TrimRight(string(suffix), " "))
	}
	return out
}

func TestCompleteCommands(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)
	got := doComplete(t, s, "re")
	for _, want := range []string{"refine", "rename", "reorder", "replace", "reset"} {
		if !contains(got, want) {
			t.Errorf("expected %q in %v", want, got)
		}
	}
}

func TestCompleteFieldPaths(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)
	if got := doComplete(t, s, "add ca"); !reflect.DeepEqual(got, []string{"carrier"}) {
		t.Errorf("unexpected candidates %v", got)
	}
	got := doComplete(t, s, "toggle ")
	for _, want := range []string{"carrier", "distance", "flight_count"} {
		if !contains(got, want) {
			t.Errorf("expected %q in %v", want, got)
		}
	}
}

func TestCompleteDottedPathDescendsStruct(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)
	// Declare a struct by hand; the dim/measure commands only make leaves.
	s.schema.Fields = append(s.schema.Fields, structField("origin", "code", "city"))
	got := doComplete(t, s, "add origin.c")
	for _, want := range []string{"origin.city", "origin.code"} {
		if !contains(got, want) {
			t.Errorf("expected %q in %v", want, got)
		}
	}
}

func TestCompleteDirectionAfterOrderIndex(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)
	if got := doComplete(t, s, "order 1 d"); !reflect.DeepEqual(got, []string{"desc"}) {
		t.Errorf("unexpected candidates %v", got)
	}
}

func TestCompleteModeAndEngine(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)
	if got := doComplete(t, s, "mode n"); !reflect.DeepEqual(got, []string{"notebook"}) {
		t.Errorf("unexpected candidates %v", got)
	}
	if got := doComplete(t, s, "engine p"); !reflect.DeepEqual(got, []string{"postgres"}) {
		t.Errorf("unexpected candidates %v", got)
	}
}

func TestCompleteStyleRenderer(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t)
	got := doComplete(t, s, "style carrier bar")
	if !reflect.DeepEqual(got, []string{"bar_chart"}) {
		t.Errorf("unexpected candidates %v", got)
	}
}

func TestCompleteWithoutSourceIsEmpty(t *testing.T) {
	t.Parallel()
	s := NewSession("sqlite", nil)
	s.out = &bytes.Buffer{}
	if got := doComplete(t, s, "add "); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}

func structField(name string, members ...string) *schema.Field {
	f := &schema.Field{Name: name, Kind: schema.Struct}
	for _, m := range members {
		f.Fields = append(f.Fields, schema.Dim(m, "string"))
	}
	return f
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
