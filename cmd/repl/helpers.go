package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/quarry/nodes"
)

// parseIndex parses a single non-negative integer argument.
func parseIndex(args, usage string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}

// parseIndexAndRest parses a leading integer followed by free text.
func parseIndexAndRest(args, usage string) (int, string, error) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("usage: %s", usage)
	}
	i, err := parseIndex(parts[0], usage)
	if err != nil {
		return 0, "", err
	}
	return i, strings.TrimSpace(parts[1]), nil
}

// parseIndexList parses a whitespace-separated permutation.
func parseIndexList(args string) ([]int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return nil, errors.New("expected a list of indexes")
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad index %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func parseDirection(arg string) (nodes.Direction, error) {
	switch strings.ToLower(arg) {
	case "asc":
		return nodes.Asc, nil
	case "desc":
		return nodes.Desc, nil
	}
	return nodes.DirDefault, fmt.Errorf("expected asc or desc, got %q", arg)
}

// splitIsClause splits "name is expr" into its parts.
func splitIsClause(args string) (name, expr string, ok bool) {
	lower := strings.ToLower(args)
	idx := strings.Index(lower, " is ")
	if idx <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(args[:idx])
	expr = strings.TrimSpace(args[idx+4:])
	if name == "" || expr == "" || strings.Contains(name, " ") {
		return "", "", false
	}
	return name, expr, true
}

// parseStagePath parses the textual stage-path form: slash-separated
// hops, each "stage" or "stage:field" (e.g. "0:2/1").
func parseStagePath(arg string) (nodes.StagePath, error) {
	var path nodes.StagePath
	for _, hop := range strings.Split(arg, "/") {
		stagePart, fieldPart, hasField := strings.Cut(hop, ":")
		st, err := strconv.Atoi(stagePart)
		if err != nil || st < 0 {
			return nil, fmt.Errorf("bad stage path %q", arg)
		}
		if !hasField {
			path = append(path, nodes.Seg(st))
			continue
		}
		f, err := strconv.Atoi(fieldPart)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("bad stage path %q", arg)
		}
		path = append(path, nodes.SegField(st, f))
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("bad stage path %q", arg)
	}
	return path, nil
}
