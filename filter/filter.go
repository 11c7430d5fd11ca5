// Package filter parses free-text filter predicates into a minimal
// structured form. A source that does not parse is not an error: the
// caller renders it verbatim with no structural decomposition.
package filter

import (
	"regexp"
	"strings"
)

// Parsed is the structured form of a simple comparison predicate.
type Parsed struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

var fieldPath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Operators recognised by Parse, longest first so that ">=" wins over ">".
var operators = []string{">=", "<=", "!=", "=", ">", "<", "~"}

// Parse decomposes a predicate of the form "path op value". It returns
// nil for anything it does not understand; such filters are render-only.
func Parse(source string) *Parsed {
	s := strings.TrimSpace(source)
	if s == "" {
		return nil
	}
	for _, op := range operators {
		i := indexOutsideQuotes(s, op)
		if i <= 0 {
			continue
		}
		field := strings.TrimSpace(s[:i])
		value := strings.TrimSpace(s[i+len(op):])
		if !fieldPath.MatchString(field) || value == "" {
			return nil
		}
		return &Parsed{Field: field, Op: op, Value: value}
	}
	return nil
}

// indexOutsideQuotes finds op in s, ignoring occurrences inside single- or
// double-quoted regions.
func indexOutsideQuotes(s, op string) int {
	var quote byte
	for i := 0; i+len(op) <= len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if s[i:i+len(op)] == op {
			return i
		}
	}
	return -1
}
