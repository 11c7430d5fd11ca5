package main

import (
	"sort"
	"strings"

	"github.com/bawdo/quarry/schema"
	"github.com/bawdo/quarry/styles"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextFieldPath                          // after add/toggle/where/load/replace
	contextTableName                          // after source/peek
	contextEngine                             // after engine/set_engine
	contextMode                               // after mode
	contextDirection                          // after an order index
	contextRenderer                           // second arg of style
)

var engineNames = []string{"mysql", "postgres", "sqlite"}
var modeNames = []string{"notebook", "query", "source"}
var directionNames = []string{"asc", "desc"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextFieldPath:
		candidates = c.completeFieldPaths(prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextEngine:
		candidates = filterPrefix(engineNames, prefix)
	case contextMode:
		candidates = filterPrefix(modeNames, prefix)
	case contextDirection:
		candidates = filterPrefix(directionNames, prefix)
	case contextRenderer:
		candidates = c.completeRenderers(prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		// Add trailing space for convenience.
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	// Default: command completion.
	return contextCommand, strings.TrimSpace(line)
}

// completeTableNames returns introspected DB table names matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	if c.sess.conn == nil {
		return nil
	}
	names := append([]string(nil), c.sess.conn.schemaTables()...)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// completeFieldPaths completes dotted paths against the session's source
// schema, descending into structures and query outputs after each dot.
func (c *replCompleter) completeFieldPaths(prefix string) []string {
	if c.sess.schema == nil {
		return nil
	}

	container := c.sess.schema
	base := ""
	if i := strings.LastIndex(prefix, "."); i >= 0 {
		containerPath := prefix[:i]
		base = prefix[:i+1]
		def, err := schema.ResolveField(c.sess.schema, containerPath)
		if err != nil {
			return nil
		}
		container = containerFields(c.sess.schema, def)
		if container == nil {
			return nil
		}
	}

	var candidates []string
	for _, f := range container.Fields {
		candidates = append(candidates, base+f.Name)
	}
	sort.Strings(candidates)
	return filterPrefix(candidates, prefix)
}

// containerFields returns the schema a dotted path descends into: a
// structure's members, or a query's output (its pipeline projected against
// the root).
func containerFields(root *schema.Schema, def *schema.Field) *schema.Schema {
	switch def.Kind {
	case schema.Struct:
		return &schema.Schema{Name: def.Name, Fields: def.Fields}
	case schema.Query:
		cur := root
		for _, st := range def.Pipeline {
			cur = schema.Project(cur, st)
		}
		return cur
	}
	return nil
}

func (c *replCompleter) completeRenderers(prefix string) []string {
	names := append([]string(nil), styles.QueryRenderers...)
	names = append(names, styles.ScalarRenderers...)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace-separated token, handling commas.
func lastToken(s string) string {
	lastSep := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == ',' || s[i] == '\t' {
			lastSep = i
			break
		}
	}
	if lastSep >= 0 {
		return s[lastSep+1:]
	}
	return s
}
