// Package quarry is a programmatic builder for Malloy-style pipeline
// queries. A QueryManager edits a mutable stage tree against a source
// schema; visitors render the tree as query text or summarize it for a
// presentation layer. The root package re-exports the common entry
// points so that typical use needs a single import.
package quarry

import (
	"github.com/bawdo/quarry/managers"
	"github.com/bawdo/quarry/nodes"
	"github.com/bawdo/quarry/schema"
	"github.com/bawdo/quarry/styles"
	"github.com/bawdo/quarry/visitors"
)

// QueryManager is the stateful tree editor.
type QueryManager = managers.QueryManager

// Schema describes a query source.
type Schema = schema.Schema

// StagePath addresses a stage in the tree.
type StagePath = nodes.StagePath

// NewQueryManager creates an editor holding a blank query against the
// given schema.
func NewQueryManager(s *schema.Schema) *QueryManager {
	return managers.NewQueryManager(s)
}

// Render pretty-prints a manager's current query as source text.
func Render(m *QueryManager, opts ...visitors.TextOption) string {
	return visitors.NewTextVisitor(m.Schema(), opts...).Render(m.Query())
}

// Summarize builds the structural summary of a manager's current query.
func Summarize(m *QueryManager, styleMap styles.Mapping) *visitors.Summary {
	return visitors.NewSummaryVisitor(m.Schema(), styleMap).Summarize(m.Query())
}
