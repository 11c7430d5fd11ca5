// Package plugins defines the Transformer interface for query-tree
// middleware applied before rendering.
package plugins

import "github.com/bawdo/quarry/nodes"

// Transformer is the interface query transformation plugins implement.
// Transformers receive a private copy of the tree and may mutate or
// replace it; they never see the editor's live tree.
type Transformer interface {
	TransformQuery(q *nodes.Query) (*nodes.Query, error)
}

// BaseTransformer provides a no-op default. Plugins embed this and
// override TransformQuery.
type BaseTransformer struct{}

func (BaseTransformer) TransformQuery(q *nodes.Query) (*nodes.Query, error) {
	return q, nil
}
