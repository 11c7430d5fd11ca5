package nodes

import (
	"fmt"
	"strings"
)

// NoField marks a path segment that addresses a stage without descending
// into one of its fields.
const NoField = -1

// PathSegment is one hop of a stage path: a stage index within the current
// pipeline, plus an optional field index selecting a nested query to
// descend into. Every segment but the last must carry a field index.
type PathSegment struct {
	Stage int
	Field int
}

// Seg returns a terminal segment addressing a stage.
func Seg(stage int) PathSegment {
	return PathSegment{Stage: stage, Field: NoField}
}

// SegField returns a descending segment addressing a field of a stage.
func SegField(stage, field int) PathSegment {
	return PathSegment{Stage: stage, Field: field}
}

// StagePath addresses a stage anywhere in the tree. It is a pure value,
// recomputed per call and never cached; a nil path addresses the first
// stage of the root pipeline.
type StagePath []PathSegment

// Nest extends the path by descending into a field of its final stage and
// addressing a stage of that field's sub-pipeline. The receiver is not
// modified.
func (p StagePath) Nest(field, stage int) StagePath {
	if len(p) == 0 {
		p = StagePath{Seg(0)}
	}
	out := make(StagePath, len(p), len(p)+1)
	copy(out, p)
	out[len(out)-1].Field = field
	return append(out, Seg(stage))
}

func (p StagePath) String() string {
	if len(p) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteString("/")
		}
		fmt.Fprintf(&sb, "%d", seg.Stage)
		if seg.Field != NoField {
			fmt.Fprintf(&sb, ":%d", seg.Field)
		}
	}
	return sb.String()
}
