package managers

import (
	"errors"
	"fmt"

	"github.com/bawdo/quarry/nodes"
)

var (
	// ErrInvalidOperation reports an edit unsupported for the addressed
	// stage or field kind. Only reduce stages accept structural edits.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrMergeConflict reports a loaded query whose deep stages cannot
	// be merged into the current tree.
	ErrMergeConflict = errors.New("merge conflict")
)

// Reasons carried by PathError. ReasonNotAStage is exported because it
// identifies the promotable case callers may want to distinguish.
const (
	ReasonNotAStage     = "field does not address a nested query"
	reasonStageRange    = "stage index out of range"
	reasonFieldRange    = "field index out of range"
	reasonMissingField  = "intermediate hop is missing a field index"
	reasonTrailingField = "final hop must not carry a field index"
)

// PathError reports a stage path that could not be resolved. Path holds
// the hops up to and including the one that failed.
type PathError struct {
	Path   nodes.StagePath
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("stage path %s: %s", e.Path, e.Reason)
}
