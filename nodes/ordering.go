package nodes

// Direction is the sort direction of an ordering entry.
type Direction int

const (
	DirDefault Direction = iota
	Asc
	Desc
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	}
	return ""
}

// Ordering references a same-stage field by its current display name.
// Legacy inputs may instead carry a 1-based position in Num with Field
// empty; editors never produce that form.
type Ordering struct {
	Field string
	Num   int
	Dir   Direction
}

// Copy returns a copy of the ordering entry.
func (o *Ordering) Copy() *Ordering {
	c := *o
	return &c
}
