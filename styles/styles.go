// Package styles holds the per-field rendering hints the presentation
// layer consults: a display-name keyed mapping to a renderer name, plus
// the lists of renderers a field shape admits.
package styles

// Style is the rendering hint attached to one display name.
type Style struct {
	Renderer string `json:"renderer"`
}

// Mapping maps field display names to styles. A nil mapping is valid and
// empty.
type Mapping map[string]Style

// Lookup returns the style for a display name, if one is set.
func (m Mapping) Lookup(name string) (Style, bool) {
	s, ok := m[name]
	return s, ok
}

// CanRemove reports whether a style entry exists for the display name and
// could therefore be removed.
func (m Mapping) CanRemove(name string) bool {
	_, ok := m[name]
	return ok
}

// QueryRenderers lists the renderers applicable to query-shaped fields.
var QueryRenderers = []string{
	"table",
	"bar_chart",
	"dashboard",
	"line_chart",
	"list",
	"list_detail",
	"point_map",
	"scatter_chart",
	"segment_map",
	"shape_map",
	"sparkline",
}

// ScalarRenderers lists the renderers applicable to scalar-shaped fields.
var ScalarRenderers = []string{
	"number",
	"boolean",
	"bytes",
	"currency",
	"image",
	"link",
	"percent",
	"text",
	"time",
	"url",
}
