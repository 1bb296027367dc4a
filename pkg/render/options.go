package render

import (
	"strconv"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
)

// Option configures JSON and SVG rendering.
type Option func(*renderer)

type renderer struct {
	manifest *items.Manifest
	labels   bool
	viewport *grid.Rect
	scale    float64
}

// WithItems attaches the manifest the layout was computed from, so output
// carries item IDs and labels.
func WithItems(m *items.Manifest) Option { return func(r *renderer) { r.manifest = m } }

// WithLabels draws item labels in SVG output.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithViewport restricts output to placements intersecting v. SVG output
// uses v as its view box.
func WithViewport(v grid.Rect) Option { return func(r *renderer) { r.viewport = &v } }

// WithScale sets the PNG scale factor. Defaults to 2.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// placements returns the placements to draw, honoring the viewport.
func (r *renderer) placements(s *grid.State) []grid.Placement {
	if r.viewport != nil {
		return s.PlacementsIntersecting(*r.viewport)
	}
	return s.Placements()
}

func (r *renderer) id(i int) string {
	if r.manifest != nil && i < len(r.manifest.Items) {
		return r.manifest.Items[i].ID
	}
	return strconv.Itoa(i)
}

func (r *renderer) label(i int) string {
	if r.manifest != nil && i < len(r.manifest.Items) {
		if l := r.manifest.Items[i].Label; l != "" {
			return l
		}
	}
	return r.id(i)
}
