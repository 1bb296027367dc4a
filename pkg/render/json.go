package render

import (
	"encoding/json"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
)

// Document is the JSON form of a layout.
type Document struct {
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Columns     int            `json:"columns"`
	ColumnWidth float64        `json:"column_width"`
	Viewport    *grid.Rect     `json:"viewport,omitempty"`
	Placements  []PlacementDoc `json:"placements"`
}

// PlacementDoc is one placement in a [Document].
type PlacementDoc struct {
	Index  int     `json:"index"`
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BuildDocument converts a State into its JSON document form.
func BuildDocument(s *grid.State, opts ...Option) Document {
	r := newRenderer(opts...)
	size := s.ContentSize()

	return Document{
		Width:       size.Width,
		Height:      size.Height,
		Columns:     s.Columns(),
		ColumnWidth: s.ColumnWidth(),
		Viewport:    r.viewport,
		Placements:  r.docs(r.placements(s)),
	}
}

// PlacementDocs converts placements into their JSON form. Only [WithItems]
// affects the result.
func PlacementDocs(ps []grid.Placement, opts ...Option) []PlacementDoc {
	r := newRenderer(opts...)
	return r.docs(ps)
}

func (r *renderer) docs(ps []grid.Placement) []PlacementDoc {
	out := make([]PlacementDoc, len(ps))
	for i, p := range ps {
		pd := PlacementDoc{
			Index:  p.Index,
			ID:     r.id(p.Index),
			Column: p.Column,
			X:      p.Frame.X,
			Y:      p.Frame.Y,
			Width:  p.Frame.Width,
			Height: p.Frame.Height,
		}
		if l := r.label(p.Index); l != pd.ID {
			pd.Label = l
		}
		out[i] = pd
	}
	return out
}

// RenderJSON encodes a State as indented JSON.
func RenderJSON(s *grid.State, opts ...Option) ([]byte, error) {
	return json.MarshalIndent(BuildDocument(s, opts...), "", "  ")
}

// UnmarshalLayout decodes JSON written by [RenderJSON] and restores the
// State it describes. Viewport-clipped documents cannot be restored.
func UnmarshalLayout(data []byte) (*grid.State, *Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, merrors.Wrap(merrors.ErrCodeInvalidFormat, err, "decode layout json")
	}
	if doc.Viewport != nil {
		return nil, nil, merrors.New(merrors.ErrCodeInvalidInput, "layout json is clipped to a viewport and cannot be restored")
	}

	ps := make([]grid.Placement, len(doc.Placements))
	for i, p := range doc.Placements {
		ps[i] = grid.Placement{
			Index:  p.Index,
			Column: p.Column,
			Frame:  grid.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height},
		}
	}
	s, err := grid.Restore(doc.Columns, doc.Width, ps)
	if err != nil {
		return nil, nil, err
	}
	return s, &doc, nil
}
