package grid

import (
	"math"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

// Input describes one layout pass.
type Input struct {
	// Columns is the number of vertical columns. Must be at least 1.
	Columns int
	// Width is the total container width. Must be positive and finite.
	Width float64
	// Count is the number of items to place.
	Count int
	// Heights reports each item's height at the column width.
	// May be nil only when Count is 0.
	Heights HeightOracle
}

// Placement is the computed frame of a single item.
type Placement struct {
	Index  int  `json:"index"`
	Column int  `json:"column"`
	Frame  Rect `json:"frame"`
}

// State is the result of a layout pass: every placement in index order plus
// the overall content height. A State is immutable once returned; accessors
// hand out copies.
type State struct {
	columns       int
	width         float64
	placements    []Placement
	contentHeight float64
}

// ColumnWidth returns the width of a single column for the given container
// geometry.
func ColumnWidth(width float64, columns int) (float64, error) {
	if err := validateGeometry(width, columns); err != nil {
		return 0, err
	}
	return width / float64(columns), nil
}

// Compute lays out in.Count items into in.Columns columns.
//
// Items are assigned round-robin: item i goes to column i mod Columns and is
// stacked directly below the previous item of that column. Columns are not
// balanced by height.
//
// Compute fails with an INVALID_CONFIGURATION error when the geometry or the
// item count is unusable, and with INVALID_HEIGHT when the oracle reports a
// negative or non-finite height. It never returns a partial State.
func Compute(in Input) (*State, error) {
	if err := validateGeometry(in.Width, in.Columns); err != nil {
		return nil, err
	}
	if in.Count < 0 {
		return nil, merrors.New(merrors.ErrCodeInvalidConfiguration, "item count cannot be negative, got %d", in.Count)
	}
	if in.Heights == nil && in.Count > 0 {
		return nil, merrors.New(merrors.ErrCodeInvalidConfiguration, "height oracle is required for %d items", in.Count)
	}

	columnWidth := in.Width / float64(in.Columns)

	xOffsets := make([]float64, in.Columns)
	for c := range xOffsets {
		xOffsets[c] = float64(c) * columnWidth
	}
	yOffsets := make([]float64, in.Columns)

	s := &State{
		columns:    in.Columns,
		width:      in.Width,
		placements: make([]Placement, 0, in.Count),
	}

	column := 0
	for i := 0; i < in.Count; i++ {
		h := in.Heights.Height(i)
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return nil, merrors.New(merrors.ErrCodeInvalidHeight, "item %d has invalid height %v", i, h)
		}

		frame := Rect{X: xOffsets[column], Y: yOffsets[column], Width: columnWidth, Height: h}
		s.placements = append(s.placements, Placement{Index: i, Column: column, Frame: frame})
		s.contentHeight = max(s.contentHeight, frame.MaxY())
		yOffsets[column] += h

		column = (column + 1) % in.Columns
	}
	return s, nil
}

// Restore rebuilds a State from previously computed placements, for example
// after decoding a serialized layout. The placements must be in index order
// starting at 0, must agree with the column geometry, and must stack within
// each column without gaps or overlaps.
func Restore(columns int, width float64, placements []Placement) (*State, error) {
	if err := validateGeometry(width, columns); err != nil {
		return nil, err
	}
	columnWidth := width / float64(columns)

	s := &State{
		columns:    columns,
		width:      width,
		placements: make([]Placement, len(placements)),
	}
	yOffsets := make([]float64, columns)
	for i, p := range placements {
		switch {
		case p.Index != i:
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "placement %d has index %d", i, p.Index)
		case p.Column < 0 || p.Column >= columns:
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "placement %d has column %d outside [0, %d)", i, p.Column, columns)
		case p.Frame.Width != columnWidth || p.Frame.X != float64(p.Column)*columnWidth:
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "placement %d does not match column geometry", i)
		case p.Frame.Height < 0 || math.IsNaN(p.Frame.Height) || math.IsInf(p.Frame.Height, 0):
			return nil, merrors.New(merrors.ErrCodeInvalidHeight, "placement %d has invalid height %v", i, p.Frame.Height)
		case p.Frame.Y != yOffsets[p.Column]:
			return nil, merrors.New(merrors.ErrCodeInvalidInput, "placement %d starts at y=%v, column %d ends at %v", i, p.Frame.Y, p.Column, yOffsets[p.Column])
		}
		yOffsets[p.Column] += p.Frame.Height
		s.placements[i] = p
		s.contentHeight = max(s.contentHeight, p.Frame.MaxY())
	}
	return s, nil
}

func validateGeometry(width float64, columns int) error {
	if columns <= 0 {
		return merrors.New(merrors.ErrCodeInvalidConfiguration, "column count must be positive, got %d", columns)
	}
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return merrors.New(merrors.ErrCodeInvalidConfiguration, "container width must be positive and finite, got %v", width)
	}
	return nil
}

// Columns returns the number of columns.
func (s *State) Columns() int { return s.columns }

// Width returns the container width.
func (s *State) Width() float64 { return s.width }

// ColumnWidth returns the width shared by every placement.
func (s *State) ColumnWidth() float64 { return s.width / float64(s.columns) }

// Len returns the number of placements.
func (s *State) Len() int { return len(s.placements) }

// ContentHeight returns the bottom edge of the tallest column.
func (s *State) ContentHeight() float64 { return s.contentHeight }

// ContentSize returns the scrollable content size: the container width and
// the content height.
func (s *State) ContentSize() Size {
	return Size{Width: s.width, Height: s.contentHeight}
}

// Placements returns a copy of all placements in index order.
func (s *State) Placements() []Placement {
	out := make([]Placement, len(s.placements))
	copy(out, s.placements)
	return out
}

// Placement returns the placement of item index.
func (s *State) Placement(index int) (Placement, bool) {
	if index < 0 || index >= len(s.placements) {
		return Placement{}, false
	}
	return s.placements[index], true
}

// Column returns the placements assigned to column c, top to bottom.
func (s *State) Column(c int) []Placement {
	if c < 0 || c >= s.columns {
		return nil
	}
	var out []Placement
	for _, p := range s.placements {
		if p.Column == c {
			out = append(out, p)
		}
	}
	return out
}

// PlacementsIntersecting returns every placement whose frame overlaps q,
// in index order. Placements that merely touch q do not count.
func (s *State) PlacementsIntersecting(q Rect) []Placement {
	var out []Placement
	for _, p := range s.placements {
		if p.Frame.Intersects(q) {
			out = append(out, p)
		}
	}
	return out
}
