// Package items describes the content laid out by the grid: a manifest of
// cards, each either a fixed-height block or an image with a known aspect
// ratio, optionally followed by a caption band.
//
// A [Manifest] is loaded from JSON or TOML ([Load], [Parse]) or downloaded
// ([Fetcher]). [Manifest.Oracle] adapts it to the grid's height oracle for a
// given column width.
package items

import (
	"math"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
)

// Item is one card in the grid.
type Item struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label,omitempty" toml:"label"`

	// Height is a fixed body height. When zero, the body height is derived
	// from ImageWidth and ImageHeight.
	Height float64 `json:"height,omitempty" toml:"height"`

	ImageWidth  float64 `json:"image_width,omitempty" toml:"image_width"`
	ImageHeight float64 `json:"image_height,omitempty" toml:"image_height"`
}

// HeightAt returns the item body height at the given column width.
func (it Item) HeightAt(columnWidth float64) float64 {
	if it.Height > 0 {
		return it.Height
	}
	if it.ImageWidth > 0 {
		return columnWidth * it.ImageHeight / it.ImageWidth
	}
	return 0
}

// Manifest is an ordered list of items. Order is placement order.
type Manifest struct {
	// CaptionHeight is added below every item body.
	CaptionHeight float64 `json:"caption_height,omitempty" toml:"caption_height"`
	Items         []Item  `json:"items" toml:"items"`
}

// Len returns the number of items.
func (m *Manifest) Len() int { return len(m.Items) }

// IDs returns item IDs in manifest order.
func (m *Manifest) IDs() []string {
	ids := make([]string, len(m.Items))
	for i, it := range m.Items {
		ids[i] = it.ID
	}
	return ids
}

// Labels returns item labels in manifest order, falling back to the ID.
func (m *Manifest) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, it := range m.Items {
		labels[i] = it.Label
		if labels[i] == "" {
			labels[i] = it.ID
		}
	}
	return labels
}

// Validate checks IDs are valid and unique and that every item has a usable
// size.
func (m *Manifest) Validate() error {
	if bad(m.CaptionHeight) {
		return merrors.New(merrors.ErrCodeInvalidManifest, "caption_height must be a non-negative number, got %v", m.CaptionHeight)
	}

	seen := make(map[string]int, len(m.Items))
	for i, it := range m.Items {
		if err := merrors.ValidateItemID(it.ID); err != nil {
			return merrors.Wrap(merrors.ErrCodeInvalidManifest, err, "item %d", i)
		}
		if j, dup := seen[it.ID]; dup {
			return merrors.New(merrors.ErrCodeInvalidManifest, "duplicate item id %q at %d and %d", it.ID, j, i)
		}
		seen[it.ID] = i

		if bad(it.Height) || bad(it.ImageWidth) || bad(it.ImageHeight) {
			return merrors.New(merrors.ErrCodeInvalidManifest, "item %q: sizes must be non-negative numbers", it.ID)
		}
		if it.Height == 0 && (it.ImageWidth == 0 || it.ImageHeight == 0) {
			return merrors.New(merrors.ErrCodeInvalidManifest, "item %q: needs height or both image_width and image_height", it.ID)
		}
	}
	return nil
}

// Oracle returns a height oracle for the manifest at the given column width.
// Each height is the item body plus the caption band.
func (m *Manifest) Oracle(columnWidth float64) grid.HeightOracle {
	return grid.HeightFunc(func(i int) float64 {
		return m.Items[i].HeightAt(columnWidth) + m.CaptionHeight
	})
}

// Input builds a grid input for the whole manifest.
func (m *Manifest) Input(columns int, width float64) (grid.Input, error) {
	cw, err := grid.ColumnWidth(width, columns)
	if err != nil {
		return grid.Input{}, err
	}
	return grid.Input{
		Columns: columns,
		Width:   width,
		Count:   len(m.Items),
		Heights: m.Oracle(cw),
	}, nil
}

func bad(f float64) bool {
	return f < 0 || math.IsNaN(f) || math.IsInf(f, 0)
}
