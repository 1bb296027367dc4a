package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/observability"
)

// ComputeLayout places every item of m into the grid described by opts.
// It does not consult any cache.
func ComputeLayout(ctx context.Context, m *items.Manifest, opts Options) (*grid.State, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return ComputeEngine(ctx, grid.NewEngine(grid.WithLogger(opts.Logger)), m, opts)
}

// ComputeEngine runs e.Compute for m under the geometry in opts and reports
// the pass to the layout hooks. An engine that already holds placements
// returns them unchanged.
func ComputeEngine(ctx context.Context, e *grid.Engine, m *items.Manifest, opts Options) (*grid.State, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	m = applyCaption(m, opts)

	hooks := observability.Layout()
	hooks.OnComputeStart(ctx, opts.Columns, m.Len())
	start := time.Now()

	in, err := m.Input(opts.Columns, opts.Width)
	var s *grid.State
	if err == nil {
		s, err = e.Compute(in)
	}

	hooks.OnComputeComplete(ctx, opts.Columns, m.Len(), time.Since(start), err)
	return s, err
}

// Query returns the placements of s that intersect r and reports the query
// to the layout hooks.
func Query(ctx context.Context, s *grid.State, r grid.Rect) []grid.Placement {
	start := time.Now()
	ps := s.PlacementsIntersecting(r)
	observability.Layout().OnQuery(ctx, len(ps), time.Since(start))
	return ps
}

// applyCaption returns m with the caption override from opts applied,
// leaving the caller's manifest untouched.
func applyCaption(m *items.Manifest, opts Options) *items.Manifest {
	if opts.CaptionHeight <= 0 || opts.CaptionHeight == m.CaptionHeight {
		return m
	}
	cp := *m
	cp.CaptionHeight = opts.CaptionHeight
	return &cp
}
