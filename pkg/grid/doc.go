// Package grid computes masonry-style column layouts.
//
// A layout places an ordered sequence of items into a fixed number of
// equal-width columns. Items are dealt to columns in round-robin order
// (item i goes to column i mod n) and stacked top-down within their column,
// so every column fills independently and the content height is the
// tallest column.
//
// # Heights
//
// The engine never measures anything itself. Callers inject a [HeightOracle]
// that reports each item's height at the computed column width:
//
//	in := grid.Input{
//	    Columns: 2,
//	    Width:   100,
//	    Count:   4,
//	    Heights: grid.Heights{10, 20, 30, 40},
//	}
//	state, err := grid.Compute(in)
//
// [ColumnWidth] returns the width an oracle should measure against before
// the layout is computed.
//
// # Engine
//
// [Compute] is pure. [Engine] wraps it for a hosting view: it caches the last
// [State], skips recomputation while that cache is populated, and answers
// visibility queries via [Engine.PlacementsIntersecting]. The host must call
// [Engine.Invalidate] whenever the data set or geometry changes; the engine
// has no way to notice on its own.
//
// Engines are not safe for concurrent use.
package grid
