// Package pkg provides the core libraries for Masonry grid layouts.
//
// # Overview
//
// Masonry places an ordered list of items into equal-width columns. Item i
// goes to column i mod N and sits directly below the previous item of that
// column, so column heights may differ. The pkg directory is organized as:
//
//  1. [grid] - Layout engine (placement, cached state, viewport queries)
//  2. [items] - Item manifests (JSON/TOML files, URLs) and height oracles
//  3. [render] - Output formats (JSON, SVG, PNG, PDF)
//  4. [pipeline] - Orchestration (layout → render) with caching
//  5. [api] - HTTP API with per-session layout state
//
// # Architecture
//
// The typical data flow:
//
//	Manifest (file, URL, API request)
//	         ↓
//	    [items] package (validate, derive heights per column width)
//	         ↓
//	    [grid] package (round-robin placement, cached per engine)
//	         ↓
//	    [render] package
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	m, _ := items.Load("photos.json")
//	in, _ := m.Input(3, 960)
//
//	e := grid.NewEngine()
//	s, _ := e.Compute(in)
//	visible, _ := e.PlacementsIntersecting(grid.Rect{Y: 1200, Width: 960, Height: 800})
//
//	svg := render.RenderSVG(s, render.WithItems(m))
//
// # Supporting Packages
//
// [cache] - File, Redis and null caches with typed key builders.
//
// [session] - Sessions pairing a manifest with its layout snapshot, stored in
// memory, files or Redis.
//
// [httputil] - HTTP downloads with retry and backoff.
//
// [observability] - Hooks for layout, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...                              # All tests
//	MASONRY_TEST_REDIS=localhost:6379 go test ./pkg/...  # Include Redis stores
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/grid
// [items]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/items
// [render]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/api
// [cache]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/session
// [httputil]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/buildinfo
package pkg
