package pipeline

import (
	"context"
	"fmt"
	"time"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/render"
)

// Render generates output artifacts in the requested formats. m may be nil,
// in which case placements are identified by index.
func Render(ctx context.Context, s *grid.State, m *items.Manifest, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(s, renderOptions(m, opts), opts.Formats)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(s *grid.State, ropts []render.Option, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = render.RenderJSON(s, ropts...)
		case FormatSVG:
			data = render.RenderSVG(s, ropts...)
		case FormatPNG:
			data, err = render.RenderPNG(s, ropts...)
		case FormatPDF:
			data, err = render.RenderPDF(s, ropts...)
		default:
			return nil, merrors.New(merrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOptions(m *items.Manifest, opts Options) []render.Option {
	var ropts []render.Option
	if m != nil {
		ropts = append(ropts, render.WithItems(m))
	}
	if opts.Labels {
		ropts = append(ropts, render.WithLabels())
	}
	if opts.Viewport != nil {
		ropts = append(ropts, render.WithViewport(*opts.Viewport))
	}
	return ropts
}
