package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
)

// renderCommand creates the render command for generating output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		rect       string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [layout.json|items.json|URL]",
		Short: "Render a layout to SVG, PNG, PDF or JSON",
		Long: `Render a layout to SVG, PNG, PDF or JSON.

The input is either a layout.json file written by 'layout' or a manifest, in
which case the layout is computed with the geometry flags first. PNG and PDF
output require rsvg-convert on the PATH.

Use --rect to clip the output to a viewport.`,
		Example: `  masonry render photos.json -c 3 -f svg,png
  masonry render photos.layout.json --labels --rect 0,0,800,600 -o top.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = pipeline.ParseFormats(formatsStr)
			if rect != "" {
				r, err := parseRect(rect)
				if err != nil {
					return err
				}
				opts.Viewport = &r
			}
			if err := c.layoutOptions(cmd, &opts); err != nil {
				return err
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatSVG, "output format(s): svg, json, png, pdf (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw item labels")
	cmd.Flags().StringVarP(&rect, "rect", "r", "", "clip to a viewport given as x,y,width,height")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts and artifacts")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if needsRSVG(opts.Formats) && !render.RSVGAvailable() {
		printWarning("rsvg-convert not found; PNG and PDF output will fail")
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger, "render")

	lf, err := c.openLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, lf.State, lf.Manifest, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		if merrors.Is(err, merrors.ErrCodeUnsupported) {
			printDetail("Install librsvg (rsvg-convert) for PNG and PDF output")
		}
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], artifacts[format]); err != nil {
			return err
		}
	}
	prog.done("formats", len(opts.Formats), "items", lf.State.Len(), "cached", renderHit)

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(lf.State.Len(), lf.State.Columns(), lf.State.ContentHeight(), renderHit)

	return nil
}

// outputPaths maps each format to its output file. A single format writes to
// output as given; several formats treat output as a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = outputBase(input)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	// base.json is usually the manifest itself.
	if _, ok := paths[pipeline.FormatJSON]; ok {
		paths[pipeline.FormatJSON] = base + ".render.json"
	}
	return paths
}

func needsRSVG(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatPNG) || slices.Contains(formats, pipeline.FormatPDF)
}

// writeArtifact writes data to path.
func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
