package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
)

// layoutSuffix marks files written by the layout command.
const layoutSuffix = ".layout.json"

// layoutCommand creates the layout command for computing grid layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [items.json|items.toml|URL]",
		Short: "Compute a grid layout from an item manifest",
		Long: `Compute a grid layout from an item manifest.

The manifest lists items with either a fixed height or image dimensions that
are scaled to the column width. Items are dealt round-robin across the columns
and stacked top to bottom. The output is a layout.json file (same format as
'render -f json') that can be queried, rendered or browsed.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.layoutOptions(cmd, &opts); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the manifest, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m, err := c.loadManifest(ctx, runner, input, opts.Refresh)
	if err != nil {
		return fmt.Errorf("load manifest %s: %w", input, err)
	}

	prog := newProgress(c.Logger, "layout")
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d items in %d columns...", m.Len(), opts.Columns))
	spinner.Start()

	s, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := render.RenderJSON(s, render.WithItems(m))
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(input) + layoutSuffix
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("items", s.Len(), "columns", s.Columns(), "cached", cacheHit)

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(s.Len(), s.Columns(), s.ContentHeight(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// outputBase derives an output path prefix from an input file or URL.
func outputBase(input string) string {
	if items.IsURL(input) {
		if u, err := url.Parse(input); err == nil {
			input = path.Base(u.Path)
		}
		if input == "" || input == "/" || input == "." {
			input = "items"
		}
	}
	if strings.HasSuffix(input, layoutSuffix) {
		return strings.TrimSuffix(input, layoutSuffix)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// layoutFile is a decoded layout.json.
type layoutFile struct {
	State    *grid.State
	Manifest *items.Manifest
}

// readLayout loads a file written by the layout command. The returned manifest
// carries the ids and labels stored in the file.
func readLayout(file string) (*layoutFile, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", file, err)
	}
	s, doc, err := render.UnmarshalLayout(data)
	if err != nil {
		return nil, fmt.Errorf("decode layout %s: %w", file, err)
	}

	// Placements are in index order once restored.
	m := &items.Manifest{Items: make([]items.Item, len(doc.Placements))}
	for i, p := range doc.Placements {
		m.Items[i] = items.Item{ID: p.ID, Label: p.Label, Height: p.Height}
	}
	return &layoutFile{State: s, Manifest: m}, nil
}

// isLayoutFile reports whether input names a layout.json file rather than a
// manifest.
func isLayoutFile(input string) bool {
	return !items.IsURL(input) && strings.HasSuffix(input, layoutSuffix)
}
