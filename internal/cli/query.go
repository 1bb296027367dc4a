package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
)

// queryCommand creates the query command for viewport lookups.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		rect    string
		asJSON  bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "query [layout.json|items.json|URL]",
		Short: "List the items visible in a viewport",
		Long: `List the items whose frames intersect a viewport rectangle.

The input is either a layout.json file written by 'layout' or a manifest, in
which case the layout is computed first. Items that merely touch the viewport
edge are not reported.`,
		Example: `  masonry query photos.layout.json --rect 0,0,800,600
  masonry query photos.json -c 3 --rect 0,1200,960,600 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRect(rect)
			if err != nil {
				return err
			}
			if err := c.layoutOptions(cmd, &opts); err != nil {
				return err
			}
			return c.runQuery(cmd.Context(), args[0], r, opts, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&rect, "rect", "r", "", "viewport as x,y,width,height (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print placements as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)
	_ = cmd.MarkFlagRequired("rect")

	return cmd
}

func (c *CLI) runQuery(ctx context.Context, input string, r grid.Rect, opts pipeline.Options, asJSON, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	lf, err := c.openLayout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	visible := pipeline.Query(ctx, lf.State, r)
	docs := render.PlacementDocs(visible, render.WithItems(lf.Manifest))

	if asJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		printInfo("No items intersect %s", formatRect(r))
		return nil
	}
	printSuccess("%s of %d items intersect %s", StyleHighlight.Render(strconv.Itoa(len(docs))), lf.State.Len(), formatRect(r))
	fmt.Println(placementTable(docs))
	return nil
}

// openLayout returns the layout for input, reading a layout.json directly or
// computing one from a manifest.
func (c *CLI) openLayout(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*layoutFile, error) {
	if isLayoutFile(input) {
		return readLayout(input)
	}

	m, err := c.loadManifest(ctx, runner, input, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", input, err)
	}
	s, err := runner.ComputeLayout(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	return &layoutFile{State: s, Manifest: m}, nil
}

// placementTable renders placements as a bordered table.
func placementTable(docs []render.PlacementDoc) string {
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{
			strconv.Itoa(d.Index),
			d.ID,
			strconv.Itoa(d.Column),
			formatLength(d.X),
			formatLength(d.Y),
			formatLength(d.Width),
			formatLength(d.Height),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Col", "X", "Y", "W", "H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleValue
			default:
				return StyleNumber
			}
		})
	return t.Render()
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (grid.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return grid.Rect{}, merrors.New(merrors.ErrCodeInvalidInput, "rect must be x,y,width,height, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return grid.Rect{}, merrors.Wrap(merrors.ErrCodeInvalidInput, err, "rect component %q", p)
		}
		v[i] = f
	}
	return grid.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func formatRect(r grid.Rect) string {
	return fmt.Sprintf("(%s, %s, %s×%s)", formatLength(r.X), formatLength(r.Y), formatLength(r.Width), formatLength(r.Height))
}
