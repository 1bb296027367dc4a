package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// Browser styles
var (
	browseCardStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorCyan),
		lipgloss.NewStyle().Foreground(colorGreen),
		lipgloss.NewStyle().Foreground(colorYellow),
		lipgloss.NewStyle().Foreground(colorBlue),
	}
	browseErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// browseChrome is the number of terminal rows used by the header and footer.
const browseChrome = 2

// browseCommand creates the browse command, an interactive terminal viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "browse [items.json|layout.json|URL]",
		Short: "Scroll through a layout in the terminal",
		Long: `Scroll through a layout in the terminal.

Only the items intersecting the visible window are drawn. When the input is a
manifest, + and - change the column count and recompute the layout.

Keys: ↑/↓ or j/k scroll, pgup/pgdown page, g/G top/bottom, +/- columns, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.layoutOptions(cmd, &opts); err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	var (
		m      *items.Manifest
		engine = grid.NewEngine(grid.WithLogger(c.Logger))
		fixed  bool
	)

	if isLayoutFile(input) {
		lf, err := readLayout(input)
		if err != nil {
			return err
		}
		m = lf.Manifest
		engine.Load(lf.State)
		fixed = true
	} else {
		runner, err := c.newRunner(noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		m, err = c.loadManifest(ctx, runner, input, false)
		runner.Close()
		if err != nil {
			return fmt.Errorf("load manifest %s: %w", input, err)
		}
		if _, err := pipeline.ComputeEngine(ctx, engine, m, opts); err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
	}

	// Log output would tear the alternate screen.
	opts.Logger = log.New(io.Discard)

	model := newBrowseModel(ctx, engine, m, opts, fixed)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// browseModel - Interactive layout viewer
// =============================================================================

// browseModel is the bubbletea model for the layout viewer. The viewport is
// always the full layout width; offset is its top edge in layout units.
type browseModel struct {
	ctx      context.Context
	engine   *grid.Engine
	manifest *items.Manifest
	labels   []string
	opts     pipeline.Options
	fixed    bool

	offset float64
	width  int
	height int
	err    error
}

func newBrowseModel(ctx context.Context, e *grid.Engine, m *items.Manifest, opts pipeline.Options, fixed bool) browseModel {
	if s := e.State(); s != nil {
		opts.Columns = s.Columns()
		opts.Width = s.Width()
	}
	return browseModel{
		ctx:      ctx,
		engine:   e,
		manifest: m,
		labels:   m.Labels(),
		opts:     opts,
		fixed:    fixed,
		width:    80,
		height:   24,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll(-m.unitsPerRow())
		case "down", "j":
			m.scroll(m.unitsPerRow())
		case "pgup", "b":
			m.scroll(-m.viewport().Height)
		case "pgdown", " ", "f":
			m.scroll(m.viewport().Height)
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.scroll(math.Inf(1))
		case "+", "=":
			m.setColumns(m.opts.Columns + 1)
		case "-", "_":
			m.setColumns(m.opts.Columns - 1)
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 10)
		m.height = max(msg.Height, browseChrome+1)
		m.scroll(0)
	}
	return m, nil
}

// scroll moves the viewport by delta layout units, clamped to the content.
func (m *browseModel) scroll(delta float64) {
	size, err := m.engine.ContentSize()
	if err != nil {
		m.err = err
		return
	}
	limit := max(size.Height-m.viewport().Height, 0)
	m.offset = min(max(m.offset+delta, 0), limit)
}

// setColumns invalidates the engine and lays the manifest out again.
func (m *browseModel) setColumns(columns int) {
	if m.fixed || columns < 1 || columns > merrors.MaxColumns {
		return
	}
	opts := m.opts
	opts.Columns = columns

	m.engine.Invalidate()
	if _, err := pipeline.ComputeEngine(m.ctx, m.engine, m.manifest, opts); err != nil {
		m.err = err
		return
	}
	m.opts = opts
	m.err = nil
	m.scroll(0)
}

// unitsPerRow is the layout height covered by one terminal row. Terminal
// cells are about twice as tall as they are wide.
func (m browseModel) unitsPerRow() float64 {
	return m.opts.Width / float64(m.width) * 2
}

func (m browseModel) rows() int {
	return m.height - browseChrome
}

func (m browseModel) viewport() grid.Rect {
	return grid.Rect{
		X:      0,
		Y:      m.offset,
		Width:  m.opts.Width,
		Height: float64(m.rows()) * m.unitsPerRow(),
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	vp := m.viewport()
	visible, err := m.engine.PlacementsIntersecting(vp)
	if err == nil {
		err = m.err
	}

	size, _ := m.engine.ContentSize()
	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d items · %d columns · %s–%s of %s",
		len(m.labels), m.opts.Columns,
		formatLength(math.Round(vp.Y)), formatLength(math.Round(min(vp.MaxY(), size.Height))),
		formatLength(math.Round(size.Height)))))
	b.WriteString("\n")

	b.WriteString(m.canvas(vp, visible))

	b.WriteString("\n")
	if err != nil {
		b.WriteString(browseErrorStyle.Render(merrors.UserMessage(err)))
	} else {
		help := "↑/↓ scroll  pgup/pgdn page  g/G top/bottom  q quit"
		if !m.fixed {
			help = "↑/↓ scroll  pgup/pgdn page  g/G top/bottom  +/- columns  q quit"
		}
		b.WriteString(StyleDim.Render(fmt.Sprintf("%s  [%d visible]", help, len(visible))))
	}
	return b.String()
}

// canvas draws every visible placement as a box scaled to the terminal.
func (m browseModel) canvas(vp grid.Rect, visible []grid.Placement) string {
	rows := m.rows()
	cells := make([][]rune, rows)
	owner := make([][]int, rows)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", m.width))
		owner[y] = make([]int, m.width)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	sx := float64(m.width) / m.opts.Width
	upr := m.unitsPerRow()
	set := func(x, y int, r rune, col int) {
		if x >= 0 && x < m.width && y >= 0 && y < rows {
			cells[y][x] = r
			owner[y][x] = col
		}
	}

	for _, p := range visible {
		x0 := int(math.Round(p.Frame.X * sx))
		x1 := int(math.Round(p.Frame.MaxX()*sx)) - 1
		y0 := int(math.Floor((p.Frame.Y - vp.Y) / upr))
		y1 := int(math.Ceil((p.Frame.MaxY()-vp.Y)/upr)) - 1
		if x1 <= x0 {
			continue
		}
		if y1 <= y0 {
			for x := x0; x <= x1; x++ {
				set(x, y0, '─', p.Column)
			}
			continue
		}

		for x := x0 + 1; x < x1; x++ {
			set(x, y0, '─', p.Column)
			set(x, y1, '─', p.Column)
		}
		for y := y0 + 1; y < y1; y++ {
			set(x0, y, '│', p.Column)
			set(x1, y, '│', p.Column)
		}
		set(x0, y0, '┌', p.Column)
		set(x1, y0, '┐', p.Column)
		set(x0, y1, '└', p.Column)
		set(x1, y1, '┘', p.Column)

		if y1-y0 >= 2 {
			label := []rune(m.labels[p.Index])
			if room := x1 - x0 - 1; len(label) > room {
				label = label[:max(room, 0)]
			}
			for i, r := range label {
				set(x0+1+i, y0+1, r, p.Column)
			}
		}
	}

	lines := make([]string, rows)
	for y := range cells {
		lines[y] = styleRow(cells[y], owner[y])
	}
	return strings.Join(lines, "\n")
}

// styleRow colors runs of cells by the column that drew them.
func styleRow(cells []rune, owner []int) string {
	var b strings.Builder
	start := 0
	for x := 1; x <= len(cells); x++ {
		if x < len(cells) && owner[x] == owner[start] {
			continue
		}
		run := string(cells[start:x])
		if col := owner[start]; col >= 0 {
			run = browseCardStyles[col%len(browseCardStyles)].Render(run)
		}
		b.WriteString(run)
		start = x
	}
	return b.String()
}
