package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tomhaller/depview/pkg/geom"
	"github.com/tomhaller/depview/pkg/layout"
	"github.com/tomhaller/depview/pkg/pipeline"
	"github.com/tomhaller/depview/pkg/render/styles"
	"github.com/tomhaller/depview/pkg/task"
	"github.com/tomhaller/depview/pkg/viewport"
)

// statusLines is the number of terminal rows reserved below the canvas.
const statusLines = 2

// keyPanStep is the pan distance per arrow key press, in terminal cells.
const keyPanStep = 4

// wheelStep approximates one scroll notch of a desktop mouse wheel.
const wheelStep = 120

// Node styles by task status, matching the SVG palette tones.
var (
	viewNodeNotStarted = lipgloss.NewStyle().Foreground(colorGray)
	viewNodeInProgress = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	viewNodeCompleted  = lipgloss.NewStyle().Foreground(colorGreen)
	viewEdgeStyle      = lipgloss.NewStyle().Foreground(colorDim)
	viewStatusBar      = lipgloss.NewStyle().Foreground(colorGray)
)

// viewCommand creates the view command for interactive graph browsing.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		focus           string
		includeIsolated bool
	)

	cmd := &cobra.Command{
		Use:   "view [project.json]",
		Short: "Browse a dependency graph interactively",
		Long: `Browse a dependency graph interactively in the terminal.

The view command computes the layout and opens a pan-and-zoom canvas. Scroll
to zoom around the cursor, drag to pan, and use the arrow keys for fine
movement. Press 0 to reset the view and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], focus, includeIsolated)
		},
	}

	cmd.Flags().StringVar(&focus, "focus", "", "restrict the graph to a task and its direct neighbors")
	cmd.Flags().BoolVar(&includeIsolated, "include-isolated", false, "include tasks without dependencies")

	return cmd
}

// runView computes the layout and hands it to the bubbletea program.
func (c *CLI) runView(ctx context.Context, input, focus string, includeIsolated bool) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		ProjectPath:     input,
		FocusID:         focus,
		IncludeIsolated: includeIsolated,
		Logger:          c.Logger,
	}

	project, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load project %s: %w", input, err)
	}
	cg, err := runner.ComputeLayout(ctx, project, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if len(cg.Nodes) == 0 {
		printInfo("Nothing to show: the graph is empty")
		return nil
	}

	m := newViewModel(project.Name, cg, c.viewerConfig())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// viewerConfig translates the loaded configuration into viewport settings.
func (c *CLI) viewerConfig() viewport.Config {
	return viewport.Config{
		MinZoom: c.Config.Viewer.MinZoom,
		MaxZoom: c.Config.Viewer.MaxZoom,
		Padding: c.Config.Viewer.Padding,
	}
}

// viewModel is the bubbletea model for the interactive viewer.
type viewModel struct {
	name string
	cg   layout.ComputedGraph
	vp   *viewport.Controller

	width  int
	height int
}

func newViewModel(name string, cg layout.ComputedGraph, cfg viewport.Config) viewModel {
	vp := viewport.New(cfg)
	vp.SetContentSize(cg.Size())
	return viewModel{name: name, cg: cg, vp: vp}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Resize(float64(msg.Width), float64(max(1, msg.Height-statusLines)))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.vp.ZoomIn()
		case "-", "_":
			m.vp.ZoomOut()
		case "0", "r":
			m.vp.ResetView()
		case "up", "k":
			m.panBy(0, -keyPanStep)
		case "down", "j":
			m.panBy(0, keyPanStep)
		case "left", "h":
			m.panBy(-keyPanStep, 0)
		case "right", "l":
			m.panBy(keyPanStep, 0)
		}

	case tea.MouseMsg:
		p := geom.Point{X: float64(msg.X), Y: float64(msg.Y)}
		switch msg.Action {
		case tea.MouseActionPress:
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.vp.Wheel(p, -wheelStep, true)
			case tea.MouseButtonWheelDown:
				m.vp.Wheel(p, wheelStep, true)
			case tea.MouseButtonLeft:
				m.vp.PointerDown(p, 0)
			}
		case tea.MouseActionMotion:
			m.vp.PointerMove(p)
		case tea.MouseActionRelease:
			m.vp.PointerUp()
		}
	}

	return m, nil
}

// panBy moves the view by a number of terminal cells using a synthetic drag.
func (m viewModel) panBy(dx, dy float64) {
	origin := geom.Point{}
	m.vp.PointerDown(origin, 0)
	m.vp.PointerMove(geom.Point{X: -dx, Y: -dy})
	m.vp.PointerUp()
}

func (m viewModel) View() string {
	if m.width == 0 || m.height <= statusLines {
		return "loading..."
	}

	rows := m.height - statusLines
	canvas := newCellGrid(m.width, rows)
	win := m.vp.Window()

	for _, e := range m.cg.Edges {
		for _, pt := range e.Points {
			if x, y, ok := canvas.project(pt, win); ok {
				canvas.set(x, y, viewEdgeStyle.Render("·"))
			}
		}
	}
	for _, n := range m.cg.Nodes {
		if x, y, ok := canvas.project(n.Center(), win); ok {
			canvas.label(x, y, nodeLabel(n))
		}
	}

	var b strings.Builder
	b.WriteString(canvas.String())
	b.WriteString("\n")
	b.WriteString(viewStatusBar.Render(fmt.Sprintf("%s  %d tasks  zoom %.0f%%", m.name, len(m.cg.Nodes), m.vp.Zoom()*100)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("scroll zoom  drag pan  +/- zoom  0 reset  q quit"))
	return b.String()
}

// nodeLabel renders a node's truncated title in its status color.
func nodeLabel(n layout.PositionedNode) string {
	title := styles.Truncate(n.Task.Title, styles.MaxLabelChars)
	label := "[" + title + "]"
	switch n.Task.Status {
	case task.StatusInProgress:
		return viewNodeInProgress.Render(label)
	case task.StatusCompleted:
		return viewNodeCompleted.Render(label)
	default:
		return viewNodeNotStarted.Render(label)
	}
}

// cellGrid is a terminal cell buffer the canvas draws into.
type cellGrid struct {
	cells [][]string
	cols  int
	rows  int
}

func newCellGrid(cols, rows int) *cellGrid {
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	return &cellGrid{cells: cells, cols: cols, rows: rows}
}

// project maps a content point into the grid through the view window.
func (g *cellGrid) project(pt geom.Point, win geom.Rect) (int, int, bool) {
	if win.Width <= 0 || win.Height <= 0 {
		return 0, 0, false
	}
	x := int((pt.X - win.X) / win.Width * float64(g.cols))
	y := int((pt.Y - win.Y) / win.Height * float64(g.rows))
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return 0, 0, false
	}
	return x, y, true
}

func (g *cellGrid) set(x, y int, s string) {
	if g.cells[y][x] == "" {
		g.cells[y][x] = s
	}
}

// label writes a string centered on a cell, clipped to the grid.
func (g *cellGrid) label(x, y int, s string) {
	plain := lipgloss.Width(s)
	start := x - plain/2
	if start < 0 {
		start = 0
	}
	if start >= g.cols {
		return
	}
	// Store the whole styled label in one cell and blank the cells it spans,
	// so String() emits it once without overlap.
	g.cells[y][start] = s
	for i := start + 1; i < start+plain && i < g.cols; i++ {
		g.cells[y][i] = "\x00"
	}
}

func (g *cellGrid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteString("\n")
		}
		for _, cell := range row {
			switch cell {
			case "":
				b.WriteString(" ")
			case "\x00":
				// Covered by a label to the left.
			default:
				b.WriteString(cell)
			}
		}
	}
	return b.String()
}
