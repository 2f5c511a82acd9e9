package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/widget"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	popupStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [file|sample]",
		Short: "Browse and toggle a tree in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			items, name, err := c.loadItems(args)
			if err != nil {
				return err
			}
			opts := cfg.WidgetOptions()
			opts.Logger = loggerFromContext(cmd.Context())
			m, err := newExploreModel(cmd.Context(), name, widget.New(items, opts))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// exploreModel - Interactive tree browser
// =============================================================================

type frameMsg time.Time

// exploreModel is the bubbletea model for the explorer. The widget is mounted
// on a virtual surface sized like the terminal, so zoom and pan act on the
// same transform the SVG output would use.
type exploreModel struct {
	ctx    context.Context
	name   string
	w      *widget.Widget
	rows   []tree.ID
	cursor int
	offset int
	height int

	popup   *widget.Inspection
	summary string
	status  string
	now     func() time.Time
}

// cellSize converts terminal cells to virtual pixels.
var cellSize = geom.Size{W: 8, H: 16}

func newExploreModel(ctx context.Context, name string, w *widget.Widget) (exploreModel, error) {
	if _, ok := w.Mount(ctx, widget.FixedSurface{W: 80 * cellSize.W, H: 24 * cellSize.H}); !ok {
		return exploreModel{}, fmt.Errorf("mount %s: surface not ready", name)
	}
	m := exploreModel{ctx: ctx, name: name, w: w, height: 15, now: time.Now}
	m.rows = w.Tree().Visible()
	return m, nil
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.popup != nil {
			switch msg.String() {
			case "esc", "c", "enter", "i":
				m.popup = nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", " ":
			return m.toggle()
		case "i":
			if in, err := m.w.Inspect(m.current()); err == nil {
				m.popup = &in
			}
		case "+", "=":
			m.w.Zoom(1.25, m.center())
		case "-":
			m.w.Zoom(0.8, m.center())
		case "left", "h":
			m.w.Pan(cellSize.W*4, 0)
		case "right", "l":
			m.w.Pan(-cellSize.W*4, 0)
		case "0", "r":
			tw := m.w.Reset(m.ctx)
			if tw.Identity() {
				m.status = "view already reset"
			} else {
				m.status = "view reset"
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.w.Mount(m.ctx, widget.FixedSurface{W: float64(msg.Width) * cellSize.W, H: float64(msg.Height) * cellSize.H})
	case frameMsg:
		if m.w.Animating(time.Time(msg)) {
			return m, m.tick()
		}
	}
	return m, nil
}

func (m *exploreModel) move(delta int) {
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m exploreModel) current() tree.ID {
	if len(m.rows) == 0 {
		return tree.RootID
	}
	return m.rows[m.cursor]
}

func (m exploreModel) center() geom.Point {
	s := m.w.Surface()
	return geom.Point{X: s.W / 2, Y: s.H / 2}
}

func (m exploreModel) toggle() (tea.Model, tea.Cmd) {
	id := m.current()
	u, err := m.w.Toggle(m.ctx, id)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.summary = formatSummary(u.Diff.Summary())
	m.rows = m.w.Tree().Visible()
	m.cursor = max(slices.Index(m.rows, id), 0)
	m.move(0)
	return m, m.tick()
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  i info  +/- zoom  ←/→ pan  0 reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		n, _ := m.w.Tree().Node(m.rows[i])
		icon := iconLeaf
		switch n.State {
		case tree.Expanded:
			icon = iconExpanded
		case tree.Collapsed:
			icon = iconCollapsed
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + strings.Repeat("  ", n.Depth-1) + icon + " " + n.Name
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case n.State == tree.Leaf:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("  [%d/%d]  %s", m.cursor+1, len(m.rows), m.w.Transform())
	b.WriteString(listDimStyle.Render(footer))
	if m.now != nil && m.w.Animating(m.now()) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  animating %3.0f%%", m.w.Frame(m.now()).Progress*100)))
	}
	b.WriteString("\n")
	if m.summary != "" {
		b.WriteString("  " + m.summary + "\n")
	}
	if m.status != "" {
		b.WriteString("  " + StyleWarning.Render(m.status) + "\n")
	}

	if m.popup != nil {
		body := StyleTitle.Render(m.popup.Name) + "\n\n" + m.popup.Metadata + "\n\n" + listDimStyle.Render("esc close")
		b.WriteString("\n")
		b.WriteString(popupStyle.Render(body))
	}
	return b.String()
}
