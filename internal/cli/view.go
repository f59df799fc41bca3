package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillweave/pkg/describe"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/pipeline"
	"github.com/matzehuels/skillweave/pkg/render/textgrid"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <composition>",
		Short: "Browse a composition diagram interactively",
		Long: `Browse a composition diagram in the terminal.

Keys:
  ←/→/↑/↓ or h/j/k/l   move the selection in pre-order
  g / G                first / last node
  enter                toggle the detail pane
  r                    reload the composition from disk
  q                    quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, comp, err := c.loadComposition(ctx, args[0], runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			m := newViewModel(ctx, runner, comp, c.cfg().Theme, termenv.EnvColorProfile())
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if vm, ok := final.(viewModel); ok && vm.err != nil {
				printWarning(c.Out, "last reload failed: %v", vm.err)
			}
			return nil
		},
	}
}

// =============================================================================
// viewModel - interactive diagram
// =============================================================================

// Viewer styles
var (
	viewTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	viewDetailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// reloadMsg carries the result of reloading the composition.
type reloadMsg struct {
	comp *pipeline.Composition
	err  error
}

// viewModel is the bubbletea model of the view command. It keeps the
// selected node ID and recomputes the layout and buffer whenever the
// selection or the composition changes.
type viewModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	theme   layout.Theme
	profile termenv.Profile

	comp  *pipeline.Composition
	desc  *describe.Description
	graph *layout.Graph
	order []string

	selected string
	detail   bool
	err      error

	viewport viewport.Model
	width    int
	height   int
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, comp *pipeline.Composition, theme layout.Theme, profile termenv.Profile) viewModel {
	m := viewModel{
		ctx:      ctx,
		runner:   runner,
		theme:    theme,
		profile:  profile,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.setComposition(comp)
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			m.move(-1)
		case "down", "j", "right", "l":
			m.move(1)
		case "g", "home":
			m.selectIndex(0)
		case "G", "end":
			m.selectIndex(len(m.order) - 1)
		case "enter":
			m.detail = !m.detail
			m.resize()
		case "r":
			return m, m.reload()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case reloadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setComposition(msg.comp)
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(viewTitleStyle.Render(m.comp.Name()))
	b.WriteString("  ")
	b.WriteString(viewHelpStyle.Render("←/→ select  g/G first/last  ⏎ details  r reload  q quit"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.detail {
		b.WriteString(viewDetailStyle.Width(max(m.width-2, 20)).Render(m.detailText()))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(viewErrorStyle.Render("reload failed: " + m.err.Error()))
	} else {
		b.WriteString(viewHelpStyle.Render(fmt.Sprintf("%s  [%d/%d]", m.selected, m.index()+1, len(m.order))))
	}
	return b.String()
}

// setComposition replaces the composition, keeping the selection when the
// same ID still exists.
func (m *viewModel) setComposition(comp *pipeline.Composition) {
	m.comp = comp
	m.desc = m.runner.Describe(m.ctx, comp)
	m.graph = m.runner.Layout(m.ctx, comp, layout.Options{Theme: m.theme})
	m.order = m.graph.Order()
	if _, ok := m.graph.Find(m.selected); !ok {
		m.selected = ""
		if len(m.order) > 0 {
			m.selected = m.order[0]
		}
	}
	m.redraw()
}

func (m *viewModel) index() int {
	for i, id := range m.order {
		if id == m.selected {
			return i
		}
	}
	return 0
}

func (m *viewModel) move(delta int) {
	m.selectIndex(m.index() + delta)
}

func (m *viewModel) selectIndex(i int) {
	if len(m.order) == 0 {
		return
	}
	i = max(0, min(i, len(m.order)-1))
	if m.order[i] == m.selected {
		return
	}
	m.selected = m.order[i]
	m.redraw()
}

// redraw lays the composition out with the current selection and scrolls
// the selected box into view.
func (m *viewModel) redraw() {
	m.graph = m.runner.Layout(m.ctx, m.comp, layout.Options{Selected: m.selected, Theme: m.theme})
	m.viewport.SetContent(strings.Join(textgrid.Render(m.graph).Lines(m.profile), "\n"))

	n, ok := m.graph.Find(m.selected)
	if !ok {
		return
	}
	top := n.Y + textgrid.Margin
	bottom := top + n.Height
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m *viewModel) resize() {
	reserved := 2
	if m.detail {
		reserved += lipgloss.Height(viewDetailStyle.Render(m.detailText())) + 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-reserved, 3)
	m.redraw()
}

func (m viewModel) reload() tea.Cmd {
	runner, path, ctx := m.runner, m.comp.Path, m.ctx
	return func() tea.Msg {
		comp, err := runner.Load(ctx, path)
		return reloadMsg{comp: comp, err: err}
	}
}

// detailText describes the selected node.
func (m *viewModel) detailText() string {
	n, ok := m.graph.Find(m.selected)
	if !ok {
		return "nothing selected"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %s", StyleTitle.Render(n.Label), n.Type, StyleDim.Render("#"+n.ID))
	if n.Hydrated {
		b.WriteString(StyleDim.Render("  (configured)"))
	}
	if n.Type != layout.TypeSkill {
		return b.String()
	}

	rec, ok := m.desc.Skill(n.Label)
	if !ok {
		return b.String()
	}
	if rec.Description != "" {
		b.WriteString("\n" + rec.Description)
	}
	b.WriteString("\n" + StyleDim.Render("source: "+rec.Source.String()))
	for i, cfg := range rec.Hydrations {
		b.WriteString("\n" + StyleDim.Render(fmt.Sprintf("config %d: %s", i+1, inlineConfig(cfg.Values()))))
	}
	return b.String()
}
