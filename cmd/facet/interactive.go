package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/facet/internal/catalog"
	"github.com/unbound-force/facet/internal/markup"
	"github.com/unbound-force/facet/internal/render"
	"github.com/unbound-force/facet/internal/selection"
)

// keyMap defines keybindings for the interactive viewer.
type keyMap struct {
	Toggle     key.Binding
	NextMetric key.Binding
	PrevMetric key.Binding
	ShowAll    key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Quit       key.Binding
	Help       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextMetric, k.ShowAll, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.NextMetric, k.PrevMetric, k.ShowAll},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Toggle:     key.NewBinding(key.WithKeys("t", "tab"), key.WithHelp("t", "cycle group")),
	NextMetric: key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "next metric")),
	PrevMetric: key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←", "prev metric")),
	ShowAll:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show all")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the viewer.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	pressedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63"))
)

// viewModel is the Bubble Tea model for browsing an annotated report.
// Every key that changes the selection goes through the controller, so
// the terminal always shows what a re-rendered report would.
type viewModel struct {
	title    string
	doc      *markup.Document
	cat      *catalog.Catalog
	ctl      *selection.Controller
	resolved string
	showAll  bool

	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
}

func newViewModel(title string, doc *markup.Document) viewModel {
	cat := catalog.Default()
	ctl := selection.New(cat, render.NewSurface(doc, cat))
	// Materialize the initial cyclomatic view.
	resolved := ctl.SelectMetric(catalog.CyclomaticMetric, false)

	return viewModel{
		title:    title,
		doc:      doc,
		cat:      cat,
		ctl:      ctl,
		resolved: resolved,
		help:     help.New(),
		keys:     defaultKeyMap,
	}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.renderContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Toggle):
			m.resolved = m.ctl.Toggle()
			m.showAll = false // group cycling renders single-metric
			m.refresh()
		case key.Matches(msg, m.keys.NextMetric):
			m.resolved = m.ctl.SelectMetric(m.stepMetric(1), m.showAll)
			m.refresh()
		case key.Matches(msg, m.keys.PrevMetric):
			m.resolved = m.ctl.SelectMetric(m.stepMetric(-1), m.showAll)
			m.refresh()
		case key.Matches(msg, m.keys.ShowAll):
			m.showAll = !m.showAll
			m.resolved = m.ctl.SelectMetric(m.resolved, m.showAll)
			m.refresh()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// stepMetric returns the metric delta positions away from the resolved
// one within the active group, wrapping around.
func (m viewModel) stepMetric(delta int) string {
	members := m.cat.Members(m.ctl.State().Mode())
	if len(members) == 0 {
		return m.resolved
	}
	at := 0
	for i, id := range members {
		if id == m.resolved {
			at = i
			break
		}
	}
	at = (at + delta + len(members)) % len(members)
	return members[at]
}

func (m *viewModel) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

// renderContent renders the report's annotated lines with the current
// selection applied: hidden spans dropped, synced colors as line
// backgrounds.
func (m viewModel) renderContent() string {
	var sb strings.Builder
	for _, line := range m.doc.ElementsWithClass("line") {
		text := strings.TrimRight(line.VisibleText(), "\n")
		style := lipgloss.NewStyle()
		if c, ok := terminalColor(line.StyleValue("background-color")); ok {
			style = style.Background(c)
		}
		sb.WriteString(style.Render(text))
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return statusStyle.Render("No annotated lines in this report.")
	}
	return sb.String()
}

// header shows the report name, the active group with its metrics, and
// the show-all state. The resolved metric is highlighted the way the
// report presses its button.
func (m viewModel) header() string {
	mode := m.ctl.State().Mode()

	var metrics []string
	for _, id := range m.cat.Members(mode) {
		if id == m.resolved {
			metrics = append(metrics, pressedStyle.Render(id))
		} else {
			metrics = append(metrics, statusStyle.Render(id))
		}
	}

	status := ""
	if m.showAll {
		status = " [all]"
	}
	return titleStyle.Render(fmt.Sprintf("%s — %s%s", m.title, mode, status)) +
		"\n" + strings.Join(metrics, " ")
}

func (m viewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.header() + "\n" + m.viewport.View() + "\n" + footer
}

// terminalColor converts a report background color to a lipgloss
// color. Handles the "rgba(r, g, b, a)" values the color scale emits
// and plain hex values; anything else is not colorable.
func terminalColor(value string) (lipgloss.Color, bool) {
	if strings.HasPrefix(value, "#") {
		return lipgloss.Color(value), true
	}
	var r, g, b int
	if _, err := fmt.Sscanf(value, "rgba(%d, %d, %d,", &r, &g, &b); err == nil {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
	}
	return "", false
}

// runInteractiveView launches the Bubble Tea viewer over a parsed
// report.
func runInteractiveView(title string, doc *markup.Document) error {
	model := newViewModel(title, doc)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
