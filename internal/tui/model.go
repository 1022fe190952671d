// Package tui implements the interactive dashboard: one tab per resource
// kind, each backed by its panel's list controller.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
)

const maxColumnWidth = 40

// panelChangedMsg reports a state or filter change of panel index.
type panelChangedMsg struct {
	index int
}

// Model is the dashboard model.
type Model struct {
	set     *resource.Set
	panels  []*resource.Panel
	updates []chan struct{}
	active  int

	table   table.Model
	filter  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	width  int
	height int
}

// New creates a dashboard over set. Each panel is subscribed immediately so
// no change is missed before the program starts.
func New(set *resource.Set) Model {
	panels := set.Panels()
	updates := make([]chan struct{}, len(panels))
	for i, p := range panels {
		updates[i] = p.Subscribe()
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.CharLimit = 64

	m := Model{
		set:     set,
		panels:  panels,
		updates: updates,
		table: table.New(
			table.WithFocused(true),
			table.WithHeight(10),
			table.WithStyles(tableStyles()),
		),
		filter:  filter,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    DefaultKeyMap(),
	}
	m.selectTab(0)
	return m
}

// Init starts listening for panel changes and loads every list.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	for i := range m.panels {
		cmds = append(cmds, m.listen(i))
	}
	set := m.set
	cmds = append(cmds, func() tea.Msg {
		set.RefreshAll()
		return nil
	})
	return tea.Batch(cmds...)
}

// listen waits for the next change ping of panel i. A closed channel means
// the panel was disposed and ends the subscription.
func (m Model) listen(i int) tea.Cmd {
	ch := m.updates[i]
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return panelChangedMsg{index: i}
	}
}

// Active returns the panel shown in the current tab.
func (m Model) Active() *resource.Panel {
	return m.panels[m.active]
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-12))
		m.syncTable()
		return m, nil

	case panelChangedMsg:
		if msg.index == m.active {
			m.syncTable()
		}
		return m, m.listen(msg.index)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ClearFilter):
		m.filter.SetValue("")
		m.filter.Blur()
		m.Active().SetFilter("")
		m.syncTable()
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		m.filter.Blur()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.Active().SetFilter(m.filter.Value())
	m.syncTable()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.NextTab):
		m.selectTab((m.active + 1) % len(m.panels))
	case key.Matches(msg, m.keys.PrevTab):
		m.selectTab((m.active + len(m.panels) - 1) % len(m.panels))
	case key.Matches(msg, m.keys.Leaderboard):
		m.selectTab(0)
	case key.Matches(msg, m.keys.Teams):
		m.selectTab(1)
	case key.Matches(msg, m.keys.Workouts):
		m.selectTab(2)
	case key.Matches(msg, m.keys.Filter):
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ClearFilter):
		m.filter.SetValue("")
		m.Active().SetFilter("")
		m.syncTable()
	case key.Matches(msg, m.keys.Refresh):
		// A list that is already loading keeps its request.
		if m.Active().State().Phase != listview.PhaseLoading {
			m.Active().Refresh()
		}
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.set.Dispose()
	return m, tea.Quit
}

func (m *Model) selectTab(i int) {
	if i < 0 || i >= len(m.panels) {
		return
	}
	m.active = i
	p := m.panels[i]
	m.filter.Placeholder = p.Kind.Placeholder
	m.filter.SetValue(p.Filter())
	m.table.SetRows(nil)
	m.table.SetColumns(columns(p.Kind, nil))
	m.syncTable()
}

// syncTable copies the active panel's filtered view into the table.
func (m *Model) syncTable() {
	p := m.Active()
	rows := p.Rows()
	m.table.SetRows(nil)
	m.table.SetColumns(columns(p.Kind, rows))
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}
	m.table.SetRows(tableRows)
	if m.table.Cursor() >= len(tableRows) {
		m.table.SetCursor(max(0, len(tableRows)-1))
	}
}

// columns sizes each column to its widest cell.
func columns(kind resource.Kind, rows [][]string) []table.Column {
	headers := kind.Headers()
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, r := range rows {
			width = max(width, lipgloss.Width(r[i]))
		}
		cols[i] = table.Column{Title: h, Width: min(width+2, maxColumnWidth)}
	}
	return cols
}

// View renders the dashboard.
func (m Model) View() string {
	p := m.Active()
	sections := []string{
		m.renderTabs(),
		subtitleStyle.Render(p.Kind.Subtitle),
		"",
		m.renderFilter(),
		"",
		m.renderBody(),
		"",
		m.help.View(m.keys),
	}
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderTabs() string {
	tabs := []string{brandStyle.Render("OctoFit")}
	for i, p := range m.panels {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(p.Kind.Title))
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderFilter() string {
	if m.filter.Focused() || m.filter.Value() != "" {
		return m.filter.View()
	}
	return statusStyle.Render("Press / to filter")
}

func (m Model) renderBody() string {
	p := m.Active()
	state := p.State()

	switch state.Phase {
	case listview.PhaseIdle:
		return statusStyle.Render("Press r to load " + strings.ToLower(p.Kind.Title) + ".")
	case listview.PhaseLoading:
		return m.spinner.View() + " " + p.Kind.LoadingMessage
	case listview.PhaseFailed:
		return errorStyle.Render(p.ErrorMessage())
	}

	if len(m.table.Rows()) == 0 {
		return statusStyle.Render(p.Kind.EmptyMessage)
	}
	return m.table.View()
}
