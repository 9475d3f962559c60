package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cdrlens/cdrlens/pkg/annotations"
	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/records"
	"github.com/cdrlens/cdrlens/pkg/session"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	hubStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	nodesView
	pathView
	hubsView
)

const viewCount = 4

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	sess        *session.Session
	currentView view
	pathInput   textinput.Model
	nodeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
}

func initialModel(sess *session.Session) model {
	ti := textinput.New()
	ti.Placeholder = "55501000 55501007"
	ti.CharLimit = 80
	ti.Width = 40

	columns := []table.Column{
		{Title: "Party", Width: 12},
		{Title: "Out", Width: 6},
		{Title: "In", Width: 6},
		{Title: "Calls", Width: 7},
		{Title: "Duration", Width: 10},
		{Title: "Hub", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		sess:        sess,
		currentView: dashboardView,
		pathInput:   ti,
		nodeTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
	}
	m.refreshNodeTable()
	return m
}

func (m *model) refreshNodeTable() {
	view, err := m.sess.View()
	if err != nil {
		m.message = fmt.Sprintf("Build error: %v", err)
		m.messageErr = true
		return
	}

	rows := make([]table.Row, 0, view.NodeCount())
	for _, id := range view.NodeIDs() {
		n := view.Nodes[id]
		hub := ""
		if n.IsHub {
			hub = "yes"
		}
		rows = append(rows, table.Row{
			n.ID,
			strconv.Itoa(n.OutgoingCount),
			strconv.Itoa(n.IncomingCount),
			strconv.Itoa(n.CallCount),
			(time.Duration(n.TotalDurationSeconds) * time.Second).String(),
			hub,
		})
	}
	m.nodeTable.SetRows(rows)
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			if m.currentView == pathView {
				m.pathInput.Focus()
			} else {
				m.pathInput.Blur()
			}

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
			if m.currentView == pathView {
				m.pathInput.Focus()
			} else {
				m.pathInput.Blur()
			}

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == pathView && m.pathInput.Focused() {
				m.executePath()
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case pathView:
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	case nodesView:
		m.nodeTable, cmd = m.nodeTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) executePath() {
	fields := strings.Fields(m.pathInput.Value())
	if len(fields) != 2 {
		m.message = "Enter two party ids separated by a space"
		m.messageErr = true
		return
	}

	start := time.Now()
	res, err := m.sess.FindPath(fields[0], fields[1])
	if err != nil {
		m.message = fmt.Sprintf("Path error: %v", err)
		m.messageErr = true
		return
	}
	elapsed := time.Since(start)

	if !res.Found {
		m.message = fmt.Sprintf("No path: %s", res.FailureReason)
		m.messageErr = true
		return
	}
	m.message = fmt.Sprintf("Path found in %s: %s (%d hops)",
		elapsed, strings.Join(res.NodeIDs, " → "), res.Hops())
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("cdrlens - Interaction Graph Inspector"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case nodesView:
		s.WriteString(m.renderNodes())
	case pathView:
		s.WriteString(m.renderPath())
	case hubsView:
		s.WriteString(m.renderHubs())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Nodes", "Path", "Hubs"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	built, err := m.sess.Graph()
	if err != nil {
		return contentStyle.Render(errorStyle.Render(err.Error()))
	}
	hubs, _ := m.sess.Hubs()
	uptime := time.Since(m.startTime).Round(time.Second)

	span := built.Graph.FullSpan()
	statsContent := fmt.Sprintf(`Graph
━━━━━━━━━━━━━━━
Parties:   %d
Edges:     %d
Hubs:      %d
Skipped:   %d
Truncated: %v

Records span %s`,
		built.Graph.NodeCount(),
		built.Graph.EdgeCount(),
		len(hubs),
		built.Skipped,
		built.Truncated,
		(time.Duration(span.EndMs-span.StartMs) * time.Millisecond).Round(time.Second),
	)

	sessionContent := fmt.Sprintf(`Session
━━━━━━━━━━━━━━━
ID:      %s
Uptime:  %s

[Tab]    Navigate views
[q]      Quit`,
		m.sess.ID()[:8],
		uptime,
	)

	statsBox := statsBoxStyle.Render(statsContent)
	sessionBox := statsBoxStyle.Render(sessionContent)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, sessionBox),
	)
}

func (m model) renderNodes() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Party Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.nodeTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓"))

	return contentStyle.Render(s.String())
}

func (m model) renderPath() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Path Finder"))
	s.WriteString("\n\n")
	s.WriteString("Source and target party ids:\n\n")
	s.WriteString(m.pathInput.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Connections are followed in both directions."))

	return contentStyle.Render(s.String())
}

func (m model) renderHubs() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Communication Hubs"))
	s.WriteString("\n\n")

	view, err := m.sess.View()
	if err != nil {
		return contentStyle.Render(errorStyle.Render(err.Error()))
	}
	hubs, err := m.sess.Hubs()
	if err != nil {
		return contentStyle.Render(errorStyle.Render(err.Error()))
	}

	if len(hubs) == 0 {
		s.WriteString(helpStyle.Render("No hubs detected in the current graph."))
		return contentStyle.Render(s.String())
	}

	store := m.sess.Annotations()
	for _, id := range hubs {
		n, err := view.Node(id)
		if err != nil {
			continue
		}
		bar := strings.Repeat("█", min(n.CallCount, 40))
		s.WriteString(fmt.Sprintf("  %s  %4d calls  %s\n",
			hubStyle.Render(fmt.Sprintf("%-12s", annotations.DisplayLabel(store, n))),
			n.CallCount, bar))
	}

	return contentStyle.Render(s.String())
}

func demoSession() (*session.Session, error) {
	sess, err := session.New(graph.DefaultConfig(), nil)
	if err != nil {
		return nil, err
	}

	gen := records.NewGenerator(42)
	recs := gen.Generate(records.GenerateOptions{
		Parties:     20,
		Records:     600,
		Files:       3,
		Towers:      5,
		StartMs:     time.Now().Add(-72 * time.Hour).UnixMilli(),
		WindowMs:    (72 * time.Hour).Milliseconds(),
		HubParty:    4,
		HubFraction: 35,
	})
	sess.LoadRecords(recs, "55501000")
	return sess, nil
}

func main() {
	sess, err := demoSession()
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	p := tea.NewProgram(initialModel(sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
