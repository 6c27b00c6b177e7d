package showlog

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// eventMsg carries a formatted log line plus the raw row.
type eventMsg struct {
	line string
	row  EventRow
}

const maxLogLines = 500

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	kindStyles  = map[string]lipgloss.Style{
		KindDispatch: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		KindExec:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		KindQuit:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		KindWarn:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
)

// TUIWriter renders show events in a bubbletea TUI: a fleet table on
// top, a scrolling event log below.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// AgentInfo seeds one fleet table row.
type AgentInfo struct {
	Index int
	URI   string
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(showName string, agents []AgentInfo) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(showName, agents), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// Quitting the TUI ends the run: mirror ctrl-c for the main loop.
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(row EventRow) error {
	w.program.Send(eventMsg{line: formatEventLine(row), row: row})
	return nil
}

// WriteEvents outputs multiple event rows.
func (w *TUIWriter) WriteEvents(rows []EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

func formatEventLine(row EventRow) string {
	ks, ok := kindStyles[row.Kind]
	if !ok {
		ks = lipgloss.NewStyle()
	}
	line := fmt.Sprintf("[%s] step=%s %s agent=%d %s",
		row.Timestamp.Format(time.RFC3339),
		stepStyle.Render(fmt.Sprintf("%d", row.Step)),
		ks.Render(row.Kind),
		row.AgentIndex,
		row.Command,
	)
	if row.Detail != "" {
		line += " " + row.Detail
	}
	return line
}

type agentState struct {
	uri      string
	lastCmd  string
	executed int
	quit     bool
}

type tuiModel struct {
	showName     string
	agents       []agentState
	table        table.Model
	vp           viewport.Model
	logs         []string
	step         int
	header       string
	headerHeight int
	height       int
	width        int
}

func newTUIModel(showName string, agents []AgentInfo) tuiModel {
	states := make([]agentState, len(agents))
	for _, a := range agents {
		if a.Index >= 0 && a.Index < len(states) {
			states[a.Index] = agentState{uri: a.URI, lastCmd: "-"}
		}
	}
	cols := []table.Column{
		{Title: "Agent", Width: 6},
		{Title: "URI", Width: 30},
		{Title: "Last Command", Width: 44},
		{Title: "Run", Width: 5},
		{Title: "State", Width: 8},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(len(states)+1))
	m := tuiModel{
		showName: showName,
		agents:   states,
		table:    t,
		vp:       viewport.New(0, 0),
	}
	m.refreshTable()
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.resizeViewport()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.vp.ScrollUp(1)
		case "down", "j":
			m.vp.ScrollDown(1)
		}
	case eventMsg:
		m.apply(msg.row)
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.header = m.renderHeader()
		m.refreshTable()
		m.refreshViewport()
	}
	return m, nil
}

func (m *tuiModel) apply(row EventRow) {
	if row.Step > m.step {
		m.step = row.Step
	}
	if row.AgentIndex < 0 || row.AgentIndex >= len(m.agents) {
		return
	}
	a := &m.agents[row.AgentIndex]
	switch row.Kind {
	case KindExec:
		a.lastCmd = row.Command
		a.executed++
	case KindQuit:
		a.quit = true
	}
}

func (m *tuiModel) refreshTable() {
	rows := make([]table.Row, len(m.agents))
	for i, a := range m.agents {
		state := "flying"
		if a.quit {
			state = "done"
		}
		rows[i] = table.Row{fmt.Sprintf("%d", i), a.uri, a.lastCmd, fmt.Sprintf("%d", a.executed), state}
	}
	m.table.SetRows(rows)
}

func (m *tuiModel) renderHeader() string {
	return headerStyle.Render(fmt.Sprintf("swarmshow · %s", m.showName)) +
		stepStyle.Render(fmt.Sprintf("  step %d", m.step))
}

func (m *tuiModel) resizeViewport() {
	h := m.height - m.headerHeight - m.table.Height() - 2
	if h < 3 {
		h = 3
	}
	m.vp.Height = h
}

func (m *tuiModel) refreshViewport() {
	wrapped := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.width > 0 {
			l = wordwrap.String(l, m.width)
		}
		wrapped = append(wrapped, l)
	}
	m.vp.SetContent(joinLines(wrapped))
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	return m.header + "\n" + m.table.View() + "\n" + m.vp.View()
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
