package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/game"
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the high-score table. It is embedded in Model and
// can also run on its own.
type ScoreboardModel struct {
	ledger    *game.Ledger
	entries   []game.HighScoreEntry
	highlight int // Rank to mark, -1 for none
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over ledger.
func NewScoreboardModel(ledger *game.Ledger, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		ledger:    ledger,
		highlight: -1,
		keys:      DefaultScoreboardKeyMap(),
		help:      h,
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.Refresh()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: game.MaxNameLength + 2},
		{Title: "Score", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.ledger.Cap()+1, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Refresh reloads the rows from the ledger.
func (m *ScoreboardModel) Refresh() {
	m.entries = m.ledger.Entries()

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		date := "-"
		if !e.CreatedAt.IsZero() {
			date = e.CreatedAt.Local().Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.PlayerName,
			fmt.Sprintf("%d", e.Score),
			date,
		}
	}
	m.table.SetRows(rows)

	if m.highlight >= 0 && m.highlight < len(rows) {
		m.table.SetCursor(m.highlight)
	} else {
		m.table.GotoTop()
	}
}

// Highlight selects the row at rank (zero-based) on the next Refresh.
func (m *ScoreboardModel) Highlight(rank int) {
	m.highlight = rank
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var content string
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 4)
		content = emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	} else {
		content = m.table.View()
	}
	for _, line := range strings.Split(tableStyle.Render(content), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))

	return b.String()
}

// IsGoingBack returns true if user wants to leave the scoreboard.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard on its own until the user leaves.
func RunScoreboard(ledger *game.Ledger, width, height int) error {
	p := tea.NewProgram(standaloneScoreboard{NewScoreboardModel(ledger, width, height)}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// standaloneScoreboard quits on back instead of returning to a menu.
type standaloneScoreboard struct {
	ScoreboardModel
}

func (s standaloneScoreboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.ScoreboardModel.Update(msg)
	s.ScoreboardModel = next.(ScoreboardModel)
	if s.IsGoingBack() {
		return s, tea.Quit
	}
	return s, cmd
}
