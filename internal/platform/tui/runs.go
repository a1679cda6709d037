package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Run journal layout constants
const (
	maxRuns       = 100 // Max runs to load
	replayMargin  = 600 // Extra ticks allowed when verifying a replay
	runsTableRows = 8   // Rows reserved for title, help and margins
)

// RunsKeyMap defines the key bindings for the run journal.
type RunsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Verify key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Verify, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Verify, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Verify: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "verify replay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// VerifyRun replays a journaled run and reports whether it reproduces the
// recorded outcome.
func VerifyRun(cfg config.FlappyConfig, rec storage.RunRecord) (flappy.Snapshot, bool) {
	snap := flappy.Replay(cfg, rec.TickRate, rec.Seed, rec.Presses, rec.Ticks+replayMargin)
	return snap, snap.Hash() == rec.Hash && snap.Tick == rec.Ticks
}

// RunsModel is the Bubble Tea model for the run journal screen.
type RunsModel struct {
	store    *storage.Store
	game     config.FlappyConfig
	runs     []storage.RunRecord
	verified map[string]bool
	table    table.Model
	help     help.Model
	keys     RunsKeyMap
	status   string
	width    int
	height   int
	quitting bool
}

// NewRunsModel creates a new run journal model.
func NewRunsModel(store *storage.Store, game config.FlappyConfig, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		store:    store,
		game:     game,
		verified: make(map[string]bool),
		help:     h,
		keys:     DefaultRunsKeyMap(),
		width:    width,
		height:   height,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 6},
		{Title: "Cause", Width: 9},
		{Title: "Time", Width: 7},
		{Title: "Replay", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-runsTableRows, 3)),
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

// loadRuns loads the most recent runs.
func (m *RunsModel) loadRuns() {
	if m.store == nil {
		m.runs = nil
		m.updateTableRows()
		return
	}

	runs, err := m.store.RecentRuns(maxRuns)
	if err != nil {
		m.runs = nil
		m.status = err.Error()
	} else {
		m.runs = runs
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		replay := "-"
		if ok, done := m.verified[r.ID]; done {
			replay = "ok"
			if !ok {
				replay = "FAIL"
			}
		}
		seconds := 0.0
		if r.TickRate > 0 {
			seconds = float64(r.Ticks) / float64(r.TickRate)
		}
		rows[i] = table.Row{
			r.CreatedAt.Local().Format("Jan 02 15:04"),
			r.Player,
			fmt.Sprintf("%d", r.Score),
			r.Cause,
			fmt.Sprintf("%.1fs", seconds),
			replay,
		}
	}
	m.table.SetRows(rows)
}

// verifySelected replays the highlighted run.
func (m *RunsModel) verifySelected() {
	i := m.table.Cursor()
	if m.store == nil || i < 0 || i >= len(m.runs) {
		return
	}

	rec, err := m.store.RunByID(m.runs[i].ID)
	if err != nil {
		m.status = err.Error()
		return
	}

	snap, ok := VerifyRun(m.game, rec)
	m.verified[rec.ID] = ok
	if ok {
		m.status = fmt.Sprintf("run %s replays to score %d", shortID(rec.ID), snap.Score)
	} else {
		m.status = fmt.Sprintf("run %s diverged: replay scored %d at tick %d", shortID(rec.ID), snap.Score, snap.Tick)
	}
	m.updateTableRows()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the run journal model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run journal.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Verify):
			m.verifySelected()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the run journal.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("RUN JOURNAL", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.status != "" {
		b.WriteString(mutedStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m RunsModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay a game to fill the journal!")
	}

	return m.table.View()
}

// centerText pads text to center it in the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunJournal runs the journal screen until the user quits.
func RunJournal(store *storage.Store, game config.FlappyConfig, width, height int) error {
	p := tea.NewProgram(
		NewRunsModel(store, game, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
