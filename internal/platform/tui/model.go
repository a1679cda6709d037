package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// runSavedMsg reports the outcome of a journal write.
type runSavedMsg struct {
	id    string
	score int
	err   error
}

// Model is the Bubble Tea model for one play session.
type Model struct {
	game       *flappy.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	player     string
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	presses    []uint64 // Press ticks of the current life
	best       int
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
// store and logger may be nil.
func NewModel(game *flappy.Game, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}

	best := 0
	if store != nil {
		if b, err := store.BestScore(); err == nil {
			best = b
		} else {
			logger.Warn("could not read best score", "error", err)
		}
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		store:      store,
		logger:     logger,
		config:     cfg,
		player:     player,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		best:       best,
	}
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	return m
}

// playHeight leaves one row for the help bar.
func playHeight(h int) int {
	return max(h-1, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()

	case runSavedMsg:
		if msg.err != nil {
			m.logger.Error("could not save run", "error", msg.err)
			return m, nil
		}
		m.logger.Info("run saved", "id", msg.id, "score", msg.score)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick runs one simulation tick with the input collected since the
// last one.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionPress) && m.game.Phase() == flappy.PhaseRunning {
		m.presses = append(m.presses, m.gameState.Tick+1)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}

	if result.Has(core.EffectRestart) {
		m.presses = nil
		m.logger.Debug("life started", "life", m.gameState.Life, "seed", m.game.LifeSeed())
	}
	if result.Has(core.EffectCollided) {
		m.best = max(m.best, m.gameState.Score)
		m.logger.Debug("collided", "cause", m.game.Cause(), "score", m.gameState.Score, "tick", m.gameState.Tick)
		if cmd := m.saveRun(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// saveRun journals the life that just ended.
func (m Model) saveRun() tea.Cmd {
	if m.store == nil {
		return nil
	}
	rec := storage.RunRecord{
		Player:   m.player,
		Seed:     m.game.LifeSeed(),
		TickRate: m.config.TickRate,
		Score:    m.gameState.Score,
		Ticks:    m.gameState.Tick,
		Cause:    m.game.Cause().String(),
		Presses:  append([]uint64(nil), m.presses...),
		Hash:     m.game.Snapshot().Hash(),
	}
	store := m.store
	return func() tea.Msg {
		id, err := store.SaveRun(rec)
		return runSavedMsg{id: id, score: rec.Score, err: err}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".flappy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	status := fmt.Sprintf("best %d  life %d  ", m.best, m.gameState.Life+1)
	return RenderScreen(m.screen) + "\n" + statusStyle.Render(status) + m.help.View(m.keyMapper.Keys())
}

// Presses returns the press ticks recorded for the current life.
func (m Model) Presses() []uint64 {
	return m.presses
}

// Run starts the Bubble Tea program with the given model.
func Run(game *flappy.Game, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) error {
	model := NewModel(game, store, cfg, player, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
