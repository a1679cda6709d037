package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func testModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60, Seed: 31}
	return NewModel(flappy.NewDefault(), store, cfg, "tester", nil)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model
}

func TestModelRecordsPresses(t *testing.T) {
	m := testModel(t, nil)

	m = update(t, m, TickMsg{})
	m = update(t, m, spaceKey)
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	m = update(t, m, spaceKey)
	m = update(t, m, spaceKey)
	m = update(t, m, TickMsg{})

	got := m.Presses()
	want := []uint64{2, 4}
	if len(got) != len(want) {
		t.Fatalf("expected presses %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected presses %v, got %v", want, got)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := testModel(t, nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if v := next.View(); v != "" {
		t.Errorf("expected empty view after quit, got %q", v)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	m := testModel(t, nil)
	for i := 0; i < 10; i++ {
		m = update(t, m, TickMsg{})
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 31})
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("expected 100x30 play area, got %dx%d", m.screen.Width(), m.screen.Height())
	}
	if m.gameState.Tick != 10 {
		t.Errorf("resize must not reset the game, tick %d", m.gameState.Tick)
	}
}

func TestModelJournalsRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := testModel(t, store)
	for i := 0; i < 2000 && !m.gameState.GameOver; i++ {
		if i%35 == 0 {
			m = update(t, m, spaceKey)
		}
		m = update(t, m, TickMsg{})
	}
	if !m.gameState.GameOver {
		t.Fatal("expected the life to end")
	}

	msg, ok := m.saveRun()().(runSavedMsg)
	if !ok {
		t.Fatal("expected runSavedMsg")
	}
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}

	rec, err := store.RunByID(msg.id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if rec.Player != "tester" || rec.Score != m.gameState.Score || rec.Ticks != m.gameState.Tick {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Cause != "ground" && rec.Cause != "obstacle" {
		t.Errorf("unexpected cause %q", rec.Cause)
	}

	if _, ok := VerifyRun(config.DefaultFlappyConfig(), rec); !ok {
		t.Error("journaled run does not replay")
	}

	rec.Seed++
	if _, ok := VerifyRun(config.DefaultFlappyConfig(), rec); ok {
		t.Error("tampered run must not verify")
	}
}
