package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/game"
	"github.com/vovakirdan/trapcrawl/internal/level"
	"github.com/vovakirdan/trapcrawl/internal/storage"
)

type fakeStore struct {
	runs []storage.Run
}

func (f *fakeStore) SaveRun(r storage.Run) (int64, error) {
	f.runs = append(f.runs, r)
	return int64(len(f.runs)), nil
}

// trapRoom has a kill trap right of the player and a free cell below.
func trapRoom() level.Definition {
	return level.Definition{
		ID:     "traproom",
		Name:   "Trap Room",
		Size:   level.Size{W: 8, H: 6},
		Player: level.Creature{X: 1, Y: 1, HP: 5},
		Traps: []level.TrapSpec{
			{X: 2, Y: 1, Kind: "kill"},
		},
	}
}

func newTestModel(t *testing.T, store RunStore) Model {
	t.Helper()
	m, err := NewModel(game.New("traproom", trapRoom()), Options{
		Store:  store,
		Logger: log.New(io.Discard),
		Config: core.RuntimeConfig{ScreenW: 60, ScreenH: 30, Seed: 7},
	})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestModelRecordsLossOnce(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	m, _ = press(t, m, runeKey('l'))
	if !m.game.State().GameOver {
		t.Fatal("stepping on the kill trap did not end the run")
	}
	m, _ = press(t, m, runeKey('l'))

	if len(store.runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(store.runs))
	}
	r := store.runs[0]
	if r.Outcome != storage.OutcomeLost || r.Turns != 1 || r.FinalHP != 0 || r.ScenarioID != "traproom" {
		t.Errorf("run = %+v, expected lost after 1 turn with 0 HP", r)
	}
	if r.Seed != 7 {
		t.Errorf("run seed = %d, expected 7", r.Seed)
	}
}

func TestModelRestartAllowsNewRecord(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	m, _ = press(t, m, runeKey('l'))
	m, _ = press(t, m, runeKey('r'))
	if m.game.State().GameOver {
		t.Fatal("restart did not start a new run")
	}
	if m.game.State().Turns != 0 {
		t.Errorf("turns after restart = %d, expected 0", m.game.State().Turns)
	}

	m, _ = press(t, m, runeKey('l'))
	if len(store.runs) != 2 {
		t.Errorf("saved %d runs, expected 2", len(store.runs))
	}
}

func TestModelQuit(t *testing.T) {
	tests := []struct {
		name      string
		keys      []tea.KeyMsg
		wantSaved int
	}{
		{"before any turn", nil, 0},
		{"after a turn", []tea.KeyMsg{runeKey('j')}, 1},
		{"bump into wall is no turn", []tea.KeyMsg{runeKey('k')}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			m := newTestModel(t, store)
			for _, k := range tt.keys {
				m, _ = press(t, m, k)
			}

			m, cmd := press(t, m, runeKey('q'))
			if cmd == nil {
				t.Fatal("quit returned no command")
			}
			if !m.IsQuitting() {
				t.Error("IsQuitting() = false, expected true")
			}
			if len(store.runs) != tt.wantSaved {
				t.Fatalf("saved %d runs, expected %d", len(store.runs), tt.wantSaved)
			}
			if tt.wantSaved > 0 && store.runs[0].Outcome != storage.OutcomeQuit {
				t.Errorf("outcome = %q, expected %q", store.runs[0].Outcome, storage.OutcomeQuit)
			}
		})
	}
}

func TestModelBack(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("esc left a standalone game")
	}

	m.allowBack = true
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc did not return to the menu")
	}
}

func TestModelNilStore(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, runeKey('l'))
	if !m.saved {
		t.Error("loss not marked as recorded without a store")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()
	if !strings.Contains(view, "Trap Room") {
		t.Error("view is missing the scenario title")
	}
	if !strings.Contains(view, "quit") {
		t.Error("view is missing the help line")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = next.(Model)
	if m.screen.Width() != 80 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, expected 80x39", m.screen.Width(), m.screen.Height())
	}
}
