package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/game"
	"github.com/vovakirdan/trapcrawl/internal/storage"
)

// RunStore persists finished runs.
type RunStore interface {
	SaveRun(r storage.Run) (int64, error)
}

// Options configures a Model.
type Options struct {
	Store     RunStore // May be nil; runs are then not recorded
	Logger    *log.Logger
	Config    core.RuntimeConfig
	AllowBack bool // Esc returns to the scenario menu instead of doing nothing
}

// Model is the Bubble Tea model for one scenario.
// The simulation is turn-based: every game key is one Step, there is no tick.
type Model struct {
	game   *game.Game
	screen *core.Screen
	store  RunStore
	logger *log.Logger
	config core.RuntimeConfig

	keys      KeyMap
	help      help.Model
	allowBack bool

	saved      bool // Whether the current run has been recorded
	quitting   bool
	backToMenu bool
	err        error
}

// NewModel resets the game and wraps it in a model.
// A zero seed is replaced with a time-based one.
func NewModel(g *game.Game, opts Options) (Model, error) {
	cfg := opts.Config
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	if err := g.Reset(gameConfig(cfg)); err != nil {
		return Model{}, err
	}
	logger.Info("run started", "scenario", g.ID(), "seed", g.Seed())

	return Model{
		game:      g,
		screen:    core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:     opts.Store,
		logger:    logger,
		config:    cfg,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		allowBack: opts.AllowBack,
	}, nil
}

// gameHeight leaves one row below the game for the help line.
func gameHeight(h int) int {
	return max(h-1, 1)
}

func gameConfig(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.recordQuit()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if !m.allowBack {
			return m, nil
		}
		m.recordQuit()
		m.backToMenu = true
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	frame := m.keys.Frame(msg)
	if len(frame.Actions) == 0 {
		return m, nil
	}

	before := m.game.State()
	res, err := m.game.Step(frame)
	if err != nil {
		m.logger.Error("simulation failed", "scenario", m.game.ID(), "seed", m.game.Seed(), "err", err)
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	if before.GameOver && !res.State.GameOver {
		m.saved = false
		m.logger.Info("run restarted", "scenario", m.game.ID(), "seed", m.game.Seed())
		return m, nil
	}

	if res.TurnTaken {
		last := m.game.Last()
		m.logger.Debug("turn",
			"turn", last.Turn,
			"attacks", len(last.Attacks),
			"triggers", len(last.Triggers),
			"consumed", len(last.Consumed),
			"slain", len(last.Slain),
			"hp", m.game.World().PlayerVitals().HP,
		)
	}

	if res.State.GameOver && !m.saved {
		m.record(storage.OutcomeLost)
	}
	return m, nil
}

// recordQuit saves an unfinished run once at least one turn was taken.
func (m *Model) recordQuit() {
	if m.saved || m.game.State().Turns == 0 {
		return
	}
	m.record(storage.OutcomeQuit)
}

// record saves the current run. Storage failures are logged; the game goes on.
func (m *Model) record(outcome storage.Outcome) {
	m.saved = true
	state := m.game.State()
	m.logger.Info("run finished",
		"scenario", m.game.ID(),
		"outcome", outcome,
		"turns", state.Turns,
		"kills", state.Kills,
		"seed", m.game.Seed(),
	)
	if m.store == nil {
		return
	}
	_, err := m.store.SaveRun(storage.Run{
		ScenarioID: m.game.ID(),
		Outcome:    outcome,
		Turns:      state.Turns,
		Kills:      state.Kills,
		FinalHP:    m.game.World().PlayerVitals().HP,
		Seed:       m.game.Seed(),
	})
	if err != nil {
		m.logger.Warn("failed to save run", "err", err)
	}
}

// handleResize processes window resize events.
// The world is kept; only the layout changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	h := gameHeight(msg.Height)
	m.screen.Resize(msg.Width, h)
	m.game.Resize(msg.Width, h)
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".trapcrawl", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the simulation error that stopped the model, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program for one scenario.
func Run(g *game.Game, opts Options) error {
	model, err := NewModel(g, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
