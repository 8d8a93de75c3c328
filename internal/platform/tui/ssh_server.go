// Package tui provides the terminal front end: the game model, the run
// history screen, and the SSH server built on Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/trapcrawl/internal/config"
	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/game"
	"github.com/vovakirdan/trapcrawl/internal/registry"
	"github.com/vovakirdan/trapcrawl/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.trapcrawl/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Scenario is preselected in the session menu.
	Scenario string

	// Difficulty applies to every session.
	Difficulty config.DifficultyPreset

	Logger *log.Logger
}

// SSHServer wraps a Wish SSH server that hosts one run per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "trapcrawl-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".trapcrawl", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
	}
	logger := s.logger.With("user", sshSession.User())

	var store RunStore
	if s.store != nil {
		store = s.store
	}
	model := NewSessionModel(SessionOptions{
		Store:      store,
		History:    s.historySource(),
		Logger:     logger,
		Config:     cfg,
		Scenario:   s.config.Scenario,
		Difficulty: s.config.Difficulty,
	})

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) historySource() RunSource {
	if s.store == nil {
		return nil
	}
	return s.store
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "difficulty", s.config.Difficulty)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Store      RunStore
	History    RunSource
	Logger     *log.Logger
	Config     core.RuntimeConfig
	Scenario   string
	Difficulty config.DifficultyPreset
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenHistory
)

// SessionModel manages one session's flow: menu, game and history, and
// back to the menu.
type SessionModel struct {
	opts    SessionOptions
	screen  sessionScreen
	menu    MenuModel
	game    Model
	history HistoryModel
	err     error
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}
	m := SessionModel{opts: opts}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(registry.List(), m.opts.Scenario, m.opts.Difficulty, m.opts.Config.ScreenW, m.opts.Config.ScreenH)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session. Sub-models signal a screen
// change by quitting; their tea.Quit is swallowed here.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Config.ScreenW = wsm.Width
		m.opts.Config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		return m, tea.Quit

	case m.menu.WantsHistory():
		m.history = NewHistoryModel(m.opts.History, registry.List(), m.opts.Config.ScreenW, m.opts.Config.ScreenH)
		m.screen = screenHistory
		return m, m.history.Init()

	case m.menu.Selected() != nil:
		id := m.menu.Selected().ID
		gm, err := m.startGame(id)
		if err != nil {
			m.opts.Logger.Error("cannot start scenario", "scenario", id, "err", err)
			m.err = err
			m.menu = m.newMenu()
			return m, nil
		}
		m.game = gm
		m.screen = screenGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m SessionModel) startGame(id string) (Model, error) {
	def, err := registry.Create(id)
	if err != nil {
		return Model{}, err
	}
	g := game.NewWithDifficulty(id, *def, m.opts.Difficulty)
	return NewModel(g, Options{
		Store:     m.opts.Store,
		Logger:    m.opts.Logger,
		Config:    m.opts.Config,
		AllowBack: true,
	})
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	if m.game.IsQuitting() {
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.menu = m.newMenu()
		m.screen = screenMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	m.history = next.(HistoryModel)

	if m.history.IsQuitting() {
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.menu = m.newMenu()
		m.screen = screenMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenHistory:
		return m.history.View()
	}
	view := m.menu.View()
	if m.err != nil {
		view += "\n" + colorStyles[core.ColorBrightRed].Render(centerText(m.err.Error(), m.opts.Config.ScreenW))
	}
	return view
}
