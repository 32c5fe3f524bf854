package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/snakes-foxes/internal/config"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
	"github.com/vovakirdan/snakes-foxes/internal/registry"
	"github.com/vovakirdan/snakes-foxes/internal/storage"
)

// sessionEventBuffer is the per-session event queue length. Snapshots
// beyond it are dropped.
const sessionEventBuffer = 256

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file. If empty, a key is
	// generated under the XDG data directory on first start.
	HostKeyPath string

	// DBPath is the results database; empty means storage.DefaultFile.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of local and online games.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer serves the game over SSH and hosts online matches between
// connected sessions.
type SSHServer struct {
	config      SSHServerConfig
	gameConfig  config.GameConfig
	server      *ssh.Server
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server. Every game it starts, local or
// online, is built from gameCfg.
func NewSSHServer(cfg SSHServerConfig, gameCfg config.GameConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	logger = logger.WithPrefix("foxes-ssh")

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config:     cfg,
		gameConfig: gameCfg,
		store:      store,
		sessions:   multiplayer.NewSessionRegistry(),
		logger:     logger,
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	if cfg.TickRate > 0 {
		coordCfg.TickRate = cfg.TickRate
	}
	srv.coordinator = multiplayer.NewCoordinator(coordCfg, srv.newOnlineGame, srv.sessions, logger)
	if store != nil {
		srv.coordinator.SetResultSaver(store)
	}

	hostKeyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		srv.closeStore()
		return nil, err
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
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKey returns path, or the default key location with its
// directory created. wish writes a fresh key there if none exists.
func resolveHostKey(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	path, err := xdg.DataFile(hostKeyFile)
	if err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

const hostKeyFile = "snakes-foxes/host_key"

// newOnlineGame is the coordinator's game factory.
func (s *SSHServer) newOnlineGame(variant string, rc core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	g, err := registry.Create(variant, s.gameConfig, s.logger.WithPrefix("match"))
	if err != nil {
		return nil, err
	}
	g.Reset(rc)
	return g, nil
}

// teaHandler creates a Bubble Tea program for each SSH session and ties the
// session's lifetime to a coordinator session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s@%s-%d", sshSession.User(), sshSession.RemoteAddr(), time.Now().UnixNano()))
	session := multiplayer.NewChannelSession(id, sessionEventBuffer)
	s.sessions.Register(session)

	go func() {
		<-sshSession.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		session.Close()
		s.sessions.Unregister(id)
	}()

	model := NewSessionModel(SessionDeps{
		Store:       s.store,
		GameConfig:  s.gameConfig,
		Coordinator: s.coordinator,
		Session:     session,
		Logger:      s.logger.With("session", id),
	}, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
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
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

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

// Shutdown stops matches and the server and closes the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps are the shared services a session model uses.
type SessionDeps struct {
	Store       *storage.Store
	GameConfig  config.GameConfig
	Coordinator *multiplayer.Coordinator
	Session     *multiplayer.ChannelSession
	Logger      *log.Logger
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenLocal
	screenOnline
	screenResults
)

// SessionModel manages the full flow of one SSH session: menu, local game,
// online match and results, and back to the menu.
type SessionModel struct {
	deps     SessionDeps
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	local    Model
	online   OnlineModel
	results  ResultsModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return SessionModel{
		deps:   deps,
		config: cfg,
		menu:   NewMenuModel(cfg, deps.Coordinator != nil && deps.Session != nil),
	}
}

// Init starts the menu and the coordinator event pump.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), m.pump())
}

// pump reads one coordinator event. It is re-armed after each event, and
// runs for the whole session so no event is lost between screens.
func (m SessionModel) pump() tea.Cmd {
	if m.deps.Session == nil {
		return nil
	}
	return waitForEvent(m.deps.Session.Events())
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch msg.(type) {
	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	case multiplayer.SessionEvent:
		var cmd tea.Cmd
		if m.screen == screenOnline {
			var next tea.Model
			next, cmd = m.online.Update(msg)
			m.online = next.(OnlineModel)
		}
		return m, tea.Batch(cmd, m.pump())
	}

	switch m.screen {
	case screenLocal:
		return m.updateLocal(msg)
	case screenOnline:
		return m.updateOnline(msg)
	case screenResults:
		return m.updateResults(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.config = m.menu.Config()

	// The menu's own tea.Quit is dropped: the session stays open.
	switch selected.Kind {
	case MenuPlay:
		g, err := registry.Create(selected.Variant, m.deps.GameConfig, m.deps.Logger.WithPrefix("game"))
		if err != nil {
			m.deps.Logger.Error("failed to create game", "variant", selected.Variant, "err", err)
			return m.toMenu()
		}
		m.config.Seed = time.Now().UnixNano()
		m.local = NewModel(g, m.deps.Store, m.config, m.deps.Logger)
		m.screen = screenLocal
		return m, m.local.Init()

	case MenuOnline:
		m.online = NewOnlineModel(selected.Variant, m.deps.Session.ID(), m.deps.Coordinator, nil, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenOnline
		return m, m.online.Init()

	case MenuResults:
		m.results = NewResultsModel(m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenResults
		return m, m.results.Init()
	}

	return m.toMenu()
}

func (m SessionModel) updateLocal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.local.Update(msg)
	m.local = next.(Model)

	switch {
	case m.local.WentBack():
		return m.toMenu()
	case m.local.quitting:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.online.Update(msg)
	m.online = next.(OnlineModel)

	switch {
	case m.online.BackToMenu():
		return m.toMenu()
	case m.online.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.results.Update(msg)
	m.results = next.(ResultsModel)

	switch {
	case m.results.IsGoingBack():
		return m.toMenu()
	case m.results.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config, m.deps.Coordinator != nil && m.deps.Session != nil)
	return m, m.menu.Init()
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenLocal:
		return m.local.View()
	case screenOnline:
		return m.online.View()
	case screenResults:
		return m.results.View()
	default:
		return m.menu.View()
	}
}
