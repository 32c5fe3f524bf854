package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/game"
	"github.com/vovakirdan/snakes-foxes/internal/registry"
	"github.com/vovakirdan/snakes-foxes/internal/storage"
)

// screenshotDir is relative to the XDG data directory.
var screenshotDir = filepath.Join("snakes-foxes", "screenshots")

// moveCursor tracks which legal move is highlighted.
type moveCursor struct {
	node board.Node
}

// sync keeps the cursor on a legal move, falling back to the first one.
func (c *moveCursor) sync(legal []board.Node) {
	for _, n := range legal {
		if n == c.node {
			return
		}
	}
	if len(legal) == 0 {
		c.node = board.None
		return
	}
	c.node = legal[0]
}

// step moves the cursor delta places through legal, wrapping around.
func (c *moveCursor) step(legal []board.Node, delta int) {
	if len(legal) == 0 {
		c.node = board.None
		return
	}
	idx := 0
	for i, n := range legal {
		if n == c.node {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(legal) + len(legal)) % len(legal)
	c.node = legal[idx]
}

// Model is the Bubble Tea model for a hot-seat game: both players share
// the keyboard and every key acts for whoever's turn it is.
type Model struct {
	game     registry.Game
	screen   *core.Screen
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	input    core.InputFrame
	snap     game.Snapshot
	cursor   moveCursor
	quitting bool
	back     bool
	saved    bool // result of the current game already stored
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(g registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	m := Model{
		game:   g,
		screen: core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:  store,
		logger: logger,
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		input:  core.NewInputFrame(),
		cursor: moveCursor{node: board.None},
	}
	g.Reset(cfg)
	m.refresh()
	return m
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

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, quit := m.keys.MapKey(msg)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		m.back = true
		return m, tea.Quit
	case core.ActionNext:
		m.cursor.step(m.snap.Legal, 1)
	case core.ActionPrev:
		m.cursor.step(m.snap.Legal, -1)
	case core.ActionConfirm:
		if !m.cursor.node.IsNone() {
			m.input.SetTarget(m.cursor.node)
		}
	case core.ActionNone:
	default:
		m.input.Set(action)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	boardArea, _ := gameAreas(m.screen.Width(), m.screen.Height())
	proj, ok := NewProjection(m.snap.Rings, m.snap.NodesPerRing, m.snap.Geometry, boardArea)
	if !ok {
		return m, nil
	}
	if n, ok := proj.Nearest(msg.X, msg.Y, m.snap.Legal); ok {
		m.cursor.node = n
		m.input.SetTarget(n)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	restarting := m.input.Has(core.ActionRestart) && m.game.IsGameOver()

	m.game.Step(m.input)
	m.input.Clear()
	if restarting {
		m.saved = false
	}
	m.refresh()

	if m.snap.GameOver && !m.saved {
		m.saveResult()
		m.saved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// refresh pulls a fresh snapshot from the game.
func (m *Model) refresh() {
	if s, ok := m.game.Snapshot().(game.Snapshot); ok {
		m.snap = s
	}
	m.cursor.sync(m.snap.Legal)
}

func (m *Model) saveResult() {
	if m.store == nil {
		return
	}
	s := m.snap
	_, err := m.store.SaveResult(storage.Result{
		Variant:      s.Variant,
		Mode:         string(s.Mode),
		Rings:        s.Rings,
		NodesPerRing: s.NodesPerRing,
		Winner:       s.Winner,
		Reason:       s.Reason.String(),
		Turns:        s.TotalTurns,
		Pieces1:      s.Players[0].Pieces,
		Pieces2:      s.Players[1].Pieces,
	})
	if err != nil {
		m.logger.Warn("failed to save result", "variant", s.Variant, "err", err)
	}
}

// saveScreenshot writes the current screen as plain text.
func (m *Model) saveScreenshot() {
	drawGame(m.screen, m.snap, m.cursor.node, core.NoPlayer)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path, err := xdg.DataFile(filepath.Join(screenshotDir, name))
	if err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot", "path", path, "err", err)
	}
}

// View renders the board, the status panel and the key help.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}
	drawGame(m.screen, m.snap, m.cursor.node, core.NoPlayer)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// WentBack reports whether the player asked to return to the menu.
func (m Model) WentBack() bool {
	return m.back
}

// Run starts the hot-seat game and returns true when the player went back
// to the menu rather than quitting.
func Run(g registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (bool, error) {
	p := tea.NewProgram(
		NewModel(g, store, cfg, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.WentBack(), nil
}
