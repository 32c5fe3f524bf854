package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snakes-foxes/internal/board"
	"github.com/vovakirdan/snakes-foxes/internal/core"
	"github.com/vovakirdan/snakes-foxes/internal/game"
	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
)

// OnlineState represents the current state of the online flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
)

const joinCodeLen = 6

// sessionClosedMsg is delivered when the event channel closes.
type sessionClosedMsg struct{}

// OnlineModel handles the online flow from lobby to finished match for one
// SSH session. Only the local player's frames are sent, and only on their
// own turn.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	variant     string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	events      <-chan multiplayer.SessionEvent

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Match state
	matchID multiplayer.MatchID
	side    core.PlayerID
	screen  *core.Screen
	keys    KeyMap
	help    help.Model
	snap    game.Snapshot
	synced  bool
	cursor  moveCursor
	ended   multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for one variant.
func NewOnlineModel(
	variant string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	events <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineModel {
	h := help.New()
	h.Width = width
	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		variant:     variant,
		sessionID:   sessionID,
		coordinator: coordinator,
		events:      events,
		screen:      core.NewScreen(width, max(height-1, 1)),
		keys:        DefaultKeyMap(),
		help:        h,
		cursor:      moveCursor{node: board.None},
	}
}

// Init starts listening for coordinator events.
func (m OnlineModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent reads the next coordinator event. Every event handler
// re-arms it exactly once so there is never more than one reader. A model
// built without a channel relies on its parent to deliver events.
func (m OnlineModel) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil
	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.variant = msg.Variant
		m.state = OnlineStateInMatch
		m.synced = false
	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID {
			if s, ok := msg.Snapshot.(game.Snapshot); ok {
				m.snap = s
				m.synced = true
				m.cursor.sync(m.myLegal())
			}
		}
	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			m.ended = msg
			m.state = OnlineStateMatchEnded
		}
	case multiplayer.SessionEvent:
		// Nothing to show, keep listening.
	default:
		return m, nil
	}
	return m, m.waitForEvent()
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		m.backToMenu = true
	}

	return m, nil
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			Variant:   m.variant,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.backToMenu = true
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Codes are upper-case letters and digits.
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}
	return m, nil
}

func (m OnlineModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, quit := m.keys.MapKey(msg)
	if quit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		m.leave()
		m.backToMenu = true
	case core.ActionNext:
		m.cursor.step(m.myLegal(), 1)
	case core.ActionPrev:
		m.cursor.step(m.myLegal(), -1)
	case core.ActionConfirm:
		if !m.cursor.node.IsNone() {
			frame := core.NewInputFrame()
			frame.SetTarget(m.cursor.node)
			m.send(frame)
		}
	case core.ActionRoll:
		frame := core.NewInputFrame()
		frame.Set(core.ActionRoll)
		m.send(frame)
	}
	return m, nil
}

// myTurn reports whether the local player is to act.
func (m OnlineModel) myTurn() bool {
	return m.synced && !m.snap.GameOver && m.snap.CurrentPlayer() == m.side
}

// myLegal returns the highlighted moves, empty on the opponent's turn.
func (m OnlineModel) myLegal() []board.Node {
	if !m.myTurn() {
		return nil
	}
	return m.snap.Legal
}

func (m OnlineModel) send(frame core.InputFrame) {
	if !m.myTurn() {
		return
	}
	m.coordinator.Send(multiplayer.PlayerInputMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Input:   frame,
	})
}

// leave tells the coordinator this session is abandoning whatever it is in.
func (m OnlineModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	case OnlineStateInMatch:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateInMatch:
		return m.viewMatch()
	case OnlineStateMatchEnded:
		return m.viewMatchEnded()
	}
	return ""
}

// panel lays out a lobby screen: a title, body lines and a key hint, each
// centered. Empty body lines are spacers.
func (m OnlineModel) panel(title, hint string, body ...string) string {
	rows := make([]string, 0, len(body)+5)
	rows = append(rows, "", menuTitleStyle.Render(title), "")
	rows = append(rows, body...)
	rows = append(rows, "", menuDimStyle.Render(hint))
	for i, r := range rows {
		rows[i] = centerText(r, m.width)
	}
	return strings.Join(rows, "\n")
}

func (m OnlineModel) errorLine() []string {
	if m.joinError == "" {
		return nil
	}
	return []string{"", menuActiveStyle.Render("Error: " + m.joinError)}
}

func (m OnlineModel) viewChooseMode() string {
	body := []string{
		"Board: " + m.variant,
		"",
		"[H] Host a game",
		"[J] Join a game",
	}
	return m.panel("ONLINE SNAKES AND FOXES", "Esc: Back  |  Q: Quit", append(body, m.errorLine()...)...)
}

func (m OnlineModel) viewHostWaiting() string {
	return m.panel("HOSTING GAME", "Esc: Cancel  |  Q: Quit",
		"Give this code to your opponent:",
		"",
		menuActiveStyle.Render("[ "+m.lobbyCode+" ]"),
		"",
		"Waiting for a second player...",
	)
}

func (m OnlineModel) viewJoinEnterCode() string {
	code := m.joinCodeInput
	if pad := joinCodeLen - len(code); pad > 0 {
		code += "_" + strings.Repeat(" ", pad-1)
	}
	body := []string{"Type the host's code:", "", "[ " + code + " ]"}
	return m.panel("JOIN GAME", "Enter: Connect  |  Esc: Back", append(body, m.errorLine()...)...)
}

func (m OnlineModel) viewJoinWaiting() string {
	return m.panel("CONNECTING", "Esc: Cancel", "Joining "+m.joinCodeInput+"...")
}

func (m OnlineModel) viewMatch() string {
	if !m.synced {
		return "\n" + centerText(fmt.Sprintf("Match starting, you are %s...", m.side), m.width)
	}
	drawGame(m.screen, m.snap, m.cursor.node, m.side)
	footer := m.help.View(m.keys)
	if !m.myTurn() && !m.snap.GameOver {
		footer = "Waiting for your opponent...  " + footer
	}
	return RenderScreen(m.screen) + "\n" + footer
}

func (m OnlineModel) viewMatchEnded() string {
	e := m.ended
	verdict := "You lose."
	switch e.Winner {
	case core.NoPlayer:
		verdict = "Nobody wins."
	case m.side:
		verdict = "You win!"
	}
	return m.panel("MATCH OVER", "Press any key to return to the menu",
		e.Reason.String(),
		"",
		menuActiveStyle.Render(verdict),
		"",
		fmt.Sprintf("Pieces %d : %d  |  Turns %d", e.Pieces1, e.Pieces2, e.Turns),
	)
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// Side returns which seat this session plays.
func (m OnlineModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineModel) LobbyCode() string {
	return m.lobbyCode
}
