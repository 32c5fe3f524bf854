package multiplayer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakes-foxes/internal/core"
)

// OnlineGame is the game as a match sees it. Only the match goroutine calls
// it.
type OnlineGame interface {
	Reset(cfg core.RuntimeConfig)

	// StepMulti runs one tick with the frames of both seats.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the state sent to both sessions after every tick.
	Snapshot() GameSnapshot

	// ToMove returns the player whose input the game reads next, or
	// NoPlayer once the game is over.
	ToMove() PlayerID

	IsGameOver() bool
	Winner() PlayerID

	// Forfeit ends the game in favor of the seat opposite to seat.
	Forfeit(seat int)

	Pieces1() int
	Pieces2() int

	// TotalTurns returns the combined number of hops made by both players.
	TotalTurns() int

	Table() TableInfo

	// EndReason names how the game itself ended, "" while it runs.
	EndReason() string
}

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Pieces1 int
	Pieces2 int
	Turns   int
	Ticks   uint64

	Table      TableInfo
	GameReason string // the game's own end reason
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// OnlineMatch owns one game on the server. Run ticks it at a fixed rate,
// feeds it the frames of the player to move and streams a snapshot to
// both seats after each tick. Sessions reach it only through SendInput and
// PlayerDisconnected.
type OnlineMatch struct {
	id       MatchID
	code     string
	variant  string
	game     OnlineGame
	seats    [2]SessionHandle
	tickRate int
	logger   *log.Logger

	inputs  chan playerInput
	leaves  chan SessionID
	pending [2]core.InputFrame // touched by the match goroutine only
	tick    uint64

	done     chan struct{}
	stopOnce sync.Once
}

// NewOnlineMatch creates a match between host (Player1) and joiner
// (Player2). A non-positive tick rate means 60 and a nil logger discards.
func NewOnlineMatch(
	id MatchID,
	code string,
	variant string,
	game OnlineGame,
	host, joiner SessionHandle,
	tickRate int,
	logger *log.Logger,
) *OnlineMatch {
	if tickRate <= 0 {
		tickRate = 60
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &OnlineMatch{
		id:       id,
		code:     code,
		variant:  variant,
		game:     game,
		seats:    [2]SessionHandle{host, joiner},
		tickRate: tickRate,
		logger:   logger,
		inputs:   make(chan playerInput, 64),
		leaves:   make(chan SessionID, 2),
		pending:  [2]core.InputFrame{core.NewInputFrame(), core.NewInputFrame()},
		done:     make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the lobby code the match was made from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Variant returns the board variant being played.
func (m *OnlineMatch) Variant() string {
	return m.variant
}

// Session returns the session sitting as p.
func (m *OnlineMatch) Session(p PlayerID) SessionHandle {
	if seat := p.Seat(); seat >= 0 {
		return m.seats[seat]
	}
	return nil
}

// seatOf returns the player a session sits as, NoPlayer for strangers.
func (m *OnlineMatch) seatOf(id SessionID) PlayerID {
	for seat, s := range m.seats {
		if s.ID() == id {
			return core.PlayerForSeat(seat)
		}
	}
	return core.NoPlayer
}

// SendInput queues a frame from player. It never blocks; when the queue is
// full the frame is dropped and the player simply presses again.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputs <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected tells the match a session is gone.
func (m *OnlineMatch) PlayerDisconnected(id SessionID) {
	select {
	case m.leaves <- id:
	default:
	}
}

// Run plays the match until the game ends, a seat leaves or Stop is
// called. onComplete receives the result unless the match was stopped.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.watchSessions()
	m.logger.Debug("match running", "match", m.id, "variant", m.variant)

	finish := func(r MatchResult) {
		if onComplete != nil {
			onComplete(r)
		}
	}

	for {
		select {
		case <-ticker.C:
			if r, over := m.runTick(); over {
				finish(r)
				return
			}
		case id := <-m.leaves:
			finish(m.handleDisconnect(id))
			return
		case <-m.done:
			return
		}
	}
}

// runTick steps the game once with everything queued since the last tick.
func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.collectInputs()

	frame := core.NewMultiInputFrame()
	for seat := range m.pending {
		frame.SetPlayer(core.PlayerForSeat(seat), m.pending[seat])
		m.pending[seat] = core.NewInputFrame()
	}

	m.game.StepMulti(frame)
	m.tick++
	m.broadcast()

	if m.game.IsGameOver() {
		return m.result(MatchEndReasonCompleted), true
	}
	return MatchResult{}, false
}

// collectInputs folds the queued frames into pending. Frames from the
// player who is not to move are discarded.
func (m *OnlineMatch) collectInputs() {
	for {
		select {
		case in := <-m.inputs:
			if in.player == core.NoPlayer || in.player != m.game.ToMove() {
				continue
			}
			m.pending[in.player.Seat()].Merge(in.input)
		default:
			return
		}
	}
}

func (m *OnlineMatch) broadcast() {
	evt := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	for _, s := range m.seats {
		s.Send(evt)
	}
}

func (m *OnlineMatch) result(reason MatchEndReason) MatchResult {
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  m.game.Winner(),
		Pieces1: m.game.Pieces1(),
		Pieces2: m.game.Pieces2(),
		Turns:   m.game.TotalTurns(),
		Ticks:   m.tick,

		Table:      m.game.Table(),
		GameReason: m.game.EndReason(),
	}
}

// handleDisconnect forfeits the game of whoever left and shows the final
// board to the seat still connected.
func (m *OnlineMatch) handleDisconnect(id SessionID) MatchResult {
	leaver := m.seatOf(id)
	if leaver == core.NoPlayer {
		leaver = Player2
	}

	if !m.game.IsGameOver() {
		m.game.Forfeit(leaver.Seat())
		m.broadcast()
	}
	m.logger.Info("player left match", "match", m.id, "player", leaver)

	return m.result(MatchEndReasonDisconnect)
}

func (m *OnlineMatch) watchSessions() {
	select {
	case <-m.seats[0].Done():
		m.PlayerDisconnected(m.seats[0].ID())
	case <-m.seats[1].Done():
		m.PlayerDisconnected(m.seats[1].ID())
	case <-m.done:
	}
}

// Stop ends the match without a result. Safe to call more than once.
func (m *OnlineMatch) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}
