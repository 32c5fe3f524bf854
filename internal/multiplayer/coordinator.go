package multiplayer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakes-foxes/internal/core"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // unjoined lobbies expire after this
	TickRate      int           // match tick rate (Hz)
	CleanupPeriod time.Duration // how often expired lobbies are swept
}

// DefaultCoordinatorConfig returns the settings the SSH server starts with.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory builds the game for a new match.
type GameFactory func(variant string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver stores finished matches. The storage package implements
// it; the coordinator does not import storage.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is what gets stored about a finished match.
type MatchResultData struct {
	MatchID        string
	Variant        string
	Mode           string
	Rings          int
	NodesPerRing   int
	Player1Session string
	Player2Session string
	Pieces1        int
	Pieces2        int
	Winner         int // winning seat, -1 for none
	WinnerSession  string
	EndReason      string
	Turns          int
	DurationSecs   int
}

// Coordinator pairs sessions through lobbies and runs their matches. All
// messages are handled on one goroutine; the lock only guards the tables
// against the cleanup loop, finishing matches and the query methods.
type Coordinator struct {
	config   CoordinatorConfig
	newGame  GameFactory
	sessions *SessionRegistry
	saver    MatchResultSaver
	logger   *log.Logger

	mu      sync.RWMutex
	lobbies lobbyTable
	matches map[MatchID]*OnlineMatch
	inMatch map[SessionID]MatchID

	inbox chan CoordinatorMessage
	done  chan struct{}
}

// NewCoordinator creates a coordinator. A nil logger discards.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		config:   cfg,
		newGame:  factory,
		sessions: sessions,
		logger:   logger,
		lobbies:  newLobbyTable(),
		matches:  make(map[MatchID]*OnlineMatch),
		inMatch:  make(map[SessionID]MatchID),
		inbox:    make(chan CoordinatorMessage, 256),
		done:     make(chan struct{}),
	}
}

// SetResultSaver makes the coordinator store every finished match.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.saver = saver
}

// Start runs the message loop and the lobby sweeper.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	close(c.done)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.matches {
		m.Stop()
	}
}

// Send queues msg for the message loop. It returns at once after Stop.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.inbox <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.inbox:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

// busy explains why a session cannot host or join right now. Callers hold
// c.mu.
func (c *Coordinator) busy(id SessionID) string {
	if _, ok := c.lobbies.of(id); ok {
		return "Already in a lobby"
	}
	if _, ok := c.inMatch[id]; ok {
		return "Already in a match"
	}
	return ""
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	host, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if reason := c.busy(msg.SessionID); reason != "" {
		host.Send(LobbyErrorEvent{Message: reason})
		return
	}

	l := c.lobbies.open(host, msg.Variant, time.Now())
	c.logger.Info("lobby created", "code", l.Code, "variant", l.Variant, "host", msg.SessionID)
	host.Send(LobbyCreatedEvent{Code: l.Code, Variant: l.Variant})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	guest, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if reason := c.busy(msg.SessionID); reason != "" {
		guest.Send(LobbyErrorEvent{Message: reason})
		return
	}

	l, ok := c.lobbies.find(msg.Code)
	switch {
	case !ok:
		guest.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	case l.Joiner != nil:
		guest.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}

	c.lobbies.seat(l, guest)
	l.Host.Send(LobbyJoinedEvent{Code: l.Code, Side: Player1, OpponentID: guest.ID()})
	guest.Send(LobbyJoinedEvent{Code: l.Code, Side: Player2, OpponentID: l.Host.ID()})

	c.startMatch(l)
}

// startMatch turns a full lobby into a running match. The lobby is closed
// either way. Callers hold c.mu.
func (c *Coordinator) startMatch(l *Lobby) {
	c.lobbies.close(l)

	rc := core.DefaultConfig()
	rc.TickRate = c.config.TickRate
	rc.Seed = time.Now().UnixNano()

	game, err := c.newGame(l.Variant, rc)
	if err != nil {
		c.logger.Error("failed to create game", "variant", l.Variant, "err", err)
		for _, s := range l.members() {
			s.Send(LobbyErrorEvent{Message: "Failed to create game"})
		}
		return
	}

	id := MatchID(fmt.Sprintf("match-%s-%d", l.Code, rc.Seed))
	match := NewOnlineMatch(id, l.Code, l.Variant, game, l.Host, l.Joiner, c.config.TickRate, c.logger)
	c.matches[id] = match

	for seat, s := range l.members() {
		c.inMatch[s.ID()] = id
		s.Send(MatchStartedEvent{
			MatchID: id,
			Side:    core.PlayerForSeat(seat),
			Code:    l.Code,
			Variant: l.Variant,
		})
	}
	c.logger.Info("match started", "match", id, "variant", l.Variant, "host", l.Host.ID(), "joiner", l.Joiner.ID())

	go match.Run(func(result MatchResult) {
		c.finishMatch(id, result)
	})
}

// finishMatch forgets a match, stores its result and tells both seats.
func (c *Coordinator) finishMatch(id MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, ok := c.matches[id]
	if !ok {
		return
	}
	delete(c.matches, id)

	p1, p2 := match.Session(Player1), match.Session(Player2)
	delete(c.inMatch, p1.ID())
	delete(c.inMatch, p2.ID())

	c.logger.Info("match ended", "match", id, "reason", result.Reason, "winner", result.Winner, "turns", result.Turns)
	c.saveResult(match, result)

	end := MatchEndedEvent{
		MatchID: id,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Pieces1: result.Pieces1,
		Pieces2: result.Pieces2,
		Turns:   result.Turns,
	}
	p1.Send(end)
	p2.Send(end)
}

// saveResult hands the result to the saver off the coordinator's lock.
func (c *Coordinator) saveResult(match *OnlineMatch, result MatchResult) {
	if c.saver == nil {
		return
	}

	winnerSession := ""
	if s := match.Session(result.Winner); s != nil {
		winnerSession = string(s.ID())
	}
	data := MatchResultData{
		MatchID:        string(match.ID()),
		Variant:        match.Variant(),
		Mode:           result.Table.Mode,
		Rings:          result.Table.Rings,
		NodesPerRing:   result.Table.NodesPerRing,
		Player1Session: string(match.Session(Player1).ID()),
		Player2Session: string(match.Session(Player2).ID()),
		Pieces1:        result.Pieces1,
		Pieces2:        result.Pieces2,
		Winner:         result.Winner.Seat(),
		WinnerSession:  winnerSession,
		EndReason:      storedReason(result),
		Turns:          result.Turns,
		DurationSecs:   int(result.Ticks / uint64(max(1, c.config.TickRate))), //nolint:gosec // tick rate is clamped positive
	}

	saver, logger := c.saver, c.logger
	go func() {
		if err := saver.SaveMatchResult(data); err != nil {
			logger.Warn("failed to save match result", "match", data.MatchID, "err", err)
		}
	}()
}

// storedReason is the end reason kept with a result: the game's own reason
// for games played out, the match reason for a seat that left.
func storedReason(r MatchResult) string {
	if r.Reason == MatchEndReasonDisconnect || r.GameReason == "" {
		return r.Reason.String()
	}
	return r.GameReason
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.lobbies.find(msg.Code)
	if !ok || l.Host.ID() != msg.SessionID {
		return
	}
	c.lobbies.detach(msg.SessionID)
	c.logger.Debug("lobby cancelled", "code", l.Code)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.lobbies.of(msg.SessionID); ok && l.Code == normalizeCode(msg.Code) {
		c.lobbies.detach(msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	if match, ok := c.GetMatch(msg.MatchID); ok {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	if match, ok := c.GetMatch(msg.MatchID); ok {
		match.SendInput(msg.Player, msg.Input)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lobbies.detach(msg.SessionID)
	if id, ok := c.inMatch[msg.SessionID]; ok {
		if match, ok := c.matches[id]; ok {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lobbies.expired(time.Now(), c.config.LobbyTimeout) {
		l.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
		c.lobbies.close(l)
		c.logger.Debug("lobby expired", "code", l.Code)
	}
}

// GetLobby returns the open lobby with the given code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lobbies.find(code)
}

// GetMatch returns a running match.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lobbies.len()
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
