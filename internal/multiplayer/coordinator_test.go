package multiplayer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/snakes-foxes/internal/core"
)

type recordingSaver struct {
	results chan MatchResultData
}

func (s recordingSaver) SaveMatchResult(r MatchResultData) error {
	s.results <- r
	return nil
}

type coordinatorFixture struct {
	c     *Coordinator
	host  *ChannelSession
	guest *ChannelSession
	games chan *fakeGame
}

func newCoordinatorFixture(t *testing.T) coordinatorFixture {
	t.Helper()
	sessions := NewSessionRegistry()
	host := NewChannelSession("host", 64)
	guest := NewChannelSession("guest", 64)
	sessions.Register(host)
	sessions.Register(guest)

	games := make(chan *fakeGame, 4)
	factory := func(variant string, _ core.RuntimeConfig) (OnlineGame, error) {
		if variant == "broken" {
			return nil, errors.New("no such board")
		}
		g := newFakeGame()
		games <- g
		return g, nil
	}

	cfg := DefaultCoordinatorConfig()
	cfg.TickRate = 200
	c := NewCoordinator(cfg, factory, sessions, nil)
	t.Cleanup(func() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		for _, m := range c.matches {
			m.Stop()
		}
	})
	return coordinatorFixture{c: c, host: host, guest: guest, games: games}
}

func (f coordinatorFixture) createLobby(t *testing.T, variant string) string {
	t.Helper()
	f.c.handleMessage(CreateLobbyMsg{SessionID: "host", Variant: variant})
	evt := waitFor[LobbyCreatedEvent](t, f.host)
	require.Len(t, evt.Code, 6)
	require.Equal(t, variant, evt.Variant)
	return evt.Code
}

func TestCoordinatorLobbyToMatch(t *testing.T) {
	f := newCoordinatorFixture(t)
	saver := recordingSaver{results: make(chan MatchResultData, 1)}
	f.c.SetResultSaver(saver)

	code := f.createLobby(t, "small")
	require.Equal(t, 1, f.c.LobbyCount())

	f.c.handleMessage(JoinLobbyMsg{SessionID: "guest", Code: strings.ToLower(code)})

	joined := waitFor[LobbyJoinedEvent](t, f.guest)
	require.Equal(t, Player2, joined.Side)
	require.Equal(t, SessionID("host"), joined.OpponentID)

	started := waitFor[MatchStartedEvent](t, f.host)
	require.Equal(t, Player1, started.Side)
	require.Equal(t, "small", started.Variant)
	require.Equal(t, 0, f.c.LobbyCount())
	require.Equal(t, 1, f.c.MatchCount())

	_, ok := f.c.GetMatch(started.MatchID)
	require.True(t, ok)

	// The guest leaves and forfeits.
	f.c.handleMessage(SessionDisconnectedMsg{SessionID: "guest"})

	ended := waitFor[MatchEndedEvent](t, f.host)
	require.Equal(t, MatchEndReasonDisconnect, ended.Reason)
	require.Equal(t, Player1, ended.Winner)
	require.Equal(t, 7, ended.Turns)

	select {
	case r := <-saver.results:
		require.Equal(t, string(started.MatchID), r.MatchID)
		require.Equal(t, "small", r.Variant)
		require.Equal(t, "host", r.WinnerSession)
		require.Equal(t, 0, r.Winner)
		require.Equal(t, 2, r.Pieces1)
		require.Equal(t, 1, r.Pieces2)
		require.Equal(t, "hard", r.Mode)
		require.Equal(t, 4, r.Rings)
		require.Equal(t, 8, r.NodesPerRing)
		require.Equal(t, "Opponent disconnected", r.EndReason)
	case <-time.After(2 * time.Second):
		t.Fatal("match result was not saved")
	}

	require.Eventually(t, func() bool { return f.c.MatchCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestCoordinatorRoutesInput(t *testing.T) {
	f := newCoordinatorFixture(t)
	code := f.createLobby(t, "classic")
	f.c.handleMessage(JoinLobbyMsg{SessionID: "guest", Code: code})
	started := waitFor[MatchStartedEvent](t, f.guest)
	g := <-f.games
	g.pass(Player2)

	in := core.NewInputFrame()
	in.Set(core.ActionRoll)
	f.c.handleMessage(PlayerInputMsg{MatchID: started.MatchID, Player: Player2, Input: in})

	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		for _, frame := range g.inputs {
			if frame.Player(Player2).Has(core.ActionRoll) {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	g.end(Player2)
	ended := waitFor[MatchEndedEvent](t, f.guest)
	require.Equal(t, MatchEndReasonCompleted, ended.Reason)
	require.Equal(t, Player2, ended.Winner)
}

func TestCoordinatorJoinErrors(t *testing.T) {
	f := newCoordinatorFixture(t)

	f.c.handleMessage(JoinLobbyMsg{SessionID: "guest", Code: "NOPE42"})
	require.Equal(t, "Lobby not found", waitFor[LobbyErrorEvent](t, f.guest).Message)

	code := f.createLobby(t, "classic")
	f.c.handleMessage(JoinLobbyMsg{SessionID: "host", Code: code})
	require.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, f.host).Message)

	f.c.handleMessage(CreateLobbyMsg{SessionID: "host", Variant: "classic"})
	require.Equal(t, "Already in a lobby", waitFor[LobbyErrorEvent](t, f.host).Message)
	require.Equal(t, 1, f.c.LobbyCount())
}

func TestCoordinatorFactoryFailure(t *testing.T) {
	f := newCoordinatorFixture(t)
	code := f.createLobby(t, "broken")

	f.c.handleMessage(JoinLobbyMsg{SessionID: "guest", Code: code})
	require.Equal(t, "Failed to create game", waitFor[LobbyErrorEvent](t, f.guest).Message)
	require.Equal(t, 0, f.c.MatchCount())
	require.Equal(t, 0, f.c.LobbyCount())

	// Both sessions are free to host again.
	f.createLobby(t, "classic")
}

func TestCoordinatorCancelAndLeave(t *testing.T) {
	f := newCoordinatorFixture(t)
	code := f.createLobby(t, "classic")

	f.c.handleMessage(CancelLobbyMsg{SessionID: "guest", Code: code})
	require.Equal(t, 1, f.c.LobbyCount(), "only the host may cancel")

	f.c.handleMessage(CancelLobbyMsg{SessionID: "host", Code: code})
	require.Equal(t, 0, f.c.LobbyCount())

	code = f.createLobby(t, "classic")
	f.c.handleMessage(LeaveLobbyMsg{SessionID: "host", Code: code})
	require.Equal(t, 0, f.c.LobbyCount())
}

func TestCoordinatorExpiresLobbies(t *testing.T) {
	f := newCoordinatorFixture(t)
	code := f.createLobby(t, "classic")

	lobby, ok := f.c.GetLobby(code)
	require.True(t, ok)
	f.c.mu.Lock()
	lobby.CreatedAt = time.Now().Add(-time.Hour)
	f.c.mu.Unlock()

	f.c.cleanupExpiredLobbies()
	require.Equal(t, 0, f.c.LobbyCount())
	require.Equal(t, "Lobby expired", waitFor[LobbyErrorEvent](t, f.host).Message)
}

func TestNewJoinCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := newJoinCode()
		require.Len(t, code, 6)
		require.Equal(t, strings.ToUpper(code), code)
		require.NotContains(t, code, "0")
		require.NotContains(t, code, "O")
	}
}

func TestLobbyTableDetach(t *testing.T) {
	table := newLobbyTable()
	host := NewChannelSession("host", 8)
	guest := NewChannelSession("guest", 8)

	l := table.open(host, "classic", time.Now())
	found, ok := table.find(" " + strings.ToLower(l.Code) + " ")
	require.True(t, ok)
	require.Same(t, l, found)

	table.seat(l, guest)
	table.detach("guest")
	require.Nil(t, l.Joiner)
	_, ok = table.of("guest")
	require.False(t, ok)
	require.Equal(t, LobbyPlayerLeftEvent{Code: l.Code}, <-host.Events())

	table.seat(l, guest)
	table.detach("host")
	require.Equal(t, 0, table.len())
	ended, ok := (<-guest.Events()).(MatchEndedEvent)
	require.True(t, ok)
	require.Equal(t, MatchEndReasonHostLeft, ended.Reason)
	_, ok = table.of("guest")
	require.False(t, ok)
}

func TestStoredReason(t *testing.T) {
	played := MatchResult{Reason: MatchEndReasonCompleted, GameReason: "turn limit reached"}
	require.Equal(t, "turn limit reached", storedReason(played))

	left := MatchResult{Reason: MatchEndReasonDisconnect, GameReason: "forfeit"}
	require.Equal(t, "Opponent disconnected", storedReason(left))

	require.Equal(t, "Match completed", storedReason(MatchResult{Reason: MatchEndReasonCompleted}))
}
