package multiplayer

import (
	"crypto/rand"
	"strings"
	"time"
)

// Lobby is a hosted game waiting for its second player.
type Lobby struct {
	Code      string
	Variant   string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// members returns the sessions seated in the lobby, host first.
func (l *Lobby) members() []SessionHandle {
	if l.Joiner == nil {
		return []SessionHandle{l.Host}
	}
	return []SessionHandle{l.Host, l.Joiner}
}

// lobbyTable indexes open lobbies by code and by member session. The
// coordinator's lock guards it.
type lobbyTable struct {
	byCode    map[string]*Lobby
	bySession map[SessionID]string
}

func newLobbyTable() lobbyTable {
	return lobbyTable{
		byCode:    make(map[string]*Lobby),
		bySession: make(map[SessionID]string),
	}
}

// open creates a lobby hosted by host under a fresh code.
func (t lobbyTable) open(host SessionHandle, variant string, now time.Time) *Lobby {
	code := newJoinCode()
	for t.byCode[code] != nil {
		code = newJoinCode()
	}
	l := &Lobby{Code: code, Variant: variant, Host: host, CreatedAt: now}
	t.byCode[code] = l
	t.bySession[host.ID()] = code
	return l
}

// find looks a lobby up by a code as typed by a player.
func (t lobbyTable) find(code string) (*Lobby, bool) {
	l, ok := t.byCode[normalizeCode(code)]
	return l, ok
}

// of returns the lobby a session sits in.
func (t lobbyTable) of(id SessionID) (*Lobby, bool) {
	code, ok := t.bySession[id]
	if !ok {
		return nil, false
	}
	return t.find(code)
}

func (t lobbyTable) seat(l *Lobby, joiner SessionHandle) {
	l.Joiner = joiner
	t.bySession[joiner.ID()] = l.Code
}

// close removes l and frees its members.
func (t lobbyTable) close(l *Lobby) {
	for _, s := range l.members() {
		delete(t.bySession, s.ID())
	}
	delete(t.byCode, l.Code)
}

// detach takes a session out of its lobby. A departing host closes the
// lobby and tells the joiner; a departing joiner frees the seat and tells
// the host.
func (t lobbyTable) detach(id SessionID) {
	l, ok := t.of(id)
	if !ok {
		return
	}
	if l.Host.ID() == id {
		if l.Joiner != nil {
			l.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		}
		t.close(l)
		return
	}
	l.Joiner = nil
	delete(t.bySession, id)
	l.Host.Send(LobbyPlayerLeftEvent{Code: l.Code})
}

// expired returns the lobbies nobody joined within ttl.
func (t lobbyTable) expired(now time.Time, ttl time.Duration) []*Lobby {
	var out []*Lobby
	for _, l := range t.byCode {
		if l.Joiner == nil && now.Sub(l.CreatedAt) > ttl {
			out = append(out, l)
		}
	}
	return out
}

func (t lobbyTable) len() int {
	return len(t.byCode)
}

// joinCodeAlphabet leaves out 0, 1, I and O, which read alike in a
// terminal font. 32 symbols keep a random byte mod len unbiased.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const joinCodeLength = 6

// newJoinCode returns a random six-symbol code.
func newJoinCode() string {
	b := make([]byte, joinCodeLength)
	if _, err := rand.Read(b); err != nil {
		n := time.Now().UnixNano()
		for i := range b {
			b[i] = byte(n >> (5 * i))
		}
	}
	for i := range b {
		b[i] = joinCodeAlphabet[int(b[i])%len(joinCodeAlphabet)]
	}
	return string(b)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
