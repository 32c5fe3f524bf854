package multiplayer

import "sync"

// SessionHandle is how the coordinator and matches reach a connected
// player. Nothing behind it may block the caller.
type SessionHandle interface {
	ID() SessionID
	Send(evt SessionEvent)
	// Done is closed when the player's connection goes away.
	Done() <-chan struct{}
}

// ChannelSession queues events on a bounded channel that a Bubble Tea
// program drains. Each SSH connection owns one.
type ChannelSession struct {
	id     SessionID
	events chan SessionEvent

	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelSession returns an open session holding up to buffer undelivered
// events; buffer below one means 64.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send queues evt, evicting the oldest queued event when the buffer is
// full. A later snapshot always describes the whole board, so a slow
// terminal loses frames, never the current state. Closed sessions ignore
// events.
func (s *ChannelSession) Send(evt SessionEvent) {
	if s.Closed() {
		return
	}
	if s.offer(evt) {
		return
	}
	select {
	case <-s.events:
	default:
	}
	s.offer(evt)
}

func (s *ChannelSession) offer(evt SessionEvent) bool {
	select {
	case s.events <- evt:
		return true
	default:
		return false
	}
}

// Events is the receive side for the terminal program.
func (s *ChannelSession) Events() <-chan SessionEvent { return s.events }

func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Closed reports whether Close was called.
func (s *ChannelSession) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close ends the session. Repeated calls are no-ops.
func (s *ChannelSession) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// SessionRegistry maps IDs to connected sessions. The SSH middleware
// registers a session on connect and unregisters it on hang-up; the
// coordinator resolves IDs through it.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

// Register adds s, replacing any session already known under its ID.
func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Get looks up a connected session.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns how many sessions are connected.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
