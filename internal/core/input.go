package core

import "github.com/vovakirdan/snakes-foxes/internal/board"

// Action is a player intent, decoupled from the key that produced it.
type Action uint8

const (
	ActionNone    Action = iota
	ActionRoll           // throw the dice
	ActionNext           // cursor to the next legal node
	ActionPrev           // cursor to the previous legal node
	ActionConfirm        // hop to the node under the cursor
	ActionBack           // leave to the menu
	ActionRestart        // new game once the current one is over
	ActionQuit
	ActionPause

	actionCount
)

var actionNames = [actionCount]string{
	"None", "Roll", "Next", "Prev", "Confirm", "Back", "Restart", "Quit", "Pause",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame is what one player did during one tick: a set of actions and
// optionally the node they picked. Frames are plain values; copying one
// copies everything.
type InputFrame struct {
	actions   uint16
	target    board.Node
	hasTarget bool
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{target: board.None}
}

func (f *InputFrame) Set(a Action) {
	if a < actionCount {
		f.actions |= 1 << a
	}
}

func (f InputFrame) Has(a Action) bool {
	return a < actionCount && f.actions&(1<<a) != 0
}

// Empty reports whether the frame carries neither an action nor a target.
func (f InputFrame) Empty() bool {
	return f.actions == 0 && !f.hasTarget
}

// SetTarget records the picked node. board.None clears it.
func (f *InputFrame) SetTarget(n board.Node) {
	f.target = n
	f.hasTarget = !n.IsNone()
}

// Target returns the picked node, if any.
func (f InputFrame) Target() (board.Node, bool) {
	if !f.hasTarget {
		return board.None, false
	}
	return f.target, true
}

// Clear empties the frame for the next tick.
func (f *InputFrame) Clear() {
	*f = NewInputFrame()
}

// Merge adds the actions of other to f. A target in other wins over f's.
func (f *InputFrame) Merge(other InputFrame) {
	f.actions |= other.actions
	if n, ok := other.Target(); ok {
		f.SetTarget(n)
	}
}

// MultiInputFrame holds both players' frames for one tick, whether they
// came from one keyboard or two SSH sessions.
type MultiInputFrame struct {
	frames [2]InputFrame
}

func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{frames: [2]InputFrame{NewInputFrame(), NewInputFrame()}}
}

// Player returns id's frame; NoPlayer gets an empty one.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if seat := id.Seat(); seat >= 0 {
		return m.frames[seat]
	}
	return NewInputFrame()
}

// SetPlayer stores id's frame. Frames for NoPlayer are ignored.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if seat := id.Seat(); seat >= 0 {
		m.frames[seat] = frame
	}
}
