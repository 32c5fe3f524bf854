package core

import (
	"testing"

	"github.com/vovakirdan/snakes-foxes/internal/board"
)

func TestInputFrameTarget(t *testing.T) {
	f := NewInputFrame()
	if _, ok := f.Target(); ok {
		t.Error("new frame should carry no target")
	}

	n := board.Node{Ring: 2, Pos: 3}
	f.SetTarget(n)
	if got, ok := f.Target(); !ok || got != n {
		t.Errorf("Target() = (%v, %v), expected (%v, true)", got, ok, n)
	}

	kept := f
	f.Set(ActionConfirm)
	f.Clear()
	if _, ok := f.Target(); ok || !f.Empty() {
		t.Error("Clear() should empty the frame")
	}
	if got, ok := kept.Target(); !ok || got != n {
		t.Errorf("copy Target() = (%v, %v), expected (%v, true)", got, ok, n)
	}

	var zero InputFrame
	if _, ok := zero.Target(); ok {
		t.Error("zero frame should carry no target")
	}
}

func TestInputFrameMerge(t *testing.T) {
	a := NewInputFrame()
	a.Set(ActionRoll)

	b := NewInputFrame()
	b.Set(ActionConfirm)
	b.SetTarget(board.Node{Ring: 1, Pos: 4})

	a.Merge(b)
	if !a.Has(ActionRoll) || !a.Has(ActionConfirm) {
		t.Error("Merge should OR actions together")
	}
	if got, ok := a.Target(); !ok || got != (board.Node{Ring: 1, Pos: 4}) {
		t.Errorf("Target() after Merge = (%v, %v)", got, ok)
	}
}

func TestMultiInputFrame(t *testing.T) {
	m := NewMultiInputFrame()
	f := NewInputFrame()
	f.Set(ActionRoll)
	m.SetPlayer(Player2, f)

	if !m.Player(Player2).Has(ActionRoll) {
		t.Error("Player2 frame should have Roll")
	}
	if m.Player(Player1).Has(ActionRoll) {
		t.Error("Player1 frame should be empty")
	}

	m.SetPlayer(NoPlayer, f)
	if m.Player(NoPlayer).Has(ActionRoll) {
		t.Error("NoPlayer should never hold input")
	}

	copied := m
	p2 := m.Player(Player2)
	p2.Set(ActionPause)
	m.SetPlayer(Player2, p2)
	if copied.Player(Player2).Has(ActionPause) {
		t.Error("copies should not share frames")
	}
}

func TestActionSet(t *testing.T) {
	var f InputFrame
	if !f.Empty() || f.Has(ActionNone) {
		t.Error("zero frame should be empty")
	}
	f.Set(ActionPause)
	f.Set(Action(200))
	if !f.Has(ActionPause) || f.Has(ActionQuit) || f.Has(Action(200)) {
		t.Error("only Pause should be set")
	}
	if ActionConfirm.String() != "Confirm" || Action(200).String() != "Unknown" {
		t.Error("action names are wrong")
	}
}
