package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right corner (exclusive)", 30, 30, false},
		{"just inside bottom-right", 29, 29, true},
		{"left of rect", 5, 15, false},
		{"above rect", 15, 5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectCenter(t *testing.T) {
	x, y := NewRect(4, 2, 10, 6).Center()
	if x != 9 || y != 5 {
		t.Errorf("Center() = (%d, %d), expected (9, 5)", x, y)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(3, 4, 10, 5)
	if r.Right() != 13 || r.Bottom() != 9 {
		t.Errorf("edges = (%d, %d), expected (13, 9)", r.Right(), r.Bottom())
	}
	if NewRect(0, 0, 0, 0).Contains(0, 0) {
		t.Error("empty rect should contain nothing")
	}
}

func TestPlayerSeats(t *testing.T) {
	if PlayerForSeat(0) != Player1 || PlayerForSeat(1) != Player2 || PlayerForSeat(2) != NoPlayer {
		t.Error("PlayerForSeat mapping is wrong")
	}
	if Player2.Seat() != 1 || NoPlayer.Seat() != -1 {
		t.Error("Seat mapping is wrong")
	}
	if Player1.String() != "Player 1" {
		t.Errorf("String() = %q, expected %q", Player1.String(), "Player 1")
	}
}
