package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/snakes-foxes/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveResult(Result{Variant: "classic", Winner: 0, Reason: "round trip completed"}); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	results, err := store.RecentResults("", 10)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("RecentResults() returned %d results, expected 1", len(results))
	}
}

func TestSaveAndRecentResults(t *testing.T) {
	store := openTestStore(t)

	saved := []Result{
		{Variant: "classic", Mode: "medium", Rings: 6, NodesPerRing: 10, Winner: 0, Reason: "round trip completed", Turns: 31, Pieces1: 2, Pieces2: 1},
		{Variant: "classic", Mode: "hard", Rings: 6, NodesPerRing: 10, Winner: NoWinner, Reason: "both players captured", Turns: 12},
		{Variant: "small", Mode: "easy", Rings: 4, NodesPerRing: 8, Winner: 1, Reason: "round trip completed", Turns: 9, Pieces1: 1, Pieces2: 2},
	}
	for _, r := range saved {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	all, err := store.RecentResults("", 10)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("RecentResults() returned %d results, expected 3", len(all))
	}
	// Same-second inserts fall back to insertion order, newest first.
	if all[0].Variant != "small" || all[0].Winner != 1 || all[0].Rings != 4 {
		t.Errorf("newest result = %+v", all[0])
	}
	if all[1].Winner != NoWinner || all[1].Mode != "hard" {
		t.Errorf("second result = %+v", all[1])
	}
	if all[2].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	classic, err := store.RecentResults("classic", 1)
	if err != nil {
		t.Fatalf("RecentResults(classic) failed: %v", err)
	}
	if len(classic) != 1 || classic[0].Variant != "classic" {
		t.Errorf("RecentResults(classic, 1) = %+v", classic)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	for _, winner := range []int{0, 0, 1, NoWinner} {
		if _, err := store.SaveResult(Result{Variant: "classic", Winner: winner, Reason: "x", Turns: 10}); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	if _, err := store.SaveResult(Result{Variant: "large", Winner: 1, Reason: "x", Turns: 40}); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	st, err := store.Stats("classic")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.Games != 4 || st.Wins != [2]int{2, 1} || st.NoWinner != 1 {
		t.Errorf("Stats(classic) = %+v", st)
	}
	if st.AvgTurns != 10 {
		t.Errorf("AvgTurns = %v, expected 10", st.AvgTurns)
	}

	empty, err := store.Stats("small")
	if err != nil {
		t.Fatalf("Stats(small) failed: %v", err)
	}
	if empty.Games != 0 {
		t.Errorf("Stats(small).Games = %d, expected 0", empty.Games)
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("AllStats() has %d variants, expected 2", len(all))
	}
}

func TestSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	data := multiplayer.MatchResultData{
		MatchID:        "match-ABCDEF-1",
		Variant:        "classic",
		Mode:           "hard",
		Rings:          6,
		NodesPerRing:   10,
		Player1Session: "alice@1.2.3.4",
		Player2Session: "bob@5.6.7.8",
		Pieces1:        2,
		Pieces2:        1,
		Winner:         0,
		WinnerSession:  "alice@1.2.3.4",
		EndReason:      "Opponent disconnected",
		Turns:          14,
		DurationSecs:   95,
	}
	if err := store.SaveMatchResult(data); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}
	if err := store.SaveMatchResult(data); err == nil {
		t.Error("saving the same match twice should fail")
	}

	r, err := store.ResultByMatch("match-ABCDEF-1")
	if err != nil {
		t.Fatalf("ResultByMatch() failed: %v", err)
	}
	if r == nil {
		t.Fatal("ResultByMatch() returned nil")
	}
	if !r.Online || r.Winner != 0 || r.Turns != 14 || r.DurationSecs != 95 || r.Player2Session != "bob@5.6.7.8" {
		t.Errorf("ResultByMatch() = %+v", r)
	}
	if r.Mode != "hard" || r.Rings != 6 || r.NodesPerRing != 10 || r.Reason != "Opponent disconnected" {
		t.Errorf("ResultByMatch() lost the table or reason: %+v", r)
	}

	missing, err := store.ResultByMatch("nope")
	if err != nil || missing != nil {
		t.Errorf("ResultByMatch(nope) = (%v, %v), expected (nil, nil)", missing, err)
	}
}

func TestClearResults(t *testing.T) {
	store := openTestStore(t)
	store.SaveResult(Result{Variant: "classic", Reason: "x"})
	store.SaveResult(Result{Variant: "small", Reason: "x"})

	if err := store.ClearResults("classic"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}
	results, _ := store.RecentResults("", 10)
	if len(results) != 1 || results[0].Variant != "small" {
		t.Errorf("after ClearResults = %+v", results)
	}
}
