package main

import (
	"testing"
)

func TestNextBoardStateTable(t *testing.T) {
	tests := []struct {
		state BoardState
		index int
		want  BoardState
		ok    bool
	}{
		{BoardPreDeal, 0, BoardFlop, true},
		{BoardPreDeal, 1, BoardFlop, true},
		{BoardPreDeal, 2, BoardFlop, true},
		{BoardPreDeal, 3, BoardPreDeal, false},
		{BoardPreDeal, 4, BoardPreDeal, false},
		{BoardFlop, 3, BoardTurn, true},
		{BoardFlop, 0, BoardFlop, false},
		{BoardFlop, 4, BoardFlop, false},
		{BoardTurn, 4, BoardRiver, true},
		{BoardTurn, 3, BoardTurn, false},
		{BoardTurn, 0, BoardTurn, false},
		{BoardRiver, 4, BoardRiver, false},
		{BoardRiver, 0, BoardRiver, false},
		{BoardPreDeal, -1, BoardPreDeal, false},
		{BoardPreDeal, 5, BoardPreDeal, false},
	}
	for _, tc := range tests {
		got, ok := nextBoardState(tc.state, tc.index)
		if got != tc.want || ok != tc.ok {
			t.Errorf("nextBoardState(%q, %d) = (%q, %v), want (%q, %v)",
				tc.state, tc.index, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRevealedCount(t *testing.T) {
	tests := []struct {
		state BoardState
		want  int
	}{
		{BoardPreDeal, 0},
		{BoardFlop, 3},
		{BoardTurn, 4},
		{BoardRiver, 5},
		{"", 0},
	}
	for _, tc := range tests {
		if got := revealedCount(tc.state); got != tc.want {
			t.Errorf("revealedCount(%q) = %d, want %d", tc.state, got, tc.want)
		}
	}
}

func newTestTable(t *testing.T) (*SessionStore, string) {
	t.Helper()
	st := newSessionStore()
	st.SetUnconditional(newSession())

	const dealer = "dana"
	if err := claimRole(st, RoleDealer, dealer); err != nil {
		t.Fatal(err)
	}
	sc, err := newSeededGenerator(21, 12).Generate(3)
	if err != nil {
		t.Fatal(err)
	}
	if err := publishScenario(st, sc); err != nil {
		t.Fatal(err)
	}
	return st, dealer
}

func boardState(t *testing.T, st *SessionStore) BoardState {
	t.Helper()
	snap := st.Get()
	if !snap.Exists || snap.Session.Scenario == nil {
		t.Fatal("no scenario in store")
	}
	return snap.Session.Scenario.GameState.BoardState
}

func TestRevealProgression(t *testing.T) {
	st, dealer := newTestTable(t)

	// Out-of-order tap from pre-deal stays put.
	if err := revealBoardCard(st, dealer, 3); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardPreDeal {
		t.Fatalf("state %q after ignored tap, want pre-deal", got)
	}

	if err := revealBoardCard(st, dealer, 0); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardFlop {
		t.Fatalf("state %q, want flop", got)
	}

	if err := revealBoardCard(st, dealer, 3); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardTurn {
		t.Fatalf("state %q, want turn", got)
	}

	// Duplicate flop tap after the turn is ignored.
	if err := revealBoardCard(st, dealer, 0); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardTurn {
		t.Fatalf("state %q after duplicate tap, want turn", got)
	}

	if err := revealBoardCard(st, dealer, 4); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardRiver {
		t.Fatalf("state %q, want river", got)
	}
}

func TestRevealIgnoredCommitsNothing(t *testing.T) {
	st, dealer := newTestTable(t)
	rev := st.Get().Rev

	if err := revealBoardCard(st, dealer, 4); err != nil {
		t.Fatal(err)
	}
	if got := st.Get().Rev; got != rev {
		t.Errorf("ignored tap committed: rev %d -> %d", rev, got)
	}
}

func TestRevealRequiresDealerClaim(t *testing.T) {
	st, _ := newTestTable(t)

	if err := revealBoardCard(st, "mallory", 0); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardPreDeal {
		t.Fatalf("non-dealer advanced the board to %q", got)
	}
}

func TestNewScenarioResetsBoardState(t *testing.T) {
	st, dealer := newTestTable(t)

	if err := revealBoardCard(st, dealer, 0); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardFlop {
		t.Fatalf("state %q, want flop", got)
	}

	sc, err := newSeededGenerator(31, 7).Generate(3)
	if err != nil {
		t.Fatal(err)
	}
	if err := publishScenario(st, sc); err != nil {
		t.Fatal(err)
	}
	if got := boardState(t, st); got != BoardPreDeal {
		t.Fatalf("state %q after regeneration, want pre-deal", got)
	}
}
