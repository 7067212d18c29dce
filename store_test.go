package main

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSetUnconditionalResetsEverything(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, "3", "alice"); err != nil {
		t.Fatal(err)
	}
	sc, err := newSeededGenerator(1, 2).Generate(4)
	if err != nil {
		t.Fatal(err)
	}
	if err := publishScenario(st, sc); err != nil {
		t.Fatal(err)
	}

	st.SetUnconditional(newSession())

	snap := st.Get()
	if !snap.Exists {
		t.Fatal("expected session to exist after reset")
	}
	if snap.Session.Scenario != nil {
		t.Error("expected no scenario after reset")
	}
	if got := len(snap.Session.ClaimedRoles); got != seatCount+1 {
		t.Fatalf("expected %d role slots, got %d", seatCount+1, got)
	}
	for id, holder := range snap.Session.ClaimedRoles {
		if holder != "" {
			t.Errorf("role %q still held by %q after reset", id, holder)
		}
	}
}

func TestTransactAbortDoesNotCommit(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())
	before := st.Get().Rev

	boom := errors.New("boom")
	err := st.Transact(func(s *Session) error {
		s.ClaimedRoles["1"] = "mallory"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected abort error, got %v", err)
	}

	snap := st.Get()
	if snap.Rev != before {
		t.Errorf("aborted transaction bumped revision: %d -> %d", before, snap.Rev)
	}
	if holder := snap.Session.ClaimedRoles["1"]; holder != "" {
		t.Errorf("aborted transaction leaked write: %q", holder)
	}
}

func TestTransactMissingSession(t *testing.T) {
	st := newSessionStore()

	err := st.Transact(func(s *Session) error { return nil })
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTransactRetriesOnConflict(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	// Race a conflicting commit in during the first attempt only.
	raced := false
	err := st.Transact(func(s *Session) error {
		if !raced {
			raced = true
			if err := st.Transact(func(inner *Session) error {
				inner.ClaimedRoles["9"] = "bob"
				return nil
			}); err != nil {
				t.Fatal(err)
			}
		}
		s.ClaimedRoles["1"] = "alice"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	snap := st.Get()
	if snap.Session.ClaimedRoles["1"] != "alice" {
		t.Error("retried transaction did not commit")
	}
	if snap.Session.ClaimedRoles["9"] != "bob" {
		t.Error("retry clobbered the interleaved commit")
	}
}

func TestSubscribeReplaysThenDeliversInCommitOrder(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	snaps, cancel := st.Subscribe()
	defer cancel()

	first := recvSnap(t, snaps)
	if !first.Exists {
		t.Fatal("expected replayed snapshot to exist")
	}

	for seat := 1; seat <= 3; seat++ {
		if err := claimRole(st, seatRole(seat), "alice"); err != nil {
			t.Fatal(err)
		}
	}

	prev := first.Rev
	for i := 0; i < 3; i++ {
		snap := recvSnap(t, snaps)
		if snap.Rev != prev+1 {
			t.Fatalf("out-of-order delivery: rev %d after %d", snap.Rev, prev)
		}
		prev = snap.Rev
	}

	// Alice moved seat each time; the final version has her on seat 3.
	last := st.Get()
	if got := last.Session.roleHeldBy("alice"); got != seatRole(3) {
		t.Errorf("expected alice on seat 3, got %q", got)
	}
}

func TestSubscribeObservesDeletion(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	snaps, cancel := st.Subscribe()
	defer cancel()

	if snap := recvSnap(t, snaps); !snap.Exists {
		t.Fatal("expected initial snapshot to exist")
	}

	st.Delete()

	snap := recvSnap(t, snaps)
	if snap.Exists || snap.Session != nil {
		t.Error("expected absent snapshot after delete")
	}
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		st := newSessionStore()
		st.SetUnconditional(newSession())

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, who := range []string{"alice", "bob"} {
			wg.Add(1)
			go func(i int, who string) {
				defer wg.Done()
				errs[i] = claimRole(st, "5", who)
			}(i, who)
		}
		wg.Wait()

		var won, lost int
		for _, err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrRoleUnavailable):
				lost++
			default:
				t.Fatalf("unexpected claim error: %v", err)
			}
		}
		if won != 1 || lost != 1 {
			t.Fatalf("expected exactly one winner, got %d winners / %d losers", won, lost)
		}

		holder := st.Get().Session.ClaimedRoles["5"]
		if holder != "alice" && holder != "bob" {
			t.Fatalf("slot 5 held by %q", holder)
		}
	}
}

func recvSnap(t *testing.T, snaps <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-snaps:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}
