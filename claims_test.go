package main

import (
	"errors"
	"testing"
)

func TestClaimRoleFreeSlot(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, "4", "alice"); err != nil {
		t.Fatal(err)
	}
	if holder := st.Get().Session.ClaimedRoles["4"]; holder != "alice" {
		t.Fatalf("expected alice on slot 4, got %q", holder)
	}
}

func TestClaimRoleTakenSlot(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, "4", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := claimRole(st, "4", "bob"); !errors.Is(err, ErrRoleUnavailable) {
		t.Fatalf("expected ErrRoleUnavailable, got %v", err)
	}
	if holder := st.Get().Session.ClaimedRoles["4"]; holder != "alice" {
		t.Errorf("failed claim displaced holder: %q", holder)
	}
}

func TestClaimRoleReclaimOwnSlot(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, "4", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := claimRole(st, "4", "alice"); err != nil {
		t.Fatalf("re-claiming own slot failed: %v", err)
	}
}

func TestClaimRoleMovesIdentityAtomically(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, "3", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := claimRole(st, "7", "alice"); err != nil {
		t.Fatal(err)
	}

	roles := st.Get().Session.ClaimedRoles
	if holder := roles["3"]; holder != "" {
		t.Errorf("slot 3 still held by %q after move", holder)
	}
	if holder := roles["7"]; holder != "alice" {
		t.Errorf("expected alice on slot 7, got %q", holder)
	}

	held := 0
	for _, holder := range roles {
		if holder == "alice" {
			held++
		}
	}
	if held != 1 {
		t.Errorf("alice holds %d slots, want 1", held)
	}
}

func TestClaimDealerRole(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, RoleDealer, "dana"); err != nil {
		t.Fatal(err)
	}
	if holder := st.Get().Session.ClaimedRoles[RoleDealer]; holder != "dana" {
		t.Fatalf("expected dana as dealer, got %q", holder)
	}
}

func TestClaimRoleInvalidID(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	for _, id := range []RoleID{"0", "10", "director", ""} {
		if err := claimRole(st, id, "alice"); err == nil {
			t.Errorf("claimRole(%q) succeeded, want error", id)
		}
	}
}

func TestClaimRoleInactiveSession(t *testing.T) {
	st := newSessionStore()
	s := newSession()
	s.IsActive = false
	st.SetUnconditional(s)

	if err := claimRole(st, "1", "alice"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for inactive session, got %v", err)
	}
}

func TestReleaseRole(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())

	if err := claimRole(st, "2", "alice"); err != nil {
		t.Fatal(err)
	}

	if err := releaseRole(st, "alice"); err != nil {
		t.Fatal(err)
	}
	snap := st.Get()
	if holder := snap.Session.ClaimedRoles["2"]; holder != "" {
		t.Errorf("slot 2 still held by %q after release", holder)
	}

	// Releasing with nothing held is a no-op, not a commit.
	rev := snap.Rev
	if err := releaseRole(st, "alice"); err != nil {
		t.Fatal(err)
	}
	if got := st.Get().Rev; got != rev {
		t.Errorf("idle release committed: rev %d -> %d", rev, got)
	}
}

func TestClaimsSurviveScenarioRegeneration(t *testing.T) {
	st := newSessionStore()
	st.SetUnconditional(newSession())
	gen := newSeededGenerator(7, 7)

	if err := claimRole(st, "6", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := claimRole(st, RoleDealer, "dana"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		sc, err := gen.Generate(5)
		if err != nil {
			t.Fatal(err)
		}
		if err := publishScenario(st, sc); err != nil {
			t.Fatal(err)
		}
	}

	roles := st.Get().Session.ClaimedRoles
	if roles["6"] != "alice" || roles[RoleDealer] != "dana" {
		t.Errorf("claims changed across regeneration: %v", roles)
	}
}
