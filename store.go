// The authoritative rehearsal state is a single session document behind
// a small in-process store that mimics the transactional document-store
// contract the rest of the code is written against: unconditional
// overwrite, optimistic read-modify-write transactions, and ordered
// change notification with snapshot replay on subscribe.

package main

import (
	"strconv"
	"sync"
)

// sessionKey is the fixed, well-known id of the only live session.
const sessionKey = "live-session"

const seatCount = 9

// RoleID names one claimable slot: seats "1".."9" plus "dealer".
type RoleID string

const RoleDealer RoleID = "dealer"

func allRoleIDs() []RoleID {
	ids := make([]RoleID, 0, seatCount+1)
	for seat := 1; seat <= seatCount; seat++ {
		ids = append(ids, seatRole(seat))
	}
	return append(ids, RoleDealer)
}

func seatRole(seat int) RoleID {
	return RoleID(strconv.Itoa(seat))
}

// Seat returns the seat number for a seat role, or 0 for "dealer" and
// anything else that is not a valid seat.
func (r RoleID) Seat() int {
	if len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
		return int(r[0] - '0')
	}
	return 0
}

func validRole(r RoleID) bool {
	return r == RoleDealer || r.Seat() != 0
}

// Session is the shared record every participant coordinates through.
// Role slots are always present; an empty string means unclaimed.
type Session struct {
	IsActive     bool              `json:"isActive"`
	ClaimedRoles map[RoleID]string `json:"claimedRoles"`
	Scenario     *Scenario         `json:"scenario"`
}

func newSession() *Session {
	roles := make(map[RoleID]string, seatCount+1)
	for _, id := range allRoleIDs() {
		roles[id] = ""
	}
	return &Session{
		IsActive:     true,
		ClaimedRoles: roles,
	}
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		IsActive:     s.IsActive,
		ClaimedRoles: make(map[RoleID]string, len(s.ClaimedRoles)),
		Scenario:     s.Scenario.clone(),
	}
	for id, holder := range s.ClaimedRoles {
		out.ClaimedRoles[id] = holder
	}
	return out
}

// roleHeldBy returns the single role this identity currently occupies,
// or "" if it holds none.
func (s *Session) roleHeldBy(identity string) RoleID {
	if identity == "" {
		return ""
	}
	for id, holder := range s.ClaimedRoles {
		if holder == identity {
			return id
		}
	}
	return ""
}

// Snapshot is one committed version of the session record. Snapshots
// are shared between subscribers and must be treated as read-only.
type Snapshot struct {
	Session *Session
	Exists  bool
	Rev     uint64
}

// maxTxAttempts bounds transparent conflict retries before a
// transaction fails with ErrTxConflict.
const maxTxAttempts = 16

// SessionStore guards the single session record. All cross-client
// coordination goes through it; there is no other shared state.
type SessionStore struct {
	mu      sync.Mutex
	session *Session
	rev     uint64
	subs    map[*subscriber]struct{}
}

func newSessionStore() *SessionStore {
	return &SessionStore{
		subs: make(map[*subscriber]struct{}),
	}
}

// Get returns the current committed version.
func (st *SessionStore) Get() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshotLocked()
}

// SetUnconditional replaces the record wholesale. Last writer wins.
func (st *SessionStore) SetUnconditional(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.session = s.clone()
	st.commitLocked()
}

// Delete removes the record. Subscribers observe an absent snapshot.
func (st *SessionStore) Delete() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session == nil {
		return
	}
	st.session = nil
	st.commitLocked()
}

// Transact runs fn against a private copy of the record and commits the
// result atomically. If another writer committed in between, the whole
// read-apply-commit cycle is retried against the fresh version; fn must
// therefore be safe to re-run. An error from fn aborts without writing
// and is returned as-is. Returns ErrSessionNotFound when no record
// exists.
func (st *SessionStore) Transact(fn func(*Session) error) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		st.mu.Lock()
		if st.session == nil {
			st.mu.Unlock()
			return ErrSessionNotFound
		}
		base := st.rev
		working := st.session.clone()
		st.mu.Unlock()

		if err := fn(working); err != nil {
			return err
		}

		st.mu.Lock()
		if st.session == nil {
			st.mu.Unlock()
			return ErrSessionNotFound
		}
		if st.rev != base {
			st.mu.Unlock()
			continue
		}
		st.session = working
		st.commitLocked()
		st.mu.Unlock()
		return nil
	}

	return ErrTxConflict
}

// Subscribe delivers the current snapshot followed by every committed
// version in commit order. The returned cancel func stops delivery and
// closes the channel.
func (st *SessionStore) Subscribe() (<-chan Snapshot, func()) {
	sub := &subscriber{
		out:  make(chan Snapshot, 1),
		done: make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)

	st.mu.Lock()
	st.subs[sub] = struct{}{}
	sub.push(st.snapshotLocked())
	st.mu.Unlock()

	go sub.drain()

	cancel := func() {
		st.mu.Lock()
		delete(st.subs, sub)
		st.mu.Unlock()
		sub.close()
	}

	return sub.out, cancel
}

func (st *SessionStore) snapshotLocked() Snapshot {
	return Snapshot{
		Session: st.session.clone(),
		Exists:  st.session != nil,
		Rev:     st.rev,
	}
}

func (st *SessionStore) commitLocked() {
	st.rev++
	snap := st.snapshotLocked()
	for sub := range st.subs {
		sub.push(snap)
	}
}

// subscriber buffers committed snapshots so a slow consumer never
// forces the store to drop a version or block a commit.
type subscriber struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []Snapshot
	closed  bool
	out     chan Snapshot
	done    chan struct{}
}

func (sub *subscriber) push(snap Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}
	sub.pending = append(sub.pending, snap)
	sub.cond.Signal()
}

func (sub *subscriber) close() {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.done)
	sub.cond.Signal()
}

func (sub *subscriber) drain() {
	defer close(sub.out)

	for {
		sub.mu.Lock()
		for len(sub.pending) == 0 && !sub.closed {
			sub.cond.Wait()
		}
		if sub.closed {
			sub.mu.Unlock()
			return
		}
		next := sub.pending[0]
		sub.pending = sub.pending[1:]
		sub.mu.Unlock()

		select {
		case sub.out <- next:
		case <-sub.done:
			return
		}
	}
}
