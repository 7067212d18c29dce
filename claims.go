package main

import (
	"errors"
	"fmt"
)

// claimRole reserves roleID for identity in a single transaction.
// Claiming a role while holding another moves the identity: every slot
// it previously held is vacated in the same commit, so at no committed
// version does an identity occupy two slots. A slot held by someone
// else fails with ErrRoleUnavailable; re-claiming a slot you already
// hold succeeds.
func claimRole(st *SessionStore, roleID RoleID, identity string) error {
	if !validRole(roleID) {
		return fmt.Errorf("invalid role id %q", roleID)
	}
	if identity == "" {
		return errors.New("missing identity")
	}

	return st.Transact(func(s *Session) error {
		if !s.IsActive {
			return ErrSessionNotFound
		}
		if holder := s.ClaimedRoles[roleID]; holder != "" && holder != identity {
			return ErrRoleUnavailable
		}
		for id, holder := range s.ClaimedRoles {
			if holder == identity {
				s.ClaimedRoles[id] = ""
			}
		}
		s.ClaimedRoles[roleID] = identity
		return nil
	})
}

// releaseRole vacates every slot held by identity. Holding no slot is
// not an error; the transaction aborts without a commit.
func releaseRole(st *SessionStore, identity string) error {
	if identity == "" {
		return nil
	}

	err := st.Transact(func(s *Session) error {
		changed := false
		for id, holder := range s.ClaimedRoles {
			if holder == identity {
				s.ClaimedRoles[id] = ""
				changed = true
			}
		}
		if !changed {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}
