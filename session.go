package main

// startOrResetSession unconditionally overwrites the live session with
// a blank active record: all ten role slots empty, no scenario. Prior
// claims and the prior scenario are discarded — only the director
// drives this, and last writer wins.
func startOrResetSession(cfg *Config, st *SessionStore) {
	st.SetUnconditional(newSession())
	logf(cfg, "TABLE: Session %q started", sessionKey)
}

// publishScenario swaps in a freshly generated round. Claims are left
// untouched, so seated participants stay seated across regeneration.
func publishScenario(st *SessionStore, sc *Scenario) error {
	return st.Transact(func(s *Session) error {
		if !s.IsActive {
			return ErrSessionNotFound
		}
		s.Scenario = sc
		return nil
	})
}
