package main

import (
	"errors"
)

// BoardState is the dealer-driven reveal progression of the board.
type BoardState string

const (
	BoardPreDeal BoardState = "pre-deal"
	BoardFlop    BoardState = "flop"
	BoardTurn    BoardState = "turn"
	BoardRiver   BoardState = "river"
)

// errUnchanged aborts a transaction without writing; callers that treat
// the situation as a silent no-op map it back to nil.
var errUnchanged = errors.New("no state change")

// nextBoardState applies the reveal transition table. Tapping any flop
// card from pre-deal turns the flop; the fourth card turns from flop,
// the fifth rivers from turn. Every other combination is illegal and
// reported via ok=false; there are no backward transitions.
func nextBoardState(cur BoardState, cardIndex int) (BoardState, bool) {
	switch {
	case cardIndex >= 0 && cardIndex <= 2 && cur == BoardPreDeal:
		return BoardFlop, true
	case cardIndex == 3 && cur == BoardFlop:
		return BoardTurn, true
	case cardIndex == 4 && cur == BoardTurn:
		return BoardRiver, true
	default:
		return cur, false
	}
}

func revealedCount(state BoardState) int {
	switch state {
	case BoardFlop:
		return 3
	case BoardTurn:
		return 4
	case BoardRiver:
		return 5
	default:
		return 0
	}
}

// revealBoardCard advances the board state for a dealer tap on card
// cardIndex. Only the identity holding the dealer claim may advance;
// out-of-order or duplicate taps are ignored rather than rejected, so a
// mistimed tap on a physical table has no effect.
func revealBoardCard(st *SessionStore, identity string, cardIndex int) error {
	err := st.Transact(func(s *Session) error {
		if !s.IsActive {
			return ErrSessionNotFound
		}
		if identity == "" || s.ClaimedRoles[RoleDealer] != identity {
			return errUnchanged
		}
		if s.Scenario == nil {
			return errUnchanged
		}
		next, ok := nextBoardState(s.Scenario.GameState.BoardState, cardIndex)
		if !ok {
			return errUnchanged
		}
		s.Scenario.GameState.BoardState = next
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}
