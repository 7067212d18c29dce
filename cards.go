package main

import (
	"fmt"
	"unicode/utf8"
)

// Card is a rank+suit code such as "A♠" or "10♥", the representation
// the session document carries on the wire.
type Card string

var (
	suits = []string{"♠", "♥", "♦", "♣"}
	ranks = []string{"A", "K", "Q", "J", "10", "9", "8", "7", "6", "5", "4", "3", "2"}
)

// Suit returns the trailing suit symbol.
func (c Card) Suit() string {
	r, size := utf8.DecodeLastRuneInString(string(c))
	if r == utf8.RuneError {
		return ""
	}
	return string(c[len(c)-size:])
}

// Rank returns everything before the suit symbol.
func (c Card) Rank() string {
	_, size := utf8.DecodeLastRuneInString(string(c))
	if size >= len(c) {
		return ""
	}
	return string(c[:len(c)-size])
}

func (c Card) valid() bool {
	suit, rank := c.Suit(), c.Rank()
	validSuit := false
	for _, s := range suits {
		if s == suit {
			validSuit = true
			break
		}
	}
	if !validSuit {
		return false
	}
	for _, r := range ranks {
		if r == rank {
			return true
		}
	}
	return false
}

func parseCard(s string) (Card, error) {
	c := Card(s)
	if !c.valid() {
		return "", fmt.Errorf("invalid card %q", s)
	}
	return c, nil
}

// newDeck builds the full 52-card deck, suit-major.
func newDeck() []Card {
	deck := make([]Card, 0, len(suits)*len(ranks))
	for _, suit := range suits {
		for _, rank := range ranks {
			deck = append(deck, Card(rank+suit))
		}
	}
	return deck
}

// deckWithout returns deck minus the reserved cards, preserving order.
func deckWithout(deck []Card, reserved []Card) []Card {
	out := make([]Card, 0, len(deck))
	for _, c := range deck {
		skip := false
		for _, r := range reserved {
			if c == r {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}
