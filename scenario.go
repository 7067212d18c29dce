package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
)

// HandTemplate is one scripted matchup from the rehearsal catalog. The
// nine cards it names are reserved before any random dealing happens.
type HandTemplate struct {
	Title string
	NP    [2]Card
	OP    [2]Card
	Board [5]Card
}

func (t HandTemplate) reserved() []Card {
	out := make([]Card, 0, 9)
	out = append(out, t.NP[:]...)
	out = append(out, t.OP[:]...)
	return append(out, t.Board[:]...)
}

var handTemplates = []HandTemplate{
	{
		Title: "필연적인 충돌 (AA vs KK)",
		NP:    [2]Card{"A♠", "A♥"},
		OP:    [2]Card{"K♠", "K♥"},
		Board: [5]Card{"9♦", "7♣", "2♥", "5♠", "Q♣"},
	},
	{
		Title: "셋 오버 셋 (Set over Set)",
		NP:    [2]Card{"8♠", "8♦"},
		OP:    [2]Card{"3♠", "3♣"},
		Board: [5]Card{"A♥", "8♣", "3♦", "K♠", "2♥"},
	},
	{
		Title: "역전의 강 (Flush vs Full House)",
		NP:    [2]Card{"A♠", "K♠"},
		OP:    [2]Card{"7♦", "7♥"},
		Board: [5]Card{"K♦", "7♠", "2♠", "Q♣", "7♣"},
	},
}

// SeatHand pairs a dealt hand with its seat and role.
type SeatHand struct {
	Role     string  `json:"role"` // "NP" or "OP"
	Cards    [2]Card `json:"cards"`
	Position int     `json:"position"`
}

type HandInfo struct {
	Title string     `json:"title"`
	Board []Card     `json:"board"`
	Hands []SeatHand `json:"hands"`
}

type Positions struct {
	NP  int   `json:"np"`
	OP  []int `json:"op"`
	All []int `json:"all"`
}

type GameState struct {
	BoardState BoardState `json:"boardState"`
}

// Scenario is one generated round. It is replaced wholesale on every
// regeneration; boardState is the only field mutated in place.
type Scenario struct {
	HandInfo    HandInfo        `json:"handInfo"`
	Positions   Positions       `json:"positions"`
	Rule        CameraRule      `json:"rule"`
	GameState   GameState       `json:"gameState"`
	PlayerHands map[int][2]Card `json:"playerHands"`
	NumPlayers  int             `json:"numPlayers"`
}

func (sc *Scenario) clone() *Scenario {
	if sc == nil {
		return nil
	}
	out := *sc
	out.HandInfo.Board = slices.Clone(sc.HandInfo.Board)
	out.HandInfo.Hands = slices.Clone(sc.HandInfo.Hands)
	out.Positions.OP = slices.Clone(sc.Positions.OP)
	out.Positions.All = slices.Clone(sc.Positions.All)
	out.PlayerHands = make(map[int][2]Card, len(sc.PlayerHands))
	for seat, hand := range sc.PlayerHands {
		out.PlayerHands[seat] = hand
	}
	return &out
}

// Generator builds scenarios from the template catalog and a
// deterministic PRNG, so tests can pin the seed.
type Generator struct {
	rng *rand.Rand
}

func newGenerator() *Generator {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return newSeededGenerator(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	)
}

func newSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Generate builds one internally consistent round for numPlayers seats:
// a random template, random seat assignment with the first shuffled
// seat as NP, template hands for NP and the first OP, random hands off
// the remaining deck for every extra OP, and the camera rule resolved
// from the NP/first-OP seat distance.
func (g *Generator) Generate(numPlayers int) (*Scenario, error) {
	if numPlayers < 2 || numPlayers > seatCount {
		return nil, fmt.Errorf("numPlayers must be between 2 and %d inclusive: %d", seatCount, numPlayers)
	}

	tmpl := handTemplates[g.rng.IntN(len(handTemplates))]

	remaining := deckWithout(newDeck(), tmpl.reserved())
	g.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	seats := make([]int, seatCount)
	for i := range seats {
		seats[i] = i + 1
	}
	g.rng.Shuffle(len(seats), func(i, j int) {
		seats[i], seats[j] = seats[j], seats[i]
	})

	active := seats[:numPlayers]
	npSeat := active[0]
	opSeats := active[1:]

	hands := []SeatHand{{Role: "NP", Cards: tmpl.NP, Position: npSeat}}
	playerHands := map[int][2]Card{npSeat: tmpl.NP}

	if len(opSeats) > 0 {
		hands = append(hands, SeatHand{Role: "OP", Cards: tmpl.OP, Position: opSeats[0]})
		playerHands[opSeats[0]] = tmpl.OP
	}
	for _, seat := range opSeats[1:] {
		hand := [2]Card{remaining[0], remaining[1]}
		remaining = remaining[2:]
		hands = append(hands, SeatHand{Role: "OP", Cards: hand, Position: seat})
		playerHands[seat] = hand
	}

	slices.SortFunc(hands, func(a, b SeatHand) int {
		return a.Position - b.Position
	})

	distance := 0
	if len(opSeats) > 0 {
		distance = circularDistance(npSeat, opSeats[0])
	}

	return &Scenario{
		HandInfo: HandInfo{
			Title: tmpl.Title,
			Board: slices.Clone(tmpl.Board[:]),
			Hands: hands,
		},
		Positions: Positions{
			NP:  npSeat,
			OP:  slices.Clone(opSeats),
			All: slices.Clone(active),
		},
		Rule:        selectRule(distance, g.rng),
		GameState:   GameState{BoardState: BoardPreDeal},
		PlayerHands: playerHands,
		NumPlayers:  numPlayers,
	}, nil
}
