package board

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Layout6 is the starting layout of the 6x6 board, top rank first.
const Layout6 = `
rK rR __ __ __ __
rN rP __ __ __ __
__ __ __ __ __ __
__ __ __ __ __ __
__ __ __ __ bP bN
__ __ __ __ bR bK`

// Layout8 is the starting layout of the 8x8 board, top rank first.
const Layout8 = `
__ __ __ __ __ rP rR rK
__ __ __ __ __ __ rN rB
__ __ __ __ __ __ rP __
__ __ __ __ __ __ __ __
__ __ __ __ __ __ __ __
__ __ __ __ __ bP __ __
bB bN __ __ __ __ __ __
bK bR bP __ __ __ __ __`

// FirstTurn is the team that moves first in a new game.
const FirstTurn = Blue

// LayoutFor returns the built-in layout for a board size.
func LayoutFor(size int) (string, error) {
	switch size {
	case 6:
		return Layout6, nil
	case 8:
		return Layout8, nil
	}
	return "", fmt.Errorf("no layout for a board of size %d (want 6 or 8)", size)
}

// NewBoard builds the built-in starting board of the given size.
func NewBoard(size int, rng *rand.Rand) (*Board, error) {
	layout, err := LayoutFor(size)
	if err != nil {
		return nil, err
	}
	return FromLayout(layout, rng)
}

// rollHeight maps a roll in [0, 9) to a tile height:
// 1 in 9 tiles is a 2-high plateau, 2 in 9 are 1-high, the rest flat.
func rollHeight(roll int) uint8 {
	switch {
	case roll == 0:
		return 2
	case roll < 3:
		return 1
	}
	return 0
}

// FromLayout parses a whitespace-separated layout, top rank first.
// Each token is "__" for an empty tile or a team letter (r, b) followed by a
// piece letter (K, R, N, B, P). Every tile gets a random height from rng; a
// nil rng leaves the board flat. Each King's starting tile becomes its team's
// Goal tile, and each team must have exactly one King.
func FromLayout(layout string, rng *rand.Rand) (*Board, error) {
	tokens := strings.Fields(layout)

	size := 0
	for size*size < len(tokens) {
		size++
	}
	if size*size != len(tokens) || size == 0 {
		return nil, fmt.Errorf("invalid layout: %d tiles do not form a square board", len(tokens))
	}
	if size > MaxSize {
		return nil, fmt.Errorf("invalid layout: board size %d exceeds %d", size, MaxSize)
	}

	b := New(size)
	b.Turn = FirstTurn

	var kings [2]int
	for i, tok := range tokens {
		p := b.positionOf(i)
		if rng != nil {
			b.SetHeight(p, rollHeight(rng.IntN(9)))
		}

		pc, err := parseToken(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid layout at %v: %w", p, err)
		}
		if pc == nil {
			continue
		}
		b.Place(p, pc)
		if pc.Kind == King {
			kings[pc.Team]++
			b.SetGoal(p, pc.Team)
		}
	}

	for _, t := range []Team{Red, Blue} {
		if kings[t] != 1 {
			return nil, fmt.Errorf("invalid layout: %v has %d Kings, want exactly 1", t, kings[t])
		}
	}

	return b, nil
}

func parseToken(tok string) (*Piece, error) {
	if tok == "__" {
		return nil, nil
	}
	if len(tok) != 2 {
		return nil, fmt.Errorf("tile token %q must be 2 characters", tok)
	}

	var team Team
	switch tok[0] {
	case 'r':
		team = Red
	case 'b':
		team = Blue
	default:
		return nil, fmt.Errorf("tile token %q must start with a team: r or b", tok)
	}

	kind, ok := kindFromChar(tok[1])
	if !ok {
		return nil, fmt.Errorf("unknown piece %q in token %q", tok[1], tok)
	}
	return NewPiece(team, kind), nil
}
