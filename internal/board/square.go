// Package board implements the cliffchess board: coordinates, pieces, tiles
// with terrain height, and the layout the game starts from.
package board

import (
	"fmt"
	"strconv"
)

// MaxSize is the largest board the letter notation can address (a-z).
const MaxSize = 26

// Position is a tile coordinate on the board.
// Uses bottom-left origin: a1 = {0, 0}, regardless of how tiles are stored.
type Position struct {
	File int
	Rank int
}

// NewPosition creates a position from file and rank (0-indexed).
func NewPosition(file, rank int) Position {
	return Position{File: file, Rank: rank}
}

// String returns the notation for the position (e.g., "e4").
func (p Position) String() string {
	if p.File < 0 || p.File >= MaxSize || p.Rank < 0 {
		return fmt.Sprintf("(%d,%d)", p.File, p.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+p.File, p.Rank+1)
}

// ParsePosition parses notation (e.g., "e4", "b10") into a Position.
// The result is not bounds-checked against any particular board.
func ParsePosition(s string) (Position, error) {
	if len(s) < 2 {
		return Position{}, fmt.Errorf("invalid position: %q", s)
	}

	file := int(s[0]) - 'a'
	if file < 0 || file >= MaxSize {
		return Position{}, fmt.Errorf("invalid position: %q: file must be a lowercase letter", s)
	}

	rank, err := strconv.Atoi(s[1:])
	if err != nil || rank < 1 {
		return Position{}, fmt.Errorf("invalid position: %q: rank must be a number from 1", s)
	}

	return Position{File: file, Rank: rank - 1}, nil
}
