package game

import (
	"fmt"

	"github.com/hailam/cliffchess/internal/board"
)

// MoveKind tags the variants of Move.
type MoveKind uint8

const (
	MovePlain      MoveKind = iota // destination was empty
	MovePush                       // defender is pushed straight on past the destination
	MoveKnightPush                 // a Knight pushes the defender onto a chosen adjacent tile
	MoveResign
)

// String returns the move kind name.
func (k MoveKind) String() string {
	switch k {
	case MovePlain:
		return "Move"
	case MovePush:
		return "Push"
	case MoveKnightPush:
		return "KnightPush"
	case MoveResign:
		return "Resign"
	default:
		return "Unknown"
	}
}

// Move is a resolved move together with everything applying it changes.
// Only Resolve and Resign produce Moves; they are valid for the board they
// were resolved against until it changes.
type Move struct {
	Kind MoveKind
	From board.Position
	To   board.Position

	// Push is where the defender lands. Meaningless when PushedOff is set,
	// or for plain moves.
	Push board.Position

	// MoverFalls is set when the mover dies falling off a cliff on its way;
	// FallsAt is the tile it falls onto. A falling mover never reaches To
	// and pushes nothing.
	MoverFalls bool
	FallsAt    board.Position

	// PushedOff is set when the defender leaves the board or falls off a cliff.
	PushedOff bool

	// Bonk is set when the defender lands on an occupied tile: the defender
	// and the occupant are both destroyed.
	Bonk bool
}

// Resign returns the resignation move.
func Resign() Move {
	return Move{Kind: MoveResign}
}

// IsPush reports whether the move displaces a defender.
func (m Move) IsPush() bool {
	return (m.Kind == MovePush || m.Kind == MoveKnightPush) && !m.MoverFalls
}

// String returns a short description (e.g., "Push a1-a3").
func (m Move) String() string {
	if m.Kind == MoveResign {
		return "Resign"
	}
	s := fmt.Sprintf("%v %v-%v", m.Kind, m.From, m.To)
	if m.Kind == MoveKnightPush {
		s += fmt.Sprintf(" push %v", m.Push)
	}
	return s
}

// Casualty is a piece destroyed by a move.
type Casualty struct {
	Piece board.Piece
	At    board.Position
}

// Casualties lists the pieces the move destroys, read from the board as it
// is before the move is applied.
func (m Move) Casualties(b *board.Board) []Casualty {
	var out []Casualty
	add := func(p board.Position) {
		if pc := b.PieceAt(p); pc != nil {
			out = append(out, Casualty{Piece: *pc, At: p})
		}
	}

	if m.Kind == MoveResign {
		return nil
	}
	if m.MoverFalls {
		add(m.From)
		return out
	}
	if !m.IsPush() {
		return nil
	}
	if m.PushedOff || m.Bonk {
		add(m.To)
	}
	if m.Bonk {
		add(m.Push)
	}
	return out
}
