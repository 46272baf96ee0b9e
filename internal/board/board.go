package board

import (
	"fmt"
	"strings"
)

// MaxHeight is the tallest a tile can be.
const MaxHeight = 2

// TileKind marks special squares.
type TileKind uint8

const (
	Normal TileKind = iota
	Goal            // a team's home square, independent of its occupant
)

// Tile is one square of the board.
type Tile struct {
	Height uint8
	Kind   TileKind
	Goal   Team // owner of a Goal tile; meaningless for Normal tiles
	Piece  *Piece
}

// IsGoalOf reports whether the tile is the Goal tile of team t.
func (t *Tile) IsGoalOf(team Team) bool {
	return t.Kind == Goal && t.Goal == team
}

// Board is an NxN grid of tiles plus the team to move.
//
// Tiles are stored row-major with row 0 being the topmost displayed rank,
// so rank N-1 is stored first. Everything outside this file works in
// logical Positions only.
type Board struct {
	Turn  Team
	size  int
	tiles []Tile
}

// New returns an empty size x size board with every tile at height 0.
func New(size int) *Board {
	if size < 1 || size > MaxSize {
		panic(fmt.Sprintf("board size must be between 1 and %d, not %d", MaxSize, size))
	}
	return &Board{
		size:  size,
		tiles: make([]Tile, size*size),
	}
}

// Size returns N for an NxN board.
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether p lies on the board.
func (b *Board) InBounds(p Position) bool {
	return p.File >= 0 && p.File < b.size && p.Rank >= 0 && p.Rank < b.size
}

// index translates a logical position to its storage slot, inverting the rank axis.
func (b *Board) index(p Position) int {
	return (b.size-1-p.Rank)*b.size + p.File
}

// At returns the tile at p. It panics if p is off the board.
func (b *Board) At(p Position) *Tile {
	if !b.InBounds(p) {
		panic(fmt.Sprintf("position %v is out of bounds for a board of size %d by %d", p, b.size, b.size))
	}
	return &b.tiles[b.index(p)]
}

// PieceAt returns the occupant of p, or nil for empty or off-board positions.
func (b *Board) PieceAt(p Position) *Piece {
	if !b.InBounds(p) {
		return nil
	}
	return b.tiles[b.index(p)].Piece
}

// HeightAt returns the terrain height of p.
func (b *Board) HeightAt(p Position) int {
	return int(b.At(p).Height)
}

// Place puts a piece on p, replacing any occupant.
func (b *Board) Place(p Position, pc *Piece) {
	b.At(p).Piece = pc
}

// SetHeight sets the terrain height of p.
func (b *Board) SetHeight(p Position, h uint8) {
	if h > MaxHeight {
		panic(fmt.Sprintf("max tile height is %d, not %d", MaxHeight, h))
	}
	b.At(p).Height = h
}

// SetGoal marks p as the Goal tile of team t.
func (b *Board) SetGoal(p Position, t Team) {
	tile := b.At(p)
	tile.Kind = Goal
	tile.Goal = t
}

// GoalOf returns the Goal tile position of team t.
func (b *Board) GoalOf(t Team) (Position, bool) {
	for i := range b.tiles {
		if b.tiles[i].IsGoalOf(t) {
			return b.positionOf(i), true
		}
	}
	return Position{}, false
}

func (b *Board) positionOf(i int) Position {
	return Position{File: i % b.size, Rank: b.size - 1 - i/b.size}
}

// Pieces calls fn for every occupied tile, in storage order.
func (b *Board) Pieces(fn func(Position, *Piece)) {
	for i := range b.tiles {
		if pc := b.tiles[i].Piece; pc != nil {
			fn(b.positionOf(i), pc)
		}
	}
}

// Clone returns a deep copy of the board. Pieces are copied so the clone
// shares no state with the original.
func (b *Board) Clone() *Board {
	c := &Board{
		Turn:  b.Turn,
		size:  b.size,
		tiles: make([]Tile, len(b.tiles)),
	}
	copy(c.tiles, b.tiles)
	for i := range c.tiles {
		if pc := c.tiles[i].Piece; pc != nil {
			dup := *pc
			c.tiles[i].Piece = &dup
		}
	}
	return c
}

// Equal reports whether two boards hold the same terrain, pieces and turn.
func (b *Board) Equal(o *Board) bool {
	if b.size != o.size || b.Turn != o.Turn {
		return false
	}
	for i := range b.tiles {
		x, y := b.tiles[i], o.tiles[i]
		if x.Height != y.Height || x.Kind != y.Kind || x.Goal != y.Goal {
			return false
		}
		if (x.Piece == nil) != (y.Piece == nil) {
			return false
		}
		if x.Piece != nil && *x.Piece != *y.Piece {
			return false
		}
	}
	return true
}

// String returns a text dump of the board, top rank first.
// Each tile is printed as its height followed by its occupant ("__" if empty),
// with Goal tiles wrapped in brackets.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := b.size - 1; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%2d ", rank+1)
		for file := 0; file < b.size; file++ {
			tile := b.At(Position{File: file, Rank: rank})
			occupant := "__"
			if tile.Piece != nil {
				occupant = tile.Piece.String()
			}
			if tile.Kind == Goal {
				fmt.Fprintf(&sb, "[%d%s]", tile.Height, occupant)
			} else {
				fmt.Fprintf(&sb, " %d%s ", tile.Height, occupant)
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for file := 0; file < b.size; file++ {
		fmt.Fprintf(&sb, "  %c  ", 'a'+file)
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "%s to move\n", b.Turn)
	return sb.String()
}
