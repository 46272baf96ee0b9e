package board

// Team represents one of the two sides.
type Team uint8

const (
	Red Team = iota
	Blue
)

// Other returns the opposing team.
func (t Team) Other() Team {
	return t ^ 1
}

// String returns the team name.
func (t Team) String() string {
	switch t {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	default:
		return "NoTeam"
	}
}

// Char returns the layout character for the team.
func (t Team) Char() byte {
	if t == Blue {
		return 'b'
	}
	return 'r'
}

// PieceKind determines how a piece moves.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Bishop
	Knight
	Rook
	King
)

// String returns the piece kind name.
func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Rook:
		return "Rook"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the layout character for the piece kind.
func (k PieceKind) Char() byte {
	chars := []byte{'P', 'B', 'N', 'R', 'K'}
	if int(k) >= len(chars) {
		return '?'
	}
	return chars[k]
}

func kindFromChar(c byte) (PieceKind, bool) {
	switch c {
	case 'P':
		return Pawn, true
	case 'B':
		return Bishop, true
	case 'N':
		return Knight, true
	case 'R':
		return Rook, true
	case 'K':
		return King, true
	}
	return 0, false
}

// CanMove reports whether the movement shape of k allows going from one
// position to another. Occupancy and terrain are ignored, and callers must
// reject from == to before asking.
func (k PieceKind) CanMove(from, to Position) bool {
	dx := abs(to.File - from.File)
	dy := abs(to.Rank - from.Rank)

	switch k {
	case Pawn, King:
		return max(dx, dy) == 1
	case Bishop:
		return dx == dy && dx != 0
	case Rook:
		return (dx == 0) != (dy == 0)
	case Knight:
		return dx*dy == 2
	}
	return false
}

// Piece is a team-owned piece. A piece lives on exactly one tile.
type Piece struct {
	Team Team
	Kind PieceKind
}

// NewPiece allocates a piece.
func NewPiece(t Team, k PieceKind) *Piece {
	return &Piece{Team: t, Kind: k}
}

// String returns the two-character layout token (e.g., "rK").
func (p Piece) String() string {
	return string([]byte{p.Team.Char(), p.Kind.Char()})
}

// IsKingOf reports whether the piece is the King of team t.
func (p *Piece) IsKingOf(t Team) bool {
	return p != nil && p.Kind == King && p.Team == t
}
