package board

// Direction is a unit step with each axis in {-1, 0, 1}.
type Direction struct {
	DF int
	DR int
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DirectionTo returns the per-axis sign of the displacement from p to q.
// It is only a compass direction when q lies on a straight line from p.
func (p Position) DirectionTo(q Position) Direction {
	return Direction{sign(q.File - p.File), sign(q.Rank - p.Rank)}
}

// Step returns the position one tile away in direction d.
func (p Position) Step(d Direction) Position {
	return Position{File: p.File + d.DF, Rank: p.Rank + d.DR}
}

// MooreDistance returns the Chebyshev distance between two positions,
// i.e. the number of king steps between them.
func (p Position) MooreDistance(q Position) int {
	return max(abs(p.File-q.File), abs(p.Rank-q.Rank))
}

// IsStraight reports whether q lies on one of the 8 compass lines from p.
// Equal positions are not straight.
func (p Position) IsStraight(q Position) bool {
	df, dr := q.File-p.File, q.Rank-p.Rank
	if df == 0 && dr == 0 {
		return false
	}
	ortho := (df == 0) != (dr == 0)
	diag := abs(df) == abs(dr)
	return ortho || diag
}

// Project continues the line from p through the given position by one more tile.
// Returns false if the two positions are equal, the displacement is not one of the
// 8 compass directions, or the projected tile falls outside [0, bound) on either axis.
func (p Position) Project(through Position, bound int) (Position, bool) {
	if !p.IsStraight(through) {
		return Position{}, false
	}
	next := through.Step(p.DirectionTo(through))
	if next.File < 0 || next.File >= bound || next.Rank < 0 || next.Rank >= bound {
		return Position{}, false
	}
	return next, true
}
