package game

import (
	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/rules"
)

// walk is the state folded over the tiles of one terrain check.
type walk struct {
	climbed bool
	falls   bool
	fallsAt board.Position
}

// checkTerrain walks the path a piece takes from one tile to another and
// evaluates the cliff rules at each step. The shape must already be validated.
//
// Straight movers visit every tile in between. Knights jump, so only the
// two endpoints are compared.
func (e *Engine) checkTerrain(b *board.Board, kind board.PieceKind, from, to board.Position) (walk, error) {
	if kind == board.Knight {
		return e.terrainStep(b, walk{}, from, to)
	}

	var w walk
	dir := from.DirectionTo(to)
	for cur := from; cur != to; cur = cur.Step(dir) {
		if w.climbed {
			if err := e.rules.Check(rules.MoveAfterClimb, e.prompter); err != nil {
				return w, err
			}
		}

		var err error
		w, err = e.terrainStep(b, w, cur, cur.Step(dir))
		if err != nil || w.falls {
			return w, err
		}
	}
	return w, nil
}

// terrainStep folds a single step between two tiles into w.
func (e *Engine) terrainStep(b *board.Board, w walk, from, to board.Position) (walk, error) {
	rise := b.HeightAt(to) - b.HeightAt(from)

	switch {
	case rise >= 2:
		if err := e.rules.Check(rules.ClimbDoubleCliffs, e.prompter); err != nil {
			return w, err
		}
		w.climbed = true
	case rise == 1:
		w.climbed = true
	case rise <= -2:
		if err := e.rules.Check(rules.SuicideOffCliff, e.prompter); err != nil {
			return w, err
		}
		w.falls = true
		w.fallsAt = to
	}
	return w, nil
}
