// Package game validates and applies cliffchess moves: movement shapes,
// terrain, pushes and the house rules that govern risky moves.
package game

import (
	"fmt"
	"log"

	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/rules"
)

// DebugMoves enables logging of every applied move.
var DebugMoves = false

// Engine resolves and applies moves under a set of house rules.
// It keeps no state between calls.
type Engine struct {
	rules    rules.RuleSet
	prompter rules.Prompter
}

// NewEngine creates an engine. The prompter is asked to confirm warnings.
func NewEngine(rs rules.RuleSet, p rules.Prompter) *Engine {
	return &Engine{rules: rs, prompter: p}
}

// Rules returns the house rules in effect.
func (e *Engine) Rules() rules.RuleSet {
	return e.rules
}

// Resolve validates moving the piece on from to to and works out what the
// move does. push is the landing tile a Knight pushes a defender onto; it is
// ignored for other pieces and for moves onto empty tiles.
//
// Resolve never changes the board. Warnings may prompt the player; a declined
// warning returns ErrCancelled.
func (e *Engine) Resolve(b *board.Board, from, to board.Position, push *board.Position) (Move, error) {
	n := b.Size()
	for _, p := range []board.Position{from, to} {
		if !b.InBounds(p) {
			return Move{}, fmt.Errorf("%w: you cannot move a piece on %v, it's out of bounds for a board of size %d by %d",
				ErrOutOfBounds, p, n, n)
		}
	}

	mover := b.PieceAt(from)
	if mover == nil {
		return Move{}, fmt.Errorf("%w: the tile at position %v is empty", ErrEmptyOrigin, from)
	}
	if mover.Team != b.Turn {
		return Move{}, fmt.Errorf("%w: the %v team tried to move the piece at %v, which is from the %v team",
			ErrWrongTeam, b.Turn, from, mover.Team)
	}
	if from == to || !mover.Kind.CanMove(from, to) {
		return Move{}, fmt.Errorf("%w: a %v cannot move from %v to %v", ErrIllegalTrajectory, mover.Kind, from, to)
	}

	w, err := e.checkTerrain(b, mover.Kind, from, to)
	if err != nil {
		return Move{}, err
	}

	m := Move{Kind: MovePlain, From: from, To: to, MoverFalls: w.falls, FallsAt: w.fallsAt}
	if defender := b.PieceAt(to); defender != nil {
		m.Kind = MovePush
		if mover.Kind == board.Knight {
			m.Kind = MoveKnightPush
		}
		if !m.MoverFalls {
			if err := e.resolvePush(b, &m, mover, defender, push); err != nil {
				return Move{}, err
			}
		}
	}

	// Losing the own King is only confirmed while the enemy King survives.
	ownKing, enemyKing := false, false
	for _, c := range m.Casualties(b) {
		ownKing = ownKing || c.Piece.IsKingOf(mover.Team)
		enemyKing = enemyKing || c.Piece.IsKingOf(mover.Team.Other())
	}
	if ownKing && !enemyKing {
		if err := e.rules.Check(rules.KingSuicide, e.prompter); err != nil {
			return Move{}, err
		}
	}

	return m, nil
}

// resolvePush works out where the defender on m.To ends up.
func (e *Engine) resolvePush(b *board.Board, m *Move, mover, defender *board.Piece, push *board.Position) error {
	var landing board.Position
	onBoard := false
	if m.Kind == MoveKnightPush {
		if push == nil {
			return fmt.Errorf("%w: a Knight must choose where to push the piece on %v", ErrInvalidPushTarget, m.To)
		}
		if m.To.MooreDistance(*push) != 1 {
			return fmt.Errorf("%w: a Knight must push by exactly one space in one of 8 directions, "+
				"it cannot push a piece from %v onto %v", ErrInvalidPushTarget, m.To, *push)
		}
		landing, onBoard = *push, b.InBounds(*push)
	} else {
		landing, onBoard = m.From.Project(m.To, b.Size())
	}
	m.Push = landing

	if defender.Team == mover.Team {
		if err := e.rules.Check(rules.PushTeammates, e.prompter); err != nil {
			return err
		}
	}

	// The enemy King is never protected by a warning.
	enemyKing := defender.IsKingOf(mover.Team.Other())

	if !onBoard {
		if !enemyKing {
			if err := e.rules.Check(rules.SuicideOffBoard, e.prompter); err != nil {
				return err
			}
		}
		m.PushedOff = true
		return nil
	}

	drop := b.HeightAt(m.To) - b.HeightAt(landing)
	if drop <= -2 {
		if err := e.rules.Check(rules.ClimbDoubleCliffs, e.prompter); err != nil {
			return err
		}
	}

	if victim := b.PieceAt(landing); victim != nil {
		if victim.Team == mover.Team && !enemyKing {
			if err := e.rules.Check(rules.CliffBonkFriendlyFire, e.prompter); err != nil {
				return err
			}
		}
		m.Bonk = true
		return nil
	}

	if drop >= 2 {
		if !enemyKing {
			if err := e.rules.Check(rules.SuicideOffCliff, e.prompter); err != nil {
				return err
			}
		}
		m.PushedOff = true
	}
	return nil
}

// Apply carries out a resolved move and returns the resulting game state.
// Every move except Resign passes the turn to the other team.
func (e *Engine) Apply(b *board.Board, m Move) GameState {
	if m.Kind == MoveResign {
		if DebugMoves {
			log.Printf("[Game] %v resigns", b.Turn)
		}
		return Won(b.Turn.Other())
	}

	us := b.Turn
	casualties := m.Casualties(b)

	mover := b.PieceAt(m.From)
	b.Place(m.From, nil)

	if m.IsPush() {
		defender := b.PieceAt(m.To)
		b.Place(m.To, nil)
		switch {
		case m.Bonk:
			b.Place(m.Push, nil)
		case !m.PushedOff:
			b.Place(m.Push, defender)
		}
	}
	if !m.MoverFalls {
		b.Place(m.To, mover)
	}

	b.Turn = us.Other()

	if DebugMoves {
		log.Printf("[Game] %v played %v, %d casualties", us, m, len(casualties))
	}

	return stateAfter(us, casualties)
}

// stateAfter decides the game state once team us has lost the given pieces.
// Destroying the enemy King wins even if the mover loses its own King in the same move.
func stateAfter(us board.Team, casualties []Casualty) GameState {
	ownKing := false
	for _, c := range casualties {
		if c.Piece.IsKingOf(us.Other()) {
			return Won(us)
		}
		if c.Piece.IsKingOf(us) {
			ownKing = true
		}
	}
	if ownKing {
		return Won(us.Other())
	}
	return Ongoing()
}
