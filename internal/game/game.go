package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/rules"
)

// Game is one game in progress: a board, the house rules and the result so far.
type Game struct {
	ID       uuid.UUID
	Board    *board.Board
	State    GameState
	Started  time.Time
	Moves    int
	Resigned bool

	engine *Engine
}

// New starts a game on b under the given house rules.
func New(b *board.Board, rs rules.RuleSet, p rules.Prompter) *Game {
	return &Game{
		ID:      uuid.New(),
		Board:   b,
		State:   Ongoing(),
		Started: time.Now(),
		engine:  NewEngine(rs, p),
	}
}

// Engine returns the engine the game resolves moves with.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Play resolves and applies a move for the team to move. On any error the
// board and the turn are unchanged.
func (g *Game) Play(from, to board.Position, push *board.Position) (Move, error) {
	if g.State.IsOver() {
		return Move{}, ErrGameOver
	}
	m, err := g.engine.Resolve(g.Board, from, to, push)
	if err != nil {
		return Move{}, err
	}
	g.State = g.engine.Apply(g.Board, m)
	g.Moves++
	return m, nil
}

// Resign ends the game in favor of the team not to move.
func (g *Game) Resign() (GameState, error) {
	if g.State.IsOver() {
		return g.State, ErrGameOver
	}
	g.State = g.engine.Apply(g.Board, Resign())
	g.Resigned = true
	return g.State, nil
}

// Duration returns how long the game has been running.
func (g *Game) Duration() time.Duration {
	return time.Since(g.Started)
}
