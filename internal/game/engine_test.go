package game

import (
	"errors"
	"testing"

	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/rules"
)

var errUnexpectedPrompt = errors.New("unexpected prompt")

// replies answers confirmations in order and records the phrases it was asked for.
type replies struct {
	answers []string
	phrases []string
}

func (r *replies) Prompt(string) (string, error) {
	if len(r.answers) == 0 {
		return "", errUnexpectedPrompt
	}
	a := r.answers[0]
	r.answers = r.answers[1:]
	return a, nil
}

func (r *replies) Confirm(message, phrase string) (bool, error) {
	r.phrases = append(r.phrases, phrase)
	a, err := r.Prompt(message)
	if err != nil {
		return false, err
	}
	return a == phrase, nil
}

func pos(t *testing.T, s string) board.Position {
	t.Helper()
	p, err := board.ParsePosition(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

var kinds = map[byte]board.PieceKind{
	'P': board.Pawn, 'B': board.Bishop, 'N': board.Knight, 'R': board.Rook, 'K': board.King,
}

// setup builds a flat board with Blue to move. pieces maps squares to layout
// tokens such as "bR"; heights overrides tile heights.
func setup(t *testing.T, size int, pieces map[string]string, heights map[string]uint8) *board.Board {
	t.Helper()
	b := board.New(size)
	b.Turn = board.Blue
	for sq, tok := range pieces {
		team := board.Red
		if tok[0] == 'b' {
			team = board.Blue
		}
		b.Place(pos(t, sq), board.NewPiece(team, kinds[tok[1]]))
	}
	for sq, h := range heights {
		b.SetHeight(pos(t, sq), h)
	}
	return b
}

func resolve(t *testing.T, e *Engine, b *board.Board, from, to string, push *board.Position) (Move, error) {
	t.Helper()
	before := b.Clone()
	m, err := e.Resolve(b, pos(t, from), pos(t, to), push)
	if !b.Equal(before) {
		t.Fatalf("Resolve(%s, %s) changed the board", from, to)
	}
	return m, err
}

func TestResolveRookPlainMove(t *testing.T) {
	b := setup(t, 8, map[string]string{"a1": "bR"}, nil)
	e := NewEngine(rules.Default(), &replies{})

	m, err := resolve(t, e, b, "a1", "a6", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Move{Kind: MovePlain, From: board.Position{File: 0, Rank: 0}, To: board.Position{File: 0, Rank: 5}}
	if m != want {
		t.Fatalf("got %+v, want %+v", m, want)
	}

	state := e.Apply(b, m)
	if state.IsOver() {
		t.Errorf("state = %v, want Ongoing", state)
	}
	if b.PieceAt(pos(t, "a1")) != nil || b.PieceAt(pos(t, "a6")) == nil {
		t.Error("rook did not move from a1 to a6")
	}
	if b.Turn != board.Red {
		t.Errorf("turn = %v, want Red", b.Turn)
	}
}

func TestResolveValidation(t *testing.T) {
	b := setup(t, 8, map[string]string{"a1": "bB", "c3": "rP", "h1": "bR"}, nil)
	e := NewEngine(rules.Default(), &replies{})

	tests := []struct {
		name     string
		from, to board.Position
		want     error
	}{
		{"from out of bounds", board.Position{File: 8, Rank: 0}, board.Position{File: 7, Rank: 0}, ErrOutOfBounds},
		{"to out of bounds", board.Position{File: 7, Rank: 0}, board.Position{File: 7, Rank: 8}, ErrOutOfBounds},
		{"empty origin", pos(t, "d4"), pos(t, "d5"), ErrEmptyOrigin},
		{"wrong team", pos(t, "c3"), pos(t, "c4"), ErrWrongTeam},
		{"bishop knight shape", board.Position{File: 0, Rank: 0}, board.Position{File: 1, Rank: 2}, ErrIllegalTrajectory},
		{"same square", pos(t, "a1"), pos(t, "a1"), ErrIllegalTrajectory},
		{"rook diagonal", pos(t, "h1"), pos(t, "g2"), ErrIllegalTrajectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := b.Clone()
			_, err := e.Resolve(b, tt.from, tt.to, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if OutcomeOf(err) != Aborted {
				t.Errorf("outcome = %v, want aborted", OutcomeOf(err))
			}
			if !b.Equal(before) {
				t.Error("board changed")
			}
		})
	}
}

func TestTerrainDoubleCliffAborts(t *testing.T) {
	b := setup(t, 8, map[string]string{"a1": "bR"}, map[string]uint8{"a2": 2})
	p := &replies{}
	e := NewEngine(rules.Default(), p)

	_, err := resolve(t, e, b, "a1", "a3", nil)
	var denied *rules.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("got %v, want a denial", err)
	}
	if denied.Hazard != rules.ClimbDoubleCliffs {
		t.Errorf("hazard = %v, want climb_double_cliffs", denied.Hazard)
	}
	if len(p.phrases) != 0 {
		t.Errorf("a denial should not prompt, asked %v", p.phrases)
	}
}

func TestTerrainMoveAfterClimb(t *testing.T) {
	heights := map[string]uint8{"a2": 1, "a3": 1, "a4": 1}

	t.Run("stop on the step", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR"}, heights)
		if _, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "a1", "a2", nil); err != nil {
			t.Fatalf("climbing one step and stopping should be legal: %v", err)
		}
	})

	t.Run("keep moving denied", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR"}, heights)
		_, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "a1", "a3", nil)
		var denied *rules.DeniedError
		if !errors.As(err, &denied) || denied.Hazard != rules.MoveAfterClimb {
			t.Fatalf("got %v, want move_after_climb denial", err)
		}
	})

	t.Run("warned on every step", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR"}, heights)
		rs := rules.Default().With(rules.MoveAfterClimb, rules.Warn("tired legs", "onward"))
		p := &replies{answers: []string{"onward", "onward"}}
		m, err := resolve(t, NewEngine(rs, p), b, "a1", "a4", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(p.phrases) != 2 {
			t.Errorf("prompted %d times, want 2", len(p.phrases))
		}
		if m.MoverFalls {
			t.Error("mover should not fall")
		}
	})

	t.Run("descending is free", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a2": "bR"}, map[string]uint8{"a2": 1})
		if _, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "a2", "a5", nil); err != nil {
			t.Fatalf("stepping down one level should be free: %v", err)
		}
	})
}

func TestTerrainFallOffCliff(t *testing.T) {
	newBoard := func() *board.Board {
		return setup(t, 8, map[string]string{"a1": "bR", "a3": "rP"}, map[string]uint8{"a1": 2})
	}

	t.Run("confirmed", func(t *testing.T) {
		b := newBoard()
		p := &replies{answers: []string{"yeet"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "a1", "a3", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !m.MoverFalls || m.FallsAt != pos(t, "a2") {
			t.Fatalf("got %+v, want the rook to fall at a2", m)
		}
		if len(p.phrases) != 1 || p.phrases[0] != "yeet" {
			t.Errorf("phrases = %v, want [yeet]", p.phrases)
		}

		e.Apply(b, m)
		if b.PieceAt(pos(t, "a1")) != nil || b.PieceAt(pos(t, "a2")) != nil {
			t.Error("fallen rook should be gone")
		}
		if pc := b.PieceAt(pos(t, "a3")); pc == nil || pc.Team != board.Red {
			t.Error("defender on a3 should be untouched")
		}
	})

	t.Run("declined", func(t *testing.T) {
		b := newBoard()
		_, err := resolve(t, NewEngine(rules.Default(), &replies{answers: []string{"no"}}), b, "a1", "a3", nil)
		if OutcomeOf(err) != Cancelled {
			t.Fatalf("got %v, want cancellation", err)
		}
	})
}

func TestKnightTerrain(t *testing.T) {
	e := NewEngine(rules.Default(), &replies{})

	b := setup(t, 8, map[string]string{"b1": "bN"}, map[string]uint8{"c3": 2})
	var denied *rules.DeniedError
	if _, err := resolve(t, e, b, "b1", "c3", nil); !errors.As(err, &denied) {
		t.Fatalf("knight onto a 2-high tile: got %v, want denial", err)
	}

	b = setup(t, 8, map[string]string{"b1": "bN"}, map[string]uint8{"b2": 2, "c2": 2})
	if _, err := resolve(t, e, b, "b1", "c3", nil); err != nil {
		t.Fatalf("knight should jump over cliffs: %v", err)
	}
}

func TestPush(t *testing.T) {
	b := setup(t, 8, map[string]string{"a1": "bR", "a3": "rP"}, nil)
	e := NewEngine(rules.Default(), &replies{})

	m, err := resolve(t, e, b, "a1", "a3", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Kind != MovePush || m.Push != pos(t, "a4") || m.PushedOff || m.Bonk {
		t.Fatalf("got %+v, want a push onto a4", m)
	}

	e.Apply(b, m)
	if pc := b.PieceAt(pos(t, "a3")); pc == nil || pc.Kind != board.Rook {
		t.Error("rook should be on a3")
	}
	if pc := b.PieceAt(pos(t, "a4")); pc == nil || pc.Kind != board.Pawn {
		t.Error("pawn should be pushed to a4")
	}
}

func TestPushTeammates(t *testing.T) {
	pieces := map[string]string{"c1": "bB", "d2": "bP"}

	b := setup(t, 8, pieces, nil)
	m, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "c1", "d2", nil)
	if err != nil {
		t.Fatalf("pushing a teammate is allowed by default: %v", err)
	}
	if m.Push != pos(t, "e3") {
		t.Errorf("push = %v, want e3", m.Push)
	}

	rs := rules.Default().With(rules.PushTeammates, rules.Deny("Leave your friends alone."))
	_, err = resolve(t, NewEngine(rs, &replies{}), b, "c1", "d2", nil)
	var denied *rules.DeniedError
	if !errors.As(err, &denied) || denied.Reason != "Leave your friends alone." {
		t.Fatalf("got %v, want the house-rule denial", err)
	}
}

func TestPushTargetCheckedBeforeTeammateRule(t *testing.T) {
	b := setup(t, 8, map[string]string{"b1": "bN", "c3": "bP"}, nil)
	rs := rules.Default().With(rules.PushTeammates, rules.Warn("Push your friend?", "sorry"))
	p := &replies{answers: []string{"sorry"}}
	target := pos(t, "e3")

	_, err := resolve(t, NewEngine(rs, p), b, "b1", "c3", &target)
	if !errors.Is(err, ErrInvalidPushTarget) {
		t.Fatalf("got %v, want ErrInvalidPushTarget", err)
	}
	if len(p.phrases) != 0 {
		t.Errorf("asked for %v before rejecting the target", p.phrases)
	}

	target = pos(t, "d4")
	m, err := resolve(t, NewEngine(rs, p), b, "b1", "c3", &target)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Push != target || len(p.phrases) != 1 || p.phrases[0] != "sorry" {
		t.Errorf("got %+v phrases=%v, want a confirmed teammate push to d4", m, p.phrases)
	}
}

func TestKnightPush(t *testing.T) {
	pieces := map[string]string{"b1": "bN", "c3": "rP"}

	t.Run("adjacent", func(t *testing.T) {
		b := setup(t, 8, pieces, nil)
		e := NewEngine(rules.Default(), &replies{})
		target := pos(t, "d4")
		m, err := resolve(t, e, b, "b1", "c3", &target)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		want := Move{Kind: MoveKnightPush, From: pos(t, "b1"), To: pos(t, "c3"), Push: target}
		if m != want {
			t.Fatalf("got %+v, want %+v", m, want)
		}
		e.Apply(b, m)
		if pc := b.PieceAt(target); pc == nil || pc.Team != board.Red {
			t.Error("pawn should be pushed to d4")
		}
	})

	t.Run("too far", func(t *testing.T) {
		b := setup(t, 8, pieces, nil)
		target := pos(t, "e3")
		_, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "b1", "c3", &target)
		if !errors.Is(err, ErrInvalidPushTarget) {
			t.Fatalf("got %v, want ErrInvalidPushTarget", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		b := setup(t, 8, pieces, nil)
		_, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "b1", "c3", nil)
		if !errors.Is(err, ErrInvalidPushTarget) {
			t.Fatalf("got %v, want ErrInvalidPushTarget", err)
		}
	})

	t.Run("off the board", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"c2": "bN", "a1": "rP"}, nil)
		p := &replies{answers: []string{"adios"}}
		target := board.Position{File: -1, Rank: 0}
		m, err := resolve(t, NewEngine(rules.Default(), p), b, "c2", "a1", &target)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !m.PushedOff || len(p.phrases) != 1 || p.phrases[0] != "adios" {
			t.Fatalf("got %+v phrases=%v, want an off-board push confirmed with adios", m, p.phrases)
		}
	})
}

func TestPushOffBoard(t *testing.T) {
	pieces := map[string]string{"a6": "bR", "a8": "rP"}

	t.Run("confirmed", func(t *testing.T) {
		b := setup(t, 8, pieces, nil)
		p := &replies{answers: []string{"adios"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "a6", "a8", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(p.phrases) != 1 || p.phrases[0] != "adios" {
			t.Errorf("phrases = %v, want [adios]", p.phrases)
		}
		if m.Kind != MovePush || !m.PushedOff {
			t.Fatalf("got %+v, want an off-board push", m)
		}

		state := e.Apply(b, m)
		if state.IsOver() {
			t.Errorf("state = %v, want Ongoing", state)
		}
		if pc := b.PieceAt(pos(t, "a8")); pc == nil || pc.Kind != board.Rook {
			t.Error("rook should be on a8")
		}
		red := 0
		b.Pieces(func(_ board.Position, pc *board.Piece) {
			if pc.Team == board.Red {
				red++
			}
		})
		if red != 0 {
			t.Errorf("pushed pawn should be eliminated, %d red pieces remain", red)
		}
	})

	t.Run("declined", func(t *testing.T) {
		b := setup(t, 8, pieces, nil)
		_, err := resolve(t, NewEngine(rules.Default(), &replies{answers: []string{"Adios"}}), b, "a6", "a8", nil)
		if !errors.Is(err, ErrCancelled) || OutcomeOf(err) != Cancelled {
			t.Fatalf("got %v, want cancellation", err)
		}
		if b.Turn != board.Blue {
			t.Error("turn should not advance")
		}
	})
}

func TestPushedPieceAndCliffs(t *testing.T) {
	t.Run("cannot be shoved up a double cliff", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR", "a2": "rP"}, map[string]uint8{"a3": 2})
		_, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "a1", "a2", nil)
		var denied *rules.DeniedError
		if !errors.As(err, &denied) || denied.Hazard != rules.ClimbDoubleCliffs {
			t.Fatalf("got %v, want climb_double_cliffs denial", err)
		}
	})

	t.Run("falls off a cliff", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR", "a2": "rP"}, map[string]uint8{"a1": 2, "a2": 2})
		p := &replies{answers: []string{"yeet"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "a1", "a2", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !m.PushedOff || m.Push != pos(t, "a3") {
			t.Fatalf("got %+v, want the pawn to fall off at a3", m)
		}
		e.Apply(b, m)
		if b.PieceAt(pos(t, "a3")) != nil {
			t.Error("fallen pawn should be gone")
		}
	})
}

func TestChainCollision(t *testing.T) {
	t.Run("friendly fire confirmed", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR", "a2": "rP", "a3": "bP"}, nil)
		p := &replies{answers: []string{"bonk"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "a1", "a2", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !m.Bonk || len(p.phrases) != 1 || p.phrases[0] != "bonk" {
			t.Fatalf("got %+v phrases=%v, want a bonk confirmed once", m, p.phrases)
		}
		if n := len(m.Casualties(b)); n != 2 {
			t.Errorf("casualties = %d, want 2", n)
		}

		e.Apply(b, m)
		if pc := b.PieceAt(pos(t, "a2")); pc == nil || pc.Kind != board.Rook {
			t.Error("rook should be on a2")
		}
		if b.PieceAt(pos(t, "a3")) != nil {
			t.Error("both bonked pieces should be destroyed")
		}
	})

	t.Run("friendly fire declined", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR", "a2": "rP", "a3": "bP"}, nil)
		_, err := resolve(t, NewEngine(rules.Default(), &replies{answers: []string{"no"}}), b, "a1", "a2", nil)
		if OutcomeOf(err) != Cancelled {
			t.Fatalf("got %v, want cancellation", err)
		}
	})

	t.Run("enemy victim needs no confirmation", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR", "a2": "rP", "a3": "rB"}, nil)
		m, err := resolve(t, NewEngine(rules.Default(), &replies{}), b, "a1", "a2", nil)
		if err != nil || !m.Bonk {
			t.Fatalf("got %+v, %v, want an unconfirmed bonk", m, err)
		}
	})

	t.Run("friendly fire on own king asks both", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a1": "bR", "a2": "rP", "a3": "bK"}, nil)
		p := &replies{answers: []string{"bonk", "gg"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "a1", "a2", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(p.phrases) != 2 || p.phrases[0] != "bonk" || p.phrases[1] != "gg" {
			t.Fatalf("phrases = %v, want [bonk gg]", p.phrases)
		}
		if state := e.Apply(b, m); state != Won(board.Red) {
			t.Errorf("state = %v, want Won(Red)", state)
		}
	})
}

func TestEnemyKingLossNeverConfirmed(t *testing.T) {
	tests := []struct {
		name     string
		pieces   map[string]string
		heights  map[string]uint8
		from, to string
	}{
		{"off the board", map[string]string{"a6": "bR", "a8": "rK"}, nil, "a6", "a8"},
		{"off a cliff", map[string]string{"a1": "bR", "a2": "rK"}, map[string]uint8{"a1": 2, "a2": 2}, "a1", "a2"},
		{"chain collision", map[string]string{"a1": "bR", "a2": "rP", "a3": "rK"}, nil, "a1", "a2"},
		{"bonked into", map[string]string{"a1": "bR", "a2": "rK", "a3": "rP"}, nil, "a1", "a2"},
		{"bonked onto a friend", map[string]string{"a1": "bR", "a2": "rK", "a3": "bP"}, nil, "a1", "a2"},
		{"bonked onto the own king", map[string]string{"a1": "bR", "a2": "rK", "a3": "bK"}, nil, "a1", "a2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(t, 8, tt.pieces, tt.heights)
			p := &replies{}
			e := NewEngine(rules.Default(), p)
			m, err := resolve(t, e, b, tt.from, tt.to, nil)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(p.phrases) != 0 {
				t.Errorf("asked for %v", p.phrases)
			}
			if state := e.Apply(b, m); state != Won(board.Blue) {
				t.Errorf("state = %v, want Won(Blue)", state)
			}
		})
	}
}

func TestKingSuicide(t *testing.T) {
	pieces := map[string]string{"d4": "bK"}
	heights := map[string]uint8{"d4": 2}

	t.Run("confirmed", func(t *testing.T) {
		b := setup(t, 8, pieces, heights)
		p := &replies{answers: []string{"yeet", "gg"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "d4", "e4", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(p.phrases) != 2 || p.phrases[1] != "gg" {
			t.Errorf("phrases = %v, want [yeet gg]", p.phrases)
		}
		if state := e.Apply(b, m); state != Won(board.Red) {
			t.Errorf("state = %v, want Won(Red)", state)
		}
	})

	t.Run("declined", func(t *testing.T) {
		b := setup(t, 8, pieces, heights)
		_, err := resolve(t, NewEngine(rules.Default(), &replies{answers: []string{"yeet", "nah"}}), b, "d4", "e4", nil)
		if OutcomeOf(err) != Cancelled {
			t.Fatalf("got %v, want cancellation", err)
		}
	})

	t.Run("pushing own king off the board", func(t *testing.T) {
		b := setup(t, 8, map[string]string{"a6": "bR", "a8": "bK"}, nil)
		p := &replies{answers: []string{"adios", "gg"}}
		e := NewEngine(rules.Default(), p)
		m, err := resolve(t, e, b, "a6", "a8", nil)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if state := e.Apply(b, m); state != Won(board.Red) {
			t.Errorf("state = %v, want Won(Red)", state)
		}
	})
}

func TestResignLeavesTiles(t *testing.T) {
	b := setup(t, 6, map[string]string{"a1": "bK", "f6": "rK"}, nil)
	before := b.Clone()
	e := NewEngine(rules.Default(), &replies{})

	if state := e.Apply(b, Resign()); state != Won(board.Red) {
		t.Errorf("state = %v, want Won(Red)", state)
	}
	if !b.Equal(before) {
		t.Error("resigning should not touch the board")
	}
}

func TestOutcomeOf(t *testing.T) {
	if OutcomeOf(nil) != Applied {
		t.Error("nil should be applied")
	}
	if OutcomeOf(rules.ErrCancelled) != Cancelled {
		t.Error("ErrCancelled should be cancelled")
	}
	if OutcomeOf(&rules.DeniedError{Reason: "x"}) != Aborted {
		t.Error("a denial should be aborted")
	}
}
