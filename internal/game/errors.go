package game

import (
	"errors"

	"github.com/hailam/cliffchess/internal/rules"
)

var (
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrEmptyOrigin       = errors.New("empty origin")
	ErrWrongTeam         = errors.New("wrong team")
	ErrIllegalTrajectory = errors.New("illegal trajectory for this piece")
	ErrInvalidPushTarget = errors.New("invalid push target")
	ErrGameOver          = errors.New("game is over")

	// ErrCancelled is rules.ErrCancelled, re-exported for callers of this package.
	ErrCancelled = rules.ErrCancelled
)

// Outcome classifies how a move attempt ended.
type Outcome uint8

const (
	Applied   Outcome = iota
	Aborted           // a validation failure or a Deny ruling
	Cancelled         // the player declined a warning or cancelled input
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Aborted:
		return "aborted"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OutcomeOf classifies the error returned by Resolve or Game.Play.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Applied
	case errors.Is(err, ErrCancelled):
		return Cancelled
	default:
		return Aborted
	}
}
