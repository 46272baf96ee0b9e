package game

import "github.com/hailam/cliffchess/internal/board"

// Status is whether the game is still being played.
type Status uint8

const (
	StatusOngoing Status = iota
	StatusWon
)

// GameState is Ongoing or Won by a team.
type GameState struct {
	Status Status
	Winner board.Team // only meaningful when Status is StatusWon
}

// Ongoing is the state of a game still in progress.
func Ongoing() GameState {
	return GameState{Status: StatusOngoing}
}

// Won is the state of a game won by t.
func Won(t board.Team) GameState {
	return GameState{Status: StatusWon, Winner: t}
}

// IsOver reports whether the game has ended.
func (s GameState) IsOver() bool {
	return s.Status == StatusWon
}

// String returns "Ongoing" or "Won(Team)".
func (s GameState) String() string {
	if s.IsOver() {
		return "Won(" + s.Winner.String() + ")"
	}
	return "Ongoing"
}
