package rules

import (
	"errors"
	"fmt"
)

// Hazard names a risky or destructive situation a move can cause.
type Hazard uint8

const (
	ClimbDoubleCliffs     Hazard = iota // climbing a 2-level cliff in one step
	MoveAfterClimb                      // moving on after climbing one level this move
	PushTeammates                       // pushing a piece of the mover's own team
	KingSuicide                         // a move that destroys the mover's own King
	SuicideOffCliff                     // a piece falling off a 2-level cliff
	SuicideOffBoard                     // a piece falling off the edge of the board
	CliffBonkFriendlyFire               // a push whose chain collision destroys one of the mover's pieces

	NumHazards = iota
)

var hazardNames = [NumHazards]string{
	"climb_double_cliffs",
	"move_after_climb",
	"push_teammates",
	"king_suicide",
	"suicide_off_cliff",
	"suicide_off_board",
	"cliff_bonk_friendly_fire",
}

// String returns the house-rule name of the hazard.
func (h Hazard) String() string {
	if h >= NumHazards {
		return fmt.Sprintf("hazard(%d)", h)
	}
	return hazardNames[h]
}

// RuleSet is the table of house rules, one Ruling per Hazard.
type RuleSet struct {
	ClimbDoubleCliffs     Ruling `json:"climb_double_cliffs"`
	MoveAfterClimb        Ruling `json:"move_after_climb"`
	PushTeammates         Ruling `json:"push_teammates"`
	KingSuicide           Ruling `json:"king_suicide"`
	SuicideOffCliff       Ruling `json:"suicide_off_cliff"`
	SuicideOffBoard       Ruling `json:"suicide_off_board"`
	CliffBonkFriendlyFire Ruling `json:"cliff_bonk_friendly_fire"`
}

// Default returns the standard house rules.
func Default() RuleSet {
	return RuleSet{
		ClimbDoubleCliffs: Deny("You cannot move a piece up a 2-high cliff."),
		MoveAfterClimb:    Deny("A piece cannot keep moving after climbing up a step."),
		PushTeammates:     Allow(),
		KingSuicide: Warn(
			"You are about to kill your king. You will immediately lose the game if you continue.",
			"gg",
		),
		SuicideOffCliff: Warn("Your piece will fall off a cliff and die.", "yeet"),
		SuicideOffBoard: Warn("Your piece will fall off the board and die.", "adios"),
		CliffBonkFriendlyFire: Warn(
			"Pushing this piece off a cliff will kill another one of your own pieces.",
			"bonk",
		),
	}
}

func (rs *RuleSet) slot(h Hazard) *Ruling {
	switch h {
	case ClimbDoubleCliffs:
		return &rs.ClimbDoubleCliffs
	case MoveAfterClimb:
		return &rs.MoveAfterClimb
	case PushTeammates:
		return &rs.PushTeammates
	case KingSuicide:
		return &rs.KingSuicide
	case SuicideOffCliff:
		return &rs.SuicideOffCliff
	case SuicideOffBoard:
		return &rs.SuicideOffBoard
	case CliffBonkFriendlyFire:
		return &rs.CliffBonkFriendlyFire
	}
	return nil
}

// Ruling returns the ruling for h.
func (rs RuleSet) Ruling(h Hazard) Ruling {
	if r := rs.slot(h); r != nil {
		return *r
	}
	return Deny(fmt.Sprintf("unknown hazard %v", h))
}

// With returns a copy of the rule set with the ruling for h replaced.
func (rs RuleSet) With(h Hazard, r Ruling) RuleSet {
	if slot := rs.slot(h); slot != nil {
		*slot = r
	}
	return rs
}

// Check evaluates the ruling for h. Every hazard site goes through here.
func (rs RuleSet) Check(h Hazard, p Prompter) error {
	err := rs.Ruling(h).Evaluate(p)
	var denied *DeniedError
	if errors.As(err, &denied) {
		denied.Hazard = h
	}
	return err
}

// Validate checks every ruling in the set.
func (rs RuleSet) Validate() error {
	for h := Hazard(0); h < NumHazards; h++ {
		if err := rs.Ruling(h).Validate(); err != nil {
			return fmt.Errorf("%v: %w", h, err)
		}
	}
	return nil
}
