// Package rules holds the house rules: how each hazardous situation in a
// move is handled (allowed, allowed after a confirmation, or denied).
package rules

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the player declines a warning or cancels input.
// It is not a rules violation; the move simply does not happen.
var ErrCancelled = errors.New("cancelled the move operation")

// Prompter is the interactive capability rulings need.
type Prompter interface {
	// Prompt shows a message and returns the player's response.
	Prompt(message string) (string, error)
	// Confirm shows a message and reports whether the player typed phrase exactly.
	Confirm(message, phrase string) (bool, error)
}

// Verdict is the kind of a Ruling.
type Verdict uint8

const (
	VerdictAllow Verdict = iota
	VerdictWarn
	VerdictDeny
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictWarn:
		return "warn"
	case VerdictDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	if v > VerdictDeny {
		return nil, fmt.Errorf("unknown verdict %d", v)
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "allow":
		*v = VerdictAllow
	case "warn":
		*v = VerdictWarn
	case "deny":
		*v = VerdictDeny
	default:
		return fmt.Errorf("unknown verdict %q", text)
	}
	return nil
}

// Ruling decides how one hazard is handled. Build one with Allow, Warn or Deny.
type Ruling struct {
	Verdict Verdict `json:"verdict"`
	Prompt  string  `json:"prompt,omitempty"` // Warn only
	Phrase  string  `json:"phrase,omitempty"` // Warn only: the exact confirmation text
	Reason  string  `json:"reason,omitempty"` // Deny only
}

// Allow lets the situation happen silently.
func Allow() Ruling {
	return Ruling{Verdict: VerdictAllow}
}

// Warn lets the situation happen only if the player types phrase after seeing prompt.
func Warn(prompt, phrase string) Ruling {
	return Ruling{Verdict: VerdictWarn, Prompt: prompt, Phrase: phrase}
}

// Deny forbids the situation, explaining why.
func Deny(reason string) Ruling {
	return Ruling{Verdict: VerdictDeny, Reason: reason}
}

// DeniedError reports a move stopped by a Deny ruling.
type DeniedError struct {
	Hazard Hazard
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

// Evaluate applies the ruling. It returns nil when the situation may go ahead,
// a *DeniedError for Deny, ErrCancelled when a warning is declined, or the
// prompter's error if input failed.
//
// Warnings are asked every time; nothing is remembered between calls.
func (r Ruling) Evaluate(p Prompter) error {
	switch r.Verdict {
	case VerdictAllow:
		return nil
	case VerdictDeny:
		return &DeniedError{Reason: r.Reason}
	case VerdictWarn:
		ok, err := p.Confirm(r.Prompt, r.Phrase)
		if err != nil {
			return fmt.Errorf("confirm %q: %w", r.Phrase, err)
		}
		if !ok {
			return ErrCancelled
		}
		return nil
	}
	return fmt.Errorf("unknown verdict %d", r.Verdict)
}

// Validate checks that the ruling carries the text its verdict needs.
func (r Ruling) Validate() error {
	switch r.Verdict {
	case VerdictAllow:
		return nil
	case VerdictWarn:
		if r.Phrase == "" {
			return errors.New("warning needs a confirmation phrase")
		}
		return nil
	case VerdictDeny:
		if r.Reason == "" {
			return errors.New("denial needs a reason")
		}
		return nil
	}
	return fmt.Errorf("unknown verdict %d", r.Verdict)
}

// String describes the ruling for the rules listing.
func (r Ruling) String() string {
	switch r.Verdict {
	case VerdictWarn:
		return fmt.Sprintf("warn (type %q)", r.Phrase)
	case VerdictDeny:
		return "deny: " + r.Reason
	}
	return r.Verdict.String()
}
