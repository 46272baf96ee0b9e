// Package console plays cliffchess over a line-oriented text stream.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/game"
	"github.com/hailam/cliffchess/internal/rules"
	"github.com/hailam/cliffchess/internal/storage"
)

var (
	// ErrQuit is returned by Run when the player quits before the game ends.
	ErrQuit = errors.New("player quit")
	// ErrNoInput is returned once the input stream is exhausted or broken.
	ErrNoInput = errors.New("no more input")
)

// Keywords accepted at any prompt during a turn.
const (
	cmdCancel  = "cancel"
	cmdResign  = "resign"
	cmdQuit    = "quit"
	cmdRules   = "rules"
	cmdHelp    = "help"
	cmdHistory = "history"
)

// historySize is how many finished games the history keyword lists.
const historySize = 5

// Recorder keeps the results of finished games.
type Recorder interface {
	RecordGame(result storage.GameResult) error
	LoadStats() (*storage.GameStats, error)
	LoadGame(id uuid.UUID) (*storage.GameResult, bool, error)
	RecentGames(limit int) ([]storage.GameResult, error)
}

// Console reads player input line by line and writes prompts and boards.
// It implements rules.Prompter.
type Console struct {
	scanner  *bufio.Scanner
	out      io.Writer
	recorder Recorder
}

var _ rules.Prompter = (*Console)(nil)

// New creates a console over the given streams.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// SetRecorder makes the console record finished games.
func (c *Console) SetRecorder(r Recorder) {
	c.recorder = r
}

// Println writes a line of output.
func (c *Console) Println(msg string) {
	fmt.Fprintln(c.out, msg)
}

// readLine writes the message and returns the next input line as typed.
// It returns ErrNoInput once input is exhausted.
func (c *Console) readLine(message string) (string, error) {
	fmt.Fprintf(c.out, "%s\n> ", message)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoInput, err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSuffix(c.scanner.Text(), "\r"), nil
}

// Prompt writes the message and returns the next input line, trimmed.
func (c *Console) Prompt(message string) (string, error) {
	line, err := c.readLine(message)
	return strings.TrimSpace(line), err
}

// Confirm writes the warning and reports whether the player typed phrase exactly.
// The line is compared untrimmed.
func (c *Console) Confirm(message, phrase string) (bool, error) {
	resp, err := c.readLine(fmt.Sprintf("%s\nType %q to continue, or anything else to cancel.", message, phrase))
	if err != nil {
		return false, err
	}
	return resp == phrase, nil
}

// Welcome greets the player: the help text on first launch, otherwise a
// summary of the last finished game.
func (c *Console) Welcome(b *board.Board, first bool) {
	if first {
		c.Println("Welcome to cliffchess!")
		c.printHelp(b)
		return
	}
	if c.recorder == nil {
		return
	}
	stats, err := c.recorder.LoadStats()
	if err != nil || stats.LastGameID == "" {
		return
	}
	id, err := uuid.Parse(stats.LastGameID)
	if err != nil {
		return
	}
	last, found, err := c.recorder.LoadGame(id)
	if err != nil || !found {
		return
	}
	c.Println("Last game: " + FormatResult(*last))
}

// errTurnCommand is returned by readPosition when the input was a keyword.
type errTurnCommand string

func (e errTurnCommand) Error() string { return string(e) }

// readPosition prompts for a position, recognising the turn keywords.
func (c *Console) readPosition(msg string) (board.Position, error) {
	input, err := c.Prompt(msg)
	if err != nil {
		return board.Position{}, err
	}
	switch strings.ToLower(input) {
	case cmdCancel:
		return board.Position{}, game.ErrCancelled
	case cmdResign, cmdQuit, cmdRules, cmdHelp, cmdHistory:
		return board.Position{}, errTurnCommand(strings.ToLower(input))
	}
	return board.ParsePosition(input)
}

// Run plays g until it ends or the player quits, then records the result.
func (c *Console) Run(g *game.Game) (game.GameState, error) {
	for !g.State.IsOver() {
		err := c.playTurn(g)

		var cmd errTurnCommand
		switch {
		case err == nil:
		case errors.As(err, &cmd):
			switch string(cmd) {
			case cmdQuit:
				return g.State, ErrQuit
			case cmdResign:
				if _, err := g.Resign(); err != nil {
					return g.State, err
				}
			case cmdRules:
				c.printRules(g.Engine().Rules())
			case cmdHelp:
				c.printHelp(g.Board)
			case cmdHistory:
				c.printHistory()
			}
		case errors.Is(err, ErrNoInput):
			return g.State, err
		case game.OutcomeOf(err) == game.Cancelled:
			c.Println(game.ErrCancelled.Error() + ".")
		default:
			c.Println(err.Error())
		}
	}

	c.Println(g.Board.String())
	if g.Resigned {
		c.Println(fmt.Sprintf("%v resigned. %v wins!", g.State.Winner.Other(), g.State.Winner))
	} else {
		c.Println(fmt.Sprintf("%v wins!", g.State.Winner))
	}

	if err := c.record(g); err != nil {
		return g.State, err
	}
	return g.State, nil
}

// playTurn asks for one move and plays it.
func (c *Console) playTurn(g *game.Game) error {
	b := g.Board
	c.Println(b.String())

	from, err := c.readPosition(fmt.Sprintf("%v, which piece would you like to move?", b.Turn))
	if err != nil {
		return err
	}
	to, err := c.readPosition("Where would you like to move that piece?")
	if err != nil {
		return err
	}

	var push *board.Position
	if mover, pushee := b.PieceAt(from), b.PieceAt(to); mover != nil && pushee != nil &&
		mover.Kind == board.Knight && mover.Team == b.Turn && mover.Kind.CanMove(from, to) {
		p, err := c.readPosition(fmt.Sprintf(
			"You are about to push a %v %v with a Knight.\nWhere would you like to push it?",
			pushee.Team, pushee.Kind))
		if err != nil {
			return err
		}
		push = &p
	}

	m, err := g.Play(from, to, push)
	if err != nil {
		return err
	}
	c.Println(fmt.Sprintf("Played %v.", m))
	return nil
}

func (c *Console) printRules(rs rules.RuleSet) {
	c.Println("House rules:")
	for h := rules.Hazard(0); h < rules.NumHazards; h++ {
		c.Println(fmt.Sprintf("  %-26s %v", h, rs.Ruling(h)))
	}
}

func (c *Console) printHelp(b *board.Board) {
	c.Println("Enter positions like a1 or h8.")
	c.Println("Keywords: cancel (start the turn over), resign, rules, history, quit.")

	var counts [2]int
	b.Pieces(func(_ board.Position, pc *board.Piece) {
		counts[pc.Team]++
	})
	for _, t := range []board.Team{board.Red, board.Blue} {
		goal := "none"
		if p, ok := b.GoalOf(t); ok {
			goal = p.String()
		}
		c.Println(fmt.Sprintf("%v: %d pieces, Goal tile %s", t, counts[t], goal))
	}
}

func (c *Console) printHistory() {
	if c.recorder == nil {
		c.Println("No game history is kept.")
		return
	}
	games, err := c.recorder.RecentGames(historySize)
	if err != nil {
		c.Println(fmt.Sprintf("could not load history: %v", err))
		return
	}
	if len(games) == 0 {
		c.Println("No finished games yet.")
		return
	}
	for _, r := range games {
		c.Println(FormatResult(r))
	}
}

func (c *Console) record(g *game.Game) error {
	if c.recorder == nil {
		return nil
	}
	result := storage.GameResult{
		ID:        g.ID,
		Winner:    g.State.Winner,
		Resigned:  g.Resigned,
		Moves:     g.Moves,
		BoardSize: g.Board.Size(),
		Duration:  g.Duration(),
		Finished:  time.Now(),
	}
	if err := c.recorder.RecordGame(result); err != nil {
		return fmt.Errorf("failed to record game: %w", err)
	}

	stats, err := c.recorder.LoadStats()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	c.Println(FormatStats(stats))
	return nil
}

// FormatResult describes one finished game (e.g., "3 hours ago  8x8  Blue won in 12 moves").
func FormatResult(r storage.GameResult) string {
	how := fmt.Sprintf("in %d moves", r.Moves)
	if r.Resigned {
		how += " by resignation"
	}
	return fmt.Sprintf("%s  %dx%d  %v won %s", humanize.Time(r.Finished), r.BoardSize, r.BoardSize, r.Winner, how)
}

// FormatStats summarises the statistics for the end-of-game screen.
func FormatStats(stats *storage.GameStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "That was your %s game.\n", humanize.Ordinal(stats.GamesPlayed))
	for _, t := range []board.Team{board.Red, board.Blue} {
		fmt.Fprintf(&sb, "%-5s wins: %d (%.0f%%)\n", t, stats.WinsByTeam[t.String()], stats.GetWinRate(t))
	}
	fmt.Fprintf(&sb, "Resignations: %d\n", stats.Resignations)
	fmt.Fprintf(&sb, "Moves played: %s (longest game %d)\n",
		humanize.Comma(int64(stats.TotalMoves)), stats.LongestGame)
	fmt.Fprintf(&sb, "Time played: %v\n", stats.TotalPlayTime.Round(time.Second))
	if !stats.LastPlayed.IsZero() {
		fmt.Fprintf(&sb, "Last game finished %s\n", humanize.Time(stats.LastPlayed))
	}
	return sb.String()
}
