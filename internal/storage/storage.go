package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/rules"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	keyGamePrefix  = "game/"
)

// UserPreferences stores user settings
type UserPreferences struct {
	BoardSize  int           `json:"board_size"`
	HouseRules rules.RuleSet `json:"house_rules"`
	LastPlayed time.Time     `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		BoardSize:  8,
		HouseRules: rules.Default(),
		LastPlayed: time.Now(),
	}
}

// Validate checks that the preferences can start a game.
func (p *UserPreferences) Validate() error {
	if _, err := board.LayoutFor(p.BoardSize); err != nil {
		return err
	}
	if err := p.HouseRules.Validate(); err != nil {
		return fmt.Errorf("house rules: %w", err)
	}
	return nil
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WinsByTeam    map[string]int `json:"wins_by_team"`
	Resignations  int            `json:"resignations"`
	TotalMoves    int            `json:"total_moves"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
	LongestGame   int            `json:"longest_game"`
	LastGameID    string         `json:"last_game_id"`
	LastPlayed    time.Time      `json:"last_played"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByTeam: make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	ID        uuid.UUID     `json:"id"`
	Winner    board.Team    `json:"winner"`
	Resigned  bool          `json:"resigned"`
	Moves     int           `json:"moves"`
	BoardSize int           `json:"board_size"`
	Duration  time.Duration `json:"duration"`
	Finished  time.Time     `json:"finished"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch reports whether the welcome screen has never been shown.
func (s *Storage) IsFirstLaunch() (bool, error) {
	var welcomed time.Time
	found, err := s.get(keyFirstLaunch, &welcomed)
	return !found, err
}

// MarkFirstLaunchComplete records when the player was first welcomed.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.put(keyFirstLaunch, time.Now())
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.WinsByTeam == nil {
		stats.WinsByTeam = make(map[string]int)
	}
	return stats, nil
}

// RecordGame stores a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	if result.Finished.IsZero() {
		result.Finished = time.Now()
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.WinsByTeam[result.Winner.String()]++
	stats.TotalMoves += result.Moves
	stats.TotalPlayTime += result.Duration
	stats.LastGameID = result.ID.String()
	stats.LastPlayed = result.Finished
	if result.Resigned {
		stats.Resignations++
	}
	if result.Moves > stats.LongestGame {
		stats.LongestGame = result.Moves
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	record, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyGamePrefix+result.ID.String()), record); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadGame returns the record of a finished game
func (s *Storage) LoadGame(id uuid.UUID) (*GameResult, bool, error) {
	var result GameResult
	found, err := s.get(keyGamePrefix+id.String(), &result)
	if err != nil || !found {
		return nil, found, err
	}
	return &result, true, nil
}

// RecentGames returns up to limit finished games, most recent first
func (s *Storage) RecentGames(limit int) ([]GameResult, error) {
	var games []GameResult

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyGamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var result GameResult
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &result)
			})
			if err != nil {
				return err
			}
			games = append(games, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Finished.After(games[j].Finished)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

// GetWinRate returns the share of games won by team t as a percentage (0-100)
func (s *GameStats) GetWinRate(t board.Team) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.WinsByTeam[t.String()]) / float64(s.GamesPlayed) * 100
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value stored at key into v, leaving v untouched if the key is missing.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
