package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
)

var log = slog.Default().With("package", "storage")

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keySavedGame   = "saved_game"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string            `json:"username"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	PlayerColor board.Color       `json:"player_color"`
	AIEnabled   bool              `json:"ai_enabled"`
	Sound       bool              `json:"sound"`
	LastPlayed  time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  engine.Easy,
		PlayerColor: board.White,
		AIEnabled:   true,
		Sound:       true,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByDiff: make(map[string]int),
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// GameResult is the outcome of a finished game from the human's side.
// Stalemate is the only draw the rules produce.
type GameResult struct {
	Won        bool
	Draw       bool
	Difficulty engine.Difficulty
	Duration   time.Duration
}

// SavedGame is a game in progress, kept as coordinate moves from the
// starting position so it can be replayed on the next launch.
type SavedGame struct {
	Moves   []string  `json:"moves"`
	SavedAt time.Time `json:"saved_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
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

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the JSON under key into v. found is false when the key does
// not exist, in which case v is left as is.
func (s *Storage) get(key string, v any) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
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

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByDiff[result.Difficulty.String()]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	log.Debug("game recorded", "played", stats.GamesPlayed, "wins", stats.Wins, "streak", stats.CurrentStreak)
	return s.SaveStats(stats)
}

// SaveGame stores the moves of the game in progress, replacing any
// earlier one.
func (s *Storage) SaveGame(moves []string) error {
	return s.put(keySavedGame, SavedGame{Moves: moves, SavedAt: time.Now()})
}

// LoadGame returns the saved game, or nil if there is none.
func (s *Storage) LoadGame() (*SavedGame, error) {
	var saved SavedGame
	found, err := s.get(keySavedGame, &saved)
	if err != nil || !found {
		return nil, err
	}
	return &saved, nil
}

// ClearGame removes the saved game.
func (s *Storage) ClearGame() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySavedGame))
	})
}
