// Package store persists challenge completion records, per-game
// results and player progression in SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/logging"
)

//go:embed *.sql
var sqlDir embed.FS

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

var pragmas = []string{
	"journal_mode = WAL",
	"synchronous = normal",
	"temp_store = memory",
	"busy_timeout = 5000",
	"foreign_keys = on",
}

// GameResult is one player's finished game.
type GameResult struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
	Win    bool   `json:"win"`

	Points         int     `json:"points"`
	Presented      int     `json:"presented"`
	Completed      int     `json:"completed"`
	LongestStreak  int     `json:"longest_streak"`
	BestCombo      int     `json:"best_combo"`
	CompletionRate float64 `json:"completion_rate"`

	XPEarned int    `json:"xp_earned"`
	TotalXP  int    `json:"total_xp"`
	Rank     string `json:"rank"`

	EndedAt time.Time `json:"ended_at"`
}

// Player is a player's lifetime totals.
type Player struct {
	Name string `json:"name"`
	XP   int    `json:"xp"`
	Rank string `json:"rank"`

	Games               int `json:"games"`
	Wins                int `json:"wins"`
	TotalPoints         int `json:"total_points"`
	ChallengesCompleted int `json:"challenges_completed"`
	LongestStreak       int `json:"longest_streak"`
	BestCombo           int `json:"best_combo"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a SQLite database with one connection for writes and a
// pool for reads.
type Store struct {
	read  *sql.DB
	write *sql.DB

	// queries run on read, commands on write.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt

	logger logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens or creates the database at file, applies the schema
// and prepares every statement.
func Open(file string, opts ...Option) (*Store, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", file, err)
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		_ = read.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", file, err)
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	s := &Store{
		read:     read,
		write:    write,
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		logger:   logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	for _, pragma := range pragmas {
		if _, err := s.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma, err)
		}
	}

	entries, err := sqlDir.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to list SQL files: %w", err)
	}
	// Entries are sorted, so create- files run before anything is
	// prepared against their tables.
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := fs.ReadFile(sqlDir, entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".sql")
		switch {
		case strings.HasPrefix(name, "create-"):
			_, err = s.write.Exec(string(data))
			s.logger.Debug("executed schema", logging.StringField("file", name))
		case strings.HasPrefix(name, "select-"):
			s.queries[name], err = s.read.Prepare(string(data))
		default:
			s.commands[name], err = s.write.Prepare(string(data))
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// RecordCompletion stores a resolved challenge.
func (s *Store) RecordCompletion(ctx context.Context, rec challenge.Record) error {
	_, err := s.commands["insert-completion"].ExecContext(ctx,
		string(rec.ChallengeID),
		rec.GameID,
		rec.Player,
		string(rec.Type),
		string(rec.Difficulty),
		rec.Reward,
		string(rec.Window),
		string(rec.Status),
		rec.Move,
		rec.MoveNumber,
		rec.Streak,
		rec.Combo,
		rec.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to record completion %s: %w", rec.ChallengeID, err)
	}
	return nil
}

// RankFunc names the rank reached at a cumulative XP total.
type RankFunc func(xp int) string

// SaveGameResult stores res and folds it into the player's totals
// in one transaction. res.XPEarned is added to the stored XP, so
// concurrent games of one player never overwrite each other. The
// returned result carries the new TotalXP and, when rankFor is not
// nil, the rank for it. Longest streak and best combo keep the
// maximum seen.
func (s *Store) SaveGameResult(ctx context.Context, res GameResult, rankFor RankFunc) (_ GameResult, err error) {
	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", logging.ErrorField(rbErr))
			}
		}
	}()

	var prior int
	err = tx.StmtContext(ctx, s.commands["read-player-xp"]).QueryRowContext(ctx, res.Player).Scan(&prior)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return res, fmt.Errorf("failed to read XP of %s: %w", res.Player, err)
	}
	res.TotalXP = prior + res.XPEarned
	if rankFor != nil {
		res.Rank = rankFor(res.TotalXP)
	}

	_, err = tx.StmtContext(ctx, s.commands["insert-game"]).ExecContext(ctx,
		res.GameID,
		res.Player,
		res.Win,
		res.Points,
		res.Presented,
		res.Completed,
		res.LongestStreak,
		res.BestCombo,
		res.CompletionRate,
		res.XPEarned,
		res.TotalXP,
		res.Rank,
		res.EndedAt)
	if err != nil {
		return res, fmt.Errorf("failed to save game %s for %s: %w", res.GameID, res.Player, err)
	}

	wins := 0
	if res.Win {
		wins = 1
	}
	_, err = tx.StmtContext(ctx, s.commands["upsert-player"]).ExecContext(ctx,
		res.Player,
		res.XPEarned,
		res.Rank,
		wins,
		res.Points,
		res.Completed,
		res.LongestStreak,
		res.BestCombo,
		res.EndedAt)
	if err != nil {
		return res, fmt.Errorf("failed to update player %s: %w", res.Player, err)
	}

	if err = tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit game %s: %w", res.GameID, err)
	}
	return res, nil
}

type scanner func(dest ...any) error

func scanPlayer(scan scanner) (*Player, error) {
	var p Player
	err := scan(
		&p.Name,
		&p.XP,
		&p.Rank,
		&p.Games,
		&p.Wins,
		&p.TotalPoints,
		&p.ChallengesCompleted,
		&p.LongestStreak,
		&p.BestCombo,
		&p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Player returns the totals for name, or ErrNotFound.
func (s *Store) Player(ctx context.Context, name string) (*Player, error) {
	p, err := scanPlayer(s.queries["select-player"].QueryRowContext(ctx, name).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player %q: %w", name, err)
	}
	return p, nil
}

// PlayerXP returns the cumulative XP of name, 0 for a new player.
func (s *Store) PlayerXP(ctx context.Context, name string) (int, error) {
	p, err := s.Player(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.XP, nil
}

// Leaderboard returns up to limit players by descending XP.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Player, error) {
	rows, err := s.queries["select-leaderboard"].QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Player
	for rows.Next() {
		p, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// Games returns up to limit of player's most recent results.
func (s *Store) Games(ctx context.Context, player string, limit int) ([]GameResult, error) {
	rows, err := s.queries["select-games-by"].QueryContext(ctx, player, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query games of %q: %w", player, err)
	}
	defer func() { _ = rows.Close() }()

	var result []GameResult
	for rows.Next() {
		var g GameResult
		err := rows.Scan(
			&g.GameID,
			&g.Player,
			&g.Win,
			&g.Points,
			&g.Presented,
			&g.Completed,
			&g.LongestStreak,
			&g.BestCombo,
			&g.CompletionRate,
			&g.XPEarned,
			&g.TotalXP,
			&g.Rank,
			&g.EndedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Completions returns the records of one player's game in the
// order they were stored.
func (s *Store) Completions(ctx context.Context, gameID, player string) ([]challenge.Record, error) {
	rows, err := s.queries["select-completions"].QueryContext(ctx, gameID, player)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []challenge.Record
	for rows.Next() {
		var r challenge.Record
		var id, ty, difficulty, window, status string
		err := rows.Scan(
			&id,
			&r.GameID,
			&r.Player,
			&ty,
			&difficulty,
			&r.Reward,
			&window,
			&status,
			&r.Move,
			&r.MoveNumber,
			&r.Streak,
			&r.Combo,
			&r.ResolvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		r.ChallengeID = challenge.ID(id)
		r.Type = challenge.Type(ty)
		r.Difficulty = challenge.Difficulty(difficulty)
		r.Window = challenge.TimeWindow(window)
		r.Status = challenge.Status(status)
		result = append(result, r)
	}
	return result, rows.Err()
}

// Close optimizes and closes both connections.
func (s *Store) Close() error {
	var errs []error
	if _, err := s.write.Exec("PRAGMA optimize;"); err != nil {
		errs = append(errs, err)
	}
	for _, stmt := range s.queries {
		_ = stmt.Close()
	}
	for _, stmt := range s.commands {
		_ = stmt.Close()
	}
	if err := s.write.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.read.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
