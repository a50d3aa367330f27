package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/SidneyBovet/online-chibre/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const tableName = "chibre_results"

const resultColumns = "id, created_at, player1, player2, player3, player4, team1_score, team2_score, winning_team, forfeited"

// Service stores finished match results. Game state itself is never
// persisted; only the final outcome of a match lands here.
type Service struct {
	db     *sql.DB
	mu     sync.Mutex
	driver string
	logger *zap.Logger
}

// New opens the results database (sqlite3 or pgx per config) and creates the
// results table if needed.
func New(cfg config.DatabaseConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		created_at text,
		player1 text,
		player2 text,
		player3 text,
		player4 text,
		team1_score integer,
		team2_score integer,
		winning_team integer,
		forfeited integer
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating %s table: %w", tableName, err)
	}

	logger.Info("results database ready",
		zap.String("driver", cfg.Driver),
		zap.String("table", tableName))

	return &Service{db: db, driver: cfg.Driver, logger: logger}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// rebind converts ?-style placeholders to the $n style pgx expects.
func (s *Service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func scanResult(rows interface{ Scan(...any) error }) (GameResult, error) {
	var result GameResult
	err := rows.Scan(
		&result.ID,
		&result.CreatedAt,
		&result.Player1,
		&result.Player2,
		&result.Player3,
		&result.Player4,
		&result.Team1Score,
		&result.Team2Score,
		&result.WinningTeam,
		&result.Forfeited)
	return result, err
}

// Insert records a finished match.
func (s *Service) Insert(result GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(s.rebind(
		"INSERT INTO "+tableName+" ("+resultColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.Player1,
		result.Player2,
		result.Player3,
		result.Player4,
		result.Team1Score,
		result.Team2Score,
		result.WinningTeam,
		result.Forfeited)
	return err
}

// GetAll returns every stored match result.
func (s *Service) GetAll() ([]GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query("SELECT " + resultColumns + " FROM " + tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// GetByID returns one match result by its game ID.
func (s *Service) GetByID(id string) (GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(s.rebind(
		"SELECT "+resultColumns+" FROM "+tableName+" WHERE id = ?"), id)
	return scanResult(row)
}

// GetByPlayer returns all matches a player took part in. Returns
// sql.ErrNoRows when there are none.
func (s *Service) GetByPlayer(playerName string) ([]GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(s.rebind(
		"SELECT "+resultColumns+" FROM "+tableName+
			" WHERE player1 = ? OR player2 = ? OR player3 = ? OR player4 = ?"),
		playerName, playerName, playerName, playerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}
