package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SidneyBovet/online-chibre/internal/config"

	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "results.db"),
	}
	svc, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func sampleResult(id string) GameResult {
	return GameResult{
		ID:          id,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Player1:     "alice",
		Player2:     "bob",
		Player3:     "carol",
		Player4:     "dave",
		Team1Score:  1042,
		Team2Score:  876,
		WinningTeam: 1,
		Forfeited:   false,
	}
}

func TestInsertAndGetAll(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Insert(sampleResult("game-1")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := svc.Insert(sampleResult("game-2")); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	results, err := svc.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("GetAll() returned %d results, want 2", len(results))
	}
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t)

	want := sampleResult("game-42")
	want.Forfeited = true
	if err := svc.Insert(want); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, err := svc.GetByID("game-42")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got != want {
		t.Errorf("GetByID() = %+v, want %+v", got, want)
	}

	if _, err := svc.GetByID("no-such-game"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestGetByPlayer(t *testing.T) {
	svc := newTestService(t)

	first := sampleResult("game-1")
	second := sampleResult("game-2")
	second.Player1 = "erin"
	second.Player3 = "frank"
	for _, r := range []GameResult{first, second} {
		if err := svc.Insert(r); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	// Bob sat at every table, carol only at the first one.
	results, err := svc.GetByPlayer("bob")
	if err != nil {
		t.Fatalf("GetByPlayer(bob) error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("GetByPlayer(bob) returned %d results, want 2", len(results))
	}

	results, err = svc.GetByPlayer("carol")
	if err != nil {
		t.Fatalf("GetByPlayer(carol) error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "game-1" {
		t.Errorf("GetByPlayer(carol) = %+v, want only game-1", results)
	}

	if _, err := svc.GetByPlayer("mallory"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByPlayer(unknown) error = %v, want sql.ErrNoRows", err)
	}
}

func TestRebindForPgx(t *testing.T) {
	sqlite := &Service{driver: "sqlite3"}
	pgx := &Service{driver: "pgx"}

	query := "SELECT * FROM t WHERE a = ? AND b = ?"
	if got := sqlite.rebind(query); got != query {
		t.Errorf("sqlite rebind changed the query: %q", got)
	}
	want := "SELECT * FROM t WHERE a = $1 AND b = $2"
	if got := pgx.rebind(query); got != want {
		t.Errorf("pgx rebind = %q, want %q", got, want)
	}
}
