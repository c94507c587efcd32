// Package journal persists planning passes to SQLite so a game can be
// reviewed after the fact.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nstehr/vimy/vimy-planner/planner"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed plan journal. A nil *Store records nothing and
// reads back nothing.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Entry is one recorded task.
type Entry struct {
	PlanID      string
	Player      string
	Day         int
	Rank        int
	Kind        string
	Tier        string
	Town        int
	Hero        int
	Value       float64
	Cost        int
	Description string
	Truncated   bool
	RecordedAt  time.Time
}

// Open opens (or creates) the journal at path and applies migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}

	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record writes every task of p, in rank order, in a single transaction.
func (s *Store) Record(ctx context.Context, p planner.Plan, player string) error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO plan_tasks
		(plan_id, player, day, rank, kind, tier, town, hero, value, cost, description, truncated, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	at := s.now().UTC().UnixMilli()
	for i, g := range p.Tasks {
		if _, err := stmt.ExecContext(ctx,
			p.ID.String(), player, p.Day, i,
			g.Kind.String(), g.Priority.String(),
			g.Town, g.Hero, g.Value, g.Cost, g.String(),
			boolInt(p.Truncated), at,
		); err != nil {
			return fmt.Errorf("insert task %d of plan %s: %w", i, p.ID, err)
		}
	}
	return tx.Commit()
}

// RecordEvent stores a game event observed while producing plan planID.
func (s *Store) RecordEvent(ctx context.Context, planID, player string, day int, kind, detail string) error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO plan_events (plan_id, player, day, kind, detail) VALUES (?, ?, ?, ?, ?)`,
		planID, player, day, kind, detail)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Best returns the top-ranked task of each recorded plan for player, newest
// day first, at most limit rows.
func (s *Store) Best(ctx context.Context, player string, limit int) ([]Entry, error) {
	return s.query(ctx, `SELECT plan_id, player, day, rank, kind, tier, town, hero, value, cost, description, truncated, recorded_at
		FROM plan_tasks WHERE player = ? AND rank = 0
		ORDER BY day DESC, recorded_at DESC LIMIT ?`, player, limit)
}

// Plan returns the tasks of one plan in rank order.
func (s *Store) Plan(ctx context.Context, planID string) ([]Entry, error) {
	return s.query(ctx, `SELECT plan_id, player, day, rank, kind, tier, town, hero, value, cost, description, truncated, recorded_at
		FROM plan_tasks WHERE plan_id = ? ORDER BY rank`, planID)
}

// EventCount returns how many events were recorded for player.
func (s *Store) EventCount(ctx context.Context, player string) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, nil
	}
	var n int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM plan_events WHERE player = ?`, player).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	if s == nil || s.sqlDB == nil {
		return nil, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query plan tasks: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var truncated int
		var at int64
		if err := rows.Scan(&e.PlanID, &e.Player, &e.Day, &e.Rank, &e.Kind, &e.Tier,
			&e.Town, &e.Hero, &e.Value, &e.Cost, &e.Description, &truncated, &at); err != nil {
			return nil, fmt.Errorf("scan plan task: %w", err)
		}
		e.Truncated = truncated != 0
		e.RecordedAt = time.UnixMilli(at).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
