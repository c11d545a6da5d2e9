package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createDecisionsTable = `
CREATE TABLE IF NOT EXISTS ai_decisions (
	id TEXT PRIMARY KEY,
	request_id TEXT NOT NULL,
	transport TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	player INTEGER NOT NULL,
	stones INTEGER NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	stage TEXT NOT NULL,
	score INTEGER NOT NULL,
	depth INTEGER NOT NULL,
	nodes INTEGER NOT NULL,
	cached INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`

const createDecisionsIndex = `CREATE INDEX IF NOT EXISTS idx_ai_decisions_created_at ON ai_decisions(created_at)`

// SQLiteRecorder stores decisions in a local SQLite file.
type SQLiteRecorder struct {
	db *sql.DB
}

func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer keeps SQLite from reporting "database is locked".
	database.SetMaxOpenConns(1)

	for _, stmt := range []string{createDecisionsTable, createDecisionsIndex} {
		if _, err := database.Exec(stmt); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return &SQLiteRecorder{db: database}, nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, d Decision) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ai_decisions
			(id, request_id, transport, difficulty, player, stones, x, y, stage, score, depth, nodes, cached, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.RequestID, d.Transport, d.Difficulty, d.Player, d.Stones, d.X, d.Y,
		d.Stage, d.Score, d.Depth, d.Nodes, boolInt(d.Cached), d.ElapsedMs, d.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]Decision, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, transport, difficulty, player, stones, x, y, stage, score, depth, nodes, cached, elapsed_ms, created_at
		FROM ai_decisions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.RequestID, &d.Transport, &d.Difficulty, &d.Player, &d.Stones,
			&d.X, &d.Y, &d.Stage, &d.Score, &d.Depth, &d.Nodes, &d.Cached, &d.ElapsedMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ai_decisions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete decisions: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close(context.Context) error {
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
