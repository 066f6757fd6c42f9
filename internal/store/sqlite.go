// Package store persists the tool-call audit log in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ToolCall captures one incoming MCP request handled by the server.
type ToolCall struct {
	ID         int64
	Method     string
	ToolName   string
	Project    string
	Success    bool
	ErrorText  string
	DurationMS int64
	CreatedAt  time.Time
}

// Stats summarizes audit counters for the admin dashboard.
type Stats struct {
	Total    int64
	Failed   int64
	Last24h  int64
	OldestAt time.Time
}

// Store represents the audit persistence used by the MCP server and admin UI.
type Store interface {
	InsertToolCall(ctx context.Context, rec ToolCall) error
	RecentToolCalls(ctx context.Context, limit int) ([]ToolCall, error)
	RecentFailures(ctx context.Context, limit int) ([]ToolCall, error)
	Stats(ctx context.Context, now time.Time) (Stats, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// SQLiteStore is a SQLite-backed audit store.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens and initializes the audit store.
func OpenSQLite(ctx context.Context, dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	for _, stmt := range splitSQLStatements(schemaSQL) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run schema stmt: %w", err)
		}
	}
	return nil
}

func splitSQLStatements(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p+";")
	}
	return out
}

// InsertToolCall stores one request event.
func (s *SQLiteStore) InsertToolCall(ctx context.Context, rec ToolCall) error {
	ts := rec.CreatedAt.UTC()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	success := 0
	if rec.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO tool_calls (
		method, tool_name, project, success, error_text, duration_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(rec.Method),
		strings.TrimSpace(rec.ToolName),
		strings.TrimSpace(rec.Project),
		success,
		strings.TrimSpace(rec.ErrorText),
		rec.DurationMS,
		ts.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert tool call: %w", err)
	}
	return nil
}

// RecentToolCalls returns events in newest-first order.
func (s *SQLiteStore) RecentToolCalls(ctx context.Context, limit int) ([]ToolCall, error) {
	return s.listToolCalls(ctx, "", limit)
}

// RecentFailures returns only failed events, newest first.
func (s *SQLiteStore) RecentFailures(ctx context.Context, limit int) ([]ToolCall, error) {
	return s.listToolCalls(ctx, "WHERE success = 0", limit)
}

func (s *SQLiteStore) listToolCalls(ctx context.Context, where string, limit int) ([]ToolCall, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, method, tool_name, project, success, error_text, duration_ms, created_at
FROM tool_calls
` + where + `
ORDER BY created_at DESC
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list tool calls: %w", err)
	}
	defer rows.Close()

	items := make([]ToolCall, 0, limit)
	for rows.Next() {
		var (
			row            ToolCall
			successAsInt   int
			createdAtValue string
		)
		if err := rows.Scan(
			&row.ID,
			&row.Method,
			&row.ToolName,
			&row.Project,
			&successAsInt,
			&row.ErrorText,
			&row.DurationMS,
			&createdAtValue,
		); err != nil {
			return nil, fmt.Errorf("scan tool call: %w", err)
		}
		row.Success = successAsInt == 1
		if ts, err := time.Parse(time.RFC3339Nano, createdAtValue); err == nil {
			row.CreatedAt = ts
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

// Stats returns audit counters.
func (s *SQLiteStore) Stats(ctx context.Context, now time.Time) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tool_calls`).Scan(&st.Total); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tool_calls WHERE success = 0`).Scan(&st.Failed); err != nil {
		return st, err
	}
	dayAgo := now.UTC().Add(-24 * time.Hour).Format(time.RFC3339Nano)
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tool_calls WHERE created_at > ?`, dayAgo).Scan(&st.Last24h); err != nil {
		return st, err
	}
	var oldest sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT min(created_at) FROM tool_calls`).Scan(&oldest); err != nil {
		return st, err
	}
	if oldest.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, oldest.String); err == nil {
			st.OldestAt = ts
		}
	}
	return st, nil
}

// PruneBefore removes events older than cutoff and returns the count.
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tool_calls WHERE created_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune tool calls: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
