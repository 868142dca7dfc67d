package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopmetrics/sentinel/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, recordedAt time.Time, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}

	for _, n := range notifications {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO alert_log (notification_id, type, severity, title, message, timestamp, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.ID, string(n.Type), string(n.Severity), n.Title, n.Message, n.Timestamp, recordedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert alert log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history append: %w", err)
	}
	return nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, notification_id, type, severity, title, message, timestamp, recorded_at
		 FROM alert_log ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query alert log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var typ, severity string
		if err := rows.Scan(&e.ID, &e.NotificationID, &typ, &severity,
			&e.Title, &e.Message, &e.Timestamp, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan alert log row: %w", err)
		}
		e.Type = model.Type(typ)
		e.Severity = model.Severity(severity)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
