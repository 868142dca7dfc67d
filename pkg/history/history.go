package history

import (
	"context"
	"time"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// Entry is one row of the alert history log: a notification at the moment it
// first appeared in a computation cycle.
type Entry struct {
	ID             int64          `json:"id"`
	NotificationID string         `json:"notification_id"`
	Type           model.Type     `json:"type"`
	Severity       model.Severity `json:"severity"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Timestamp      time.Time      `json:"timestamp"`
	RecordedAt     time.Time      `json:"recorded_at"`
}

// Storage defines the persistence layer for the alert history log. The live
// inbox stays in memory; the log is an append-only audit trail of which
// alerts were raised and when.
type Storage interface {
	// Append records notifications that newly appeared in the cycle that ran
	// at recordedAt.
	Append(ctx context.Context, recordedAt time.Time, notifications []model.Notification) error

	// Recent returns the most recent entries, up to limit, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close releases resources.
	Close() error
}
