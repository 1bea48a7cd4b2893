// Package notify delivers terminal-state notifications. Delivery is best
// effort by contract: every implementation logs its own failures and never
// returns an error to the task.
package notify

import (
	"context"
	"log/slog"
)

type Notifier interface {
	Notify(ctx context.Context, ownerID, fileID string, success bool)
}

// Multi fans one notification out to every configured channel.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Notify(ctx context.Context, ownerID, fileID string, success bool) {
	for _, n := range m.notifiers {
		n.Notify(ctx, ownerID, fileID, success)
	}
}

// Log records the notification in the structured log. Always configured,
// so every terminal transition leaves a trace even without external
// channels.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Notify(_ context.Context, ownerID, fileID string, success bool) {
	if success {
		slog.Info("file_processed", "owner_id", ownerID, "file_id", fileID)
		return
	}
	slog.Info("file_processing_failed", "owner_id", ownerID, "file_id", fileID)
}
