package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification kinds dispatched to Telegram chats.
const (
	NotificationJournalReminder = "journal_reminder"
	NotificationReportReady     = "report_ready"
)

// Notification is a queued outbound Telegram message.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	OrgID     uuid.UUID  `json:"org_id"`
	AccountID uuid.UUID  `json:"account_id,omitzero"`
	ChatID    int64      `json:"chat_id"`
	Kind      string     `json:"kind"`
	Body      string     `json:"body"`
	DueAt     time.Time  `json:"due_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
}

// EnqueueNotification schedules a message for delivery at dueAt.
func (r *Repository) EnqueueNotification(ctx context.Context, n Notification) (*Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, org_id, account_id, chat_id, kind, body, due_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.OrgID, nilIfZero(n.AccountID), n.ChatID, n.Kind, n.Body, n.DueAt,
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}
	return &n, nil
}

// HasDueNotifications reports whether any unsent message is due. Used as a
// cheap scheduler precondition before loading rows.
func (r *Repository) HasDueNotifications(ctx context.Context, now time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE sent_at IS NULL AND due_at <= $1)`,
		now,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has due notifications: %w", err)
	}
	return exists, nil
}

// ListDueNotifications returns unsent messages due by now, oldest first.
func (r *Repository) ListDueNotifications(ctx context.Context, now time.Time, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, account_id, chat_id, kind, body, due_at, sent_at, attempts, last_error
		 FROM notifications
		 WHERE sent_at IS NULL AND due_at <= $1
		 ORDER BY due_at
		 LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	defer rows.Close()

	var due []Notification
	for rows.Next() {
		var n Notification
		var accountID *uuid.UUID
		if err := rows.Scan(&n.ID, &n.OrgID, &accountID, &n.ChatID, &n.Kind, &n.Body,
			&n.DueAt, &n.SentAt, &n.Attempts, &n.LastError); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if accountID != nil {
			n.AccountID = *accountID
		}
		due = append(due, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	return due, nil
}

// MarkNotificationSent records successful delivery.
func (r *Repository) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET sent_at = $2, attempts = attempts + 1, last_error = ''
		 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// MarkNotificationFailed records a delivery failure. The row stays unsent and
// is picked up again on the next pass.
func (r *Repository) MarkNotificationFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET attempts = attempts + 1, last_error = $2
		 WHERE id = $1`,
		id, cause,
	)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

// CountNotificationsSentInPeriod returns how many messages a workspace sent
// in [from, to). Feeds report generation.
func (r *Repository) CountNotificationsSentInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications
		 WHERE org_id = $1 AND sent_at >= $2 AND sent_at < $3`,
		orgID, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sent notifications: %w", err)
	}
	return n, nil
}
