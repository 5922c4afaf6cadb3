package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/pusher-rest/internal/types"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 100

// WebhookEventRecord is one stored webhook event.
type WebhookEventRecord struct {
	ID         types.WebhookEventID `db:"event_id" json:"event_id"`
	ReceivedMs int64                `db:"received_ms" json:"received_ms"`
	TimeMs     int64                `db:"time_ms" json:"time_ms"`
	Name       string               `db:"name" json:"name"`
	Channel    string               `db:"channel" json:"channel"`
	Event      string               `db:"event" json:"event"`
	Data       string               `db:"data" json:"data"`
	SocketID   string               `db:"socket_id" json:"socket_id"`
	UserID     string               `db:"user_id" json:"user_id"`
}

// WebhookStore records validated webhooks, one row per event.
type WebhookStore struct {
	db      *sqlx.DB
	queries *Queries
	now     func() time.Time
}

// NewWebhookStore loads the store's named queries. The schema must already be
// migrated.
func NewWebhookStore(db *sqlx.DB) (*WebhookStore, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &WebhookStore{db: db, queries: queries, now: time.Now}, nil
}

// Record stores every event of hook in one transaction and returns how many
// rows were written.
func (s *WebhookStore) Record(ctx context.Context, hook *types.Webhook) (int, error) {
	if hook == nil || len(hook.Events) == 0 {
		return 0, nil
	}

	receivedMs := s.now().UnixMilli()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, ev := range hook.Events {
		_, err := s.queries.ExecTx(ctx, tx, "insert-webhook-event",
			string(types.NewWebhookEventID()), receivedMs, hook.TimeMs,
			ev.Name, ev.Channel, ev.Event, ev.Data, ev.SocketID, ev.UserID)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert webhook event %s: %w", ev.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit webhook events: %w", err)
	}

	return len(hook.Events), nil
}

// List returns the newest events first, optionally restricted to one channel.
func (s *WebhookStore) List(ctx context.Context, channel string, limit int) ([]WebhookEventRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var records []WebhookEventRecord
	var err error
	if channel == "" {
		err = s.queries.Select(ctx, "list-webhook-events", &records, limit)
	} else {
		err = s.queries.Select(ctx, "list-webhook-events-by-channel", &records, channel, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return records, nil
}

// Count returns the number of stored events.
func (s *WebhookStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.queries.Get(ctx, "count-webhook-events", &n); err != nil {
		return 0, fmt.Errorf("failed to count webhook events: %w", err)
	}
	return n, nil
}

// Prune deletes events received before cutoff and returns how many were removed.
func (s *WebhookStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.queries.Exec(ctx, "delete-webhook-events-before", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune webhook events: %w", err)
	}
	return res.RowsAffected()
}
