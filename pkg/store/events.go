package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// FeedEvent is one recorded dispensing.
type FeedEvent struct {
	ID        int64     `db:"id" json:"id"`
	At        time.Time `db:"at" json:"at"`
	Rotations int       `db:"rotations" json:"rotations"`
	Source    string    `db:"source" json:"source"`
}

// RecordFeed appends a dispensing to the history, retrying on lock
// contention.
func (s *Store) RecordFeed(ctx context.Context, rotations int, source string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `INSERT INTO feed_events (at, rotations, source) VALUES (?, ?, ?)`
		_, err := s.conn.ExecContext(ctx, query, time.Now().UTC(), rotations, source)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("record feed: %w", err)}
		}
		return nil
	})
}

// RecentEvents returns the newest events first, up to limit.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]FeedEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []FeedEvent
	query := `SELECT * FROM feed_events ORDER BY at DESC, id DESC LIMIT ?`
	if err := s.conn.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("get recent events: %w", err)
	}
	return events, nil
}

// PurgeEvents deletes history older than keep and reports how many rows went.
func (s *Store) PurgeEvents(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-keep)
	res, err := s.conn.ExecContext(ctx, `DELETE FROM feed_events WHERE at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge events affected: %w", err)
	}
	return n, nil
}
