package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// NVS is a namespaced view over the nvs table, the integer key-value space
// the schedule codec persists through. Each call is a single statement of its
// own; nothing is held between calls.
type NVS struct {
	store *Store
	ns    string
}

// NVS returns the key-value view for the given namespace.
func (s *Store) NVS(ns string) *NVS {
	return &NVS{store: s, ns: ns}
}

// GetInt reads one value, returning def when the key is absent.
func (n *NVS) GetInt(ctx context.Context, key string, def int) (int, error) {
	var val int
	query := `SELECT value FROM nvs WHERE ns = ? AND key = ?`
	err := n.store.conn.GetContext(ctx, &val, query, n.ns, key)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s/%s: %w", n.ns, key, err)
	}
	return val, nil
}

// PutInt upserts one value, retrying on lock contention.
func (n *NVS) PutInt(ctx context.Context, key string, val int) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO nvs (ns, key, value) VALUES (?, ?, ?)
			ON CONFLICT(ns, key) DO UPDATE SET value = excluded.value
		`
		_, err := n.store.conn.ExecContext(ctx, query, n.ns, key, val)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("put %s/%s: %w", n.ns, key, err)}
		}
		return nil
	})
}
