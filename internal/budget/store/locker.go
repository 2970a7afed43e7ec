package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/tally/internal/budget"
)

var _ budget.Locker = (*AdvisoryLocker)(nil)

// AdvisoryLocker serialises keys across processes sharing one database
// using session-level advisory locks. Each held key pins a connection, and
// the locked context routes Store queries onto it so a holder never waits on
// the pool it is blocking.
type AdvisoryLocker struct {
	db *sql.DB
}

func NewAdvisoryLocker(db *sql.DB) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

func advisoryKey(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))

	return int64(h.Sum64())
}

func (l *AdvisoryLocker) Lock(ctx context.Context, key string) (context.Context, func(), error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquiring connection: %w", err)
	}

	lockKey := advisoryKey(key)
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", lockKey); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("acquiring advisory lock %q: %w", key, err)
	}

	var once sync.Once

	return withConn(ctx, conn), func() {
		once.Do(func() {
			if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey); err != nil {
				slog.Error("failed to release advisory lock", "key", key, "error", err)
			}

			conn.Close()
		})
	}, nil
}

type connKey struct{}

func withConn(ctx context.Context, conn *sql.Conn) context.Context {
	return context.WithValue(ctx, connKey{}, conn)
}

// querier is the query surface shared by *sql.DB and *sql.Conn.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
