package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"immunization_reporter/internal/domain/report"

	"github.com/sirupsen/logrus"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second
)

// Client executes parameterized queries against the data source with
// bounded retry on transient failures.
type Client struct {
	db    *sql.DB
	retry retryPolicy
	log   *logrus.Entry
}

func NewClient(db *sql.DB, log *logrus.Entry) *Client {
	return &Client{
		db: db,
		retry: retryPolicy{
			maxAttempts: defaultMaxRetries,
			delay:       defaultRetryDelay,
			sleep:       sleepContext,
			retryable:   isRetryable,
		},
		log: log,
	}
}

// TestConnection issues a trivial probe query and reports whether the
// expected sentinel came back. It never panics; any failure becomes the
// returned reason.
func (c *Client) TestConnection(ctx context.Context) error {
	var probe int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&probe); err != nil {
		return fmt.Errorf("connection probe failed: %w", err)
	}
	if probe != 1 {
		return fmt.Errorf("connection probe returned unexpected value %d", probe)
	}
	return nil
}

// Execute runs a parameterized query with up to maxRetries attempts,
// sleeping a fixed delay between attempts. Only transient driver and
// connectivity errors are retried; anything else, and the last error after
// exhausted retries, surfaces to the caller unchanged.
func (c *Client) Execute(ctx context.Context, query string, args ...any) (*report.ResultSet, error) {
	var rs *report.ResultSet
	err := c.retry.run(ctx, c.log, func() error {
		var opErr error
		rs, opErr = c.queryAll(ctx, query, args...)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Close releases all pooled connections. Idempotent.
func (c *Client) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("error closing database connections: %w", err)
	}
	c.log.Info("database connections closed")
	return nil
}

func (c *Client) queryAll(ctx context.Context, query string, args ...any) (*report.ResultSet, error) {
	// Errors are returned unwrapped here so the retry predicate sees the
	// driver's own types.
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &report.ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = vals[i]
			}
		}
		rs.Records = append(rs.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
