package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// retryPolicy runs an operation up to maxAttempts times with a fixed delay
// between attempts. Only errors accepted by the retryable predicate are
// retried; everything else surfaces immediately. The sleep function is a
// field so tests can count attempts without waiting.
type retryPolicy struct {
	maxAttempts int
	delay       time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	retryable   func(error) bool
}

func (p retryPolicy) run(ctx context.Context, log *logrus.Entry, op func() error) error {
	var last error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		last = op()
		if last == nil {
			return nil
		}
		if !p.retryable(last) {
			return last
		}
		if attempt == p.maxAttempts {
			log.Errorf("all %d query attempts failed", p.maxAttempts)
			break
		}
		log.Warnf("query attempt %d failed: %v, retrying in %s", attempt, last, p.delay)
		if err := p.sleep(ctx, p.delay); err != nil {
			return err
		}
	}
	return last
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryable is the enumerated policy for transient data-source failures:
// dropped or exhausted connections, network errors, and the PostgreSQL
// SQLSTATE classes for connection failure (08), transaction rollback (40,
// including 40P01 deadlock), insufficient resources (53), and operator
// intervention (57P*, e.g. server shutdown). Context cancellation is never
// retried so interrupts stay prompt.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "40", "53":
			return true
		}
		if strings.HasPrefix(string(pqErr.Code), "57P") {
			return true
		}
	}
	return false
}
