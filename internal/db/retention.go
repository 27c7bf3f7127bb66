package db

import (
	"context"
	"time"

	"github.com/banshee-data/playtest.report/internal/monitoring"
	"github.com/banshee-data/playtest.report/internal/timeutil"
)

// RetentionWorker periodically deletes stored sessions older than MaxAge.
// The server runs one of these when a retention period is configured; old
// automated play-test runs lose their value quickly once the build has moved
// on, and the database would otherwise grow without bound.
type RetentionWorker struct {
	DB       *DB
	MaxAge   time.Duration // sessions older than this are removed
	Interval time.Duration // how often to sweep (e.g., 1h)
	Clock    timeutil.Clock
	StopChan chan struct{}
}

func NewRetentionWorker(db *DB, maxAge time.Duration) *RetentionWorker {
	return &RetentionWorker{
		DB:       db,
		MaxAge:   maxAge,
		Interval: time.Hour,
		Clock:    timeutil.RealClock{},
		StopChan: make(chan struct{}),
	}
}

// Start runs the periodic sweep loop in a goroutine.
func (w *RetentionWorker) Start() {
	go func() {
		ticker := w.Clock.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				if _, err := w.RunOnce(context.Background()); err != nil {
					monitoring.Logf("retention sweep error: %v", err)
				}
			case <-w.StopChan:
				return
			}
		}
	}()
}

// Stop requests the worker to stop.
func (w *RetentionWorker) Stop() {
	close(w.StopChan)
}

// RunOnce deletes sessions whose created_at predates the retention cutoff and
// returns how many were removed. Child rows go with them via cascade.
func (w *RetentionWorker) RunOnce(ctx context.Context) (int64, error) {
	// created_at is stored by SQLite as UTC "YYYY-MM-DD HH:MM:SS".
	cutoff := w.Clock.Now().UTC().Add(-w.MaxAge).Format("2006-01-02 15:04:05")

	result, err := w.DB.ExecContext(ctx, `DELETE FROM sessions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		monitoring.Logf("retention sweep removed %d session(s) older than %s", removed, w.MaxAge)
	}
	return removed, nil
}
