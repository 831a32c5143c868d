// Package monitor implements the user-facing operations: submitting a reading,
// browsing history, and assessing the latest reading's landslide risk.
package monitor

import (
	"context"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
)

// RecordLoader reads every stored record in insertion order.
type RecordLoader interface {
	LoadAll(ctx context.Context) ([]domain.SensorRecord, error)
}

// RecordAppender adds one record to the end of the store.
type RecordAppender interface {
	Append(ctx context.Context, rec domain.SensorRecord) error
}

// RecordClearer removes every stored record.
type RecordClearer interface {
	Clear(ctx context.Context) error
}

// RecordRepository is the full record store surface used by History.
type RecordRepository interface {
	RecordLoader
	RecordClearer
}

// loadLive loads records and drops the result if the caller has gone away in
// the meantime.
func loadLive(ctx context.Context, loader RecordLoader) ([]domain.SensorRecord, error) {
	recs, err := loader.LoadAll(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return recs, err
}
