package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/couchcryptid/landslide-monitor/internal/observability"
)

// DefaultKey is the key existing installs keep their record list under.
const DefaultKey = "@sensor_data_history"

// RecordStore owns the serialized record list. All access goes through
// LoadAll, Append, and Clear; callers never hold the collection itself.
//
// Append is a read-modify-write with no locking. Two concurrent appenders can
// lose a record; the service assumes a single writer.
type RecordStore struct {
	kv      KV
	key     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRecordStore creates a RecordStore over kv. An empty key selects DefaultKey.
func NewRecordStore(kv KV, key string, logger *slog.Logger, metrics *observability.Metrics) *RecordStore {
	if key == "" {
		key = DefaultKey
	}
	return &RecordStore{kv: kv, key: key, logger: logger, metrics: metrics}
}

// LoadAll returns every record in insertion order. An absent key is an empty
// list. A blob that does not decode returns ErrCorruptData.
func (s *RecordStore) LoadAll(ctx context.Context) ([]domain.SensorRecord, error) {
	start := time.Now()
	recs, err := s.load(ctx)
	s.observe("load", start, err)
	return recs, err
}

// Append adds rec after the last stored record and writes the whole list back
// with a single Set. If the load fails nothing is written, so a corrupt blob is
// never replaced by a shorter list.
func (s *RecordStore) Append(ctx context.Context, rec domain.SensorRecord) error {
	start := time.Now()
	err := s.appendRecord(ctx, rec)
	s.observe("append", start, err)
	if err == nil {
		s.metrics.RecordsAppended.Inc()
		s.logger.Debug("record appended", "record_id", rec.ID)
	}
	return err
}

// Clear removes the stored list entirely.
func (s *RecordStore) Clear(ctx context.Context) error {
	start := time.Now()
	var err error
	if rerr := s.kv.Remove(ctx, s.key); rerr != nil {
		err = &StorageError{Op: "remove", Key: s.key, Err: rerr}
	}
	s.observe("clear", start, err)
	if err == nil {
		s.logger.Info("records cleared", "key", s.key)
	}
	return err
}

// CheckReadiness reports whether the backing KV answers a read.
func (s *RecordStore) CheckReadiness(ctx context.Context) error {
	start := time.Now()
	var err error
	if _, _, gerr := s.kv.Get(ctx, s.key); gerr != nil {
		err = &StorageError{Op: "get", Key: s.key, Err: gerr}
	}
	s.observe("ping", start, err)
	return err
}

func (s *RecordStore) load(ctx context.Context) ([]domain.SensorRecord, error) {
	blob, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: s.key, Err: err}
	}
	if !ok || blob == "" {
		return []domain.SensorRecord{}, nil
	}

	var recs []domain.SensorRecord
	if err := json.Unmarshal([]byte(blob), &recs); err != nil {
		s.logger.Error("stored records do not decode", "key", s.key, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	if recs == nil {
		recs = []domain.SensorRecord{}
	}
	return recs, nil
}

func (s *RecordStore) appendRecord(ctx context.Context, rec domain.SensorRecord) error {
	recs, err := s.load(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(append(recs, rec))
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return &StorageError{Op: "set", Key: s.key, Err: err}
	}
	return nil
}

func (s *RecordStore) observe(op string, start time.Time, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, ErrCorruptData):
		outcome = "corrupt"
	case err != nil:
		outcome = "error"
		s.logger.Warn("storage operation failed", "op", op, "key", s.key, "error", err)
	}
	s.metrics.StorageOperations.WithLabelValues(op, outcome).Inc()
	s.metrics.StorageDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
