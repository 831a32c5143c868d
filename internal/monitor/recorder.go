package monitor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/couchcryptid/landslide-monitor/internal/observability"
)

// Recorder validates form input and stores accepted readings.
type Recorder struct {
	appender RecordAppender
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRecorder creates a Recorder that appends through a.
func NewRecorder(a RecordAppender, logger *slog.Logger, metrics *observability.Metrics) *Recorder {
	return &Recorder{appender: a, logger: logger, metrics: metrics}
}

// Submit parses the raw form fields and appends one record. A *domain.ValidationError
// means nothing was written; any other error comes from the store.
func (r *Recorder) Submit(ctx context.Context, rawMoisture, rawSlope string) (domain.SensorRecord, error) {
	reading, err := domain.ParseReading(rawMoisture, rawSlope)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			r.metrics.ValidationErrors.WithLabelValues(string(verr.Kind)).Inc()
		}
		r.logger.Debug("reading rejected", "error", err)
		return domain.SensorRecord{}, err
	}

	rec, err := domain.NewSensorRecord(reading)
	if err != nil {
		return domain.SensorRecord{}, err
	}

	if err := r.appender.Append(ctx, rec); err != nil {
		r.logger.Error("save reading failed", "record_id", rec.ID, "error", err)
		return domain.SensorRecord{}, err
	}

	r.logger.Info("reading saved",
		"record_id", rec.ID,
		"soil_moisture", rec.SoilMoisture,
		"slope", rec.Slope,
	)
	return rec, nil
}
