package monitor

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/couchcryptid/landslide-monitor/internal/observability"
)

// LatestRisk is the assessment of the most recently appended record. Record is
// nil when the store is empty, in which case Assessment is NO_DATA.
type LatestRisk struct {
	Assessment domain.Assessment
	Record     *domain.SensorRecord
}

// Risk assesses the latest reading.
type Risk struct {
	loader  RecordLoader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRisk creates a Risk view over loader.
func NewRisk(loader RecordLoader, logger *slog.Logger, metrics *observability.Metrics) *Risk {
	return &Risk{loader: loader, logger: logger, metrics: metrics}
}

// Latest classifies the last record by append order. A record appended later
// wins even if its timestamp is older than an earlier record's.
func (r *Risk) Latest(ctx context.Context) (LatestRisk, error) {
	recs, err := loadLive(ctx, r.loader)
	if err != nil {
		r.metrics.Assessments.WithLabelValues(string(domain.RiskError)).Inc()
		r.logger.Error("load records for risk failed", "error", err)
		return LatestRisk{}, err
	}

	var latest *domain.SensorRecord
	if len(recs) > 0 {
		latest = &recs[len(recs)-1]
	}

	result := LatestRisk{Assessment: domain.ClassifyRecord(latest), Record: latest}
	r.metrics.Assessments.WithLabelValues(string(result.Assessment.Level)).Inc()
	return result, nil
}
