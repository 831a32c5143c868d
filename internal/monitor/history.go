package monitor

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/couchcryptid/landslide-monitor/internal/store"
)

// ClearOutcome describes what a clear request did.
type ClearOutcome string

const (
	// ClearNothingToDo: the history was already empty. No prompt, nothing removed.
	ClearNothingToDo ClearOutcome = "empty"
	// ClearNeedsConfirmation: records exist but the request was not confirmed.
	ClearNeedsConfirmation ClearOutcome = "confirmation_required"
	// ClearDone: the history was removed.
	ClearDone ClearOutcome = "cleared"
)

// ClearResult is returned by History.Clear. Count is the number of records that
// existed when the request was evaluated.
type ClearResult struct {
	Outcome ClearOutcome `json:"outcome"`
	Count   int          `json:"count"`
}

// History lists stored records newest-first and guards the destructive clear.
type History struct {
	repo   RecordRepository
	logger *slog.Logger
}

// NewHistory creates a History view over repo.
func NewHistory(repo RecordRepository, logger *slog.Logger) *History {
	return &History{repo: repo, logger: logger}
}

// Load re-reads the store on every call and returns records sorted by
// timestamp, newest first. Equal timestamps keep their insertion order.
func (h *History) Load(ctx context.Context) ([]domain.SensorRecord, error) {
	recs, err := loadLive(ctx, h.repo)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recs)
	return recs, nil
}

// Clear removes all records, but only when confirmed is true and there is
// something to remove. A corrupt store counts as non-empty so it can still be
// wiped; its Count is zero because the records cannot be counted.
func (h *History) Clear(ctx context.Context, confirmed bool) (ClearResult, error) {
	recs, err := loadLive(ctx, h.repo)
	corrupt := errors.Is(err, store.ErrCorruptData)
	if err != nil && !corrupt {
		return ClearResult{}, err
	}
	if len(recs) == 0 && !corrupt {
		return ClearResult{Outcome: ClearNothingToDo}, nil
	}
	if !confirmed {
		return ClearResult{Outcome: ClearNeedsConfirmation, Count: len(recs)}, nil
	}

	if err := h.repo.Clear(ctx); err != nil {
		return ClearResult{}, err
	}
	h.logger.Info("history cleared", "records", len(recs), "corrupt", corrupt)
	return ClearResult{Outcome: ClearDone, Count: len(recs)}, nil
}

func sortNewestFirst(recs []domain.SensorRecord) {
	slices.SortStableFunc(recs, func(a, b domain.SensorRecord) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}
