package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the persisted timestamp format: UTC with exactly three
// fractional digits, e.g. 2024-04-26T15:10:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// SensorRecord is one stored measurement. Its JSON field names match the layout
// already persisted by existing installs, so old blobs load unchanged.
//
// Stored records are not re-validated on read. A reading that is absent or not a
// JSON number decodes as NaN so that it classifies as INCOMPLETE. NaN is written
// back as null.
type SensorRecord struct {
	ID           string
	Timestamp    time.Time
	SoilMoisture float64
	Slope        float64
}

// NewSensorRecord stamps a validated reading with a fresh ID and the current time.
func NewSensorRecord(r Reading) (SensorRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return SensorRecord{}, fmt.Errorf("generate record id: %w", err)
	}
	return SensorRecord{
		ID:           id.String(),
		Timestamp:    clock.Now().UTC().Truncate(time.Millisecond),
		SoilMoisture: r.SoilMoisture,
		Slope:        r.Slope,
	}, nil
}

type recordJSON struct {
	ID           string   `json:"id"`
	Timestamp    string   `json:"timestamp"`
	SoilMoisture *float64 `json:"soilMoisture"`
	Slope        *float64 `json:"slope"`
}

type rawRecordJSON struct {
	ID           json.RawMessage `json:"id"`
	Timestamp    json.RawMessage `json:"timestamp"`
	SoilMoisture json.RawMessage `json:"soilMoisture"`
	Slope        json.RawMessage `json:"slope"`
}

func (r SensorRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:           r.ID,
		Timestamp:    r.Timestamp.UTC().Format(TimestampLayout),
		SoilMoisture: finiteOrNil(r.SoilMoisture),
		Slope:        finiteOrNil(r.Slope),
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any element of the stored array. Fields of the wrong
// type are kept as their zero value (ID, Timestamp) or NaN (readings); only
// malformed JSON is an error.
func (r *SensorRecord) UnmarshalJSON(data []byte) error {
	*r = SensorRecord{SoilMoisture: math.NaN(), Slope: math.NaN()}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return fmt.Errorf("decode sensor record: invalid JSON")
		}
		return nil
	}

	var raw rawRecordJSON
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("decode sensor record: %w", err)
	}

	var id string
	if json.Unmarshal(raw.ID, &id) == nil {
		r.ID = id
	}
	var ts string
	if json.Unmarshal(raw.Timestamp, &ts) == nil {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			r.Timestamp = t.UTC()
		}
	}
	r.SoilMoisture = decodeReading(raw.SoilMoisture)
	r.Slope = decodeReading(raw.Slope)
	return nil
}

// decodeReading returns NaN unless raw is a JSON number.
func decodeReading(raw json.RawMessage) float64 {
	var v float64
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || bytes.Equal(raw, []byte("null")) {
		return math.NaN()
	}
	return v
}

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}
