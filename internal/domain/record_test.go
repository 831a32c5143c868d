package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyBlob = `[{"id":"1714144200000","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":60.5,"slope":20}]`

func TestNewSensorRecord(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 123456789, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	rec, err := NewSensorRecord(Reading{SoilMoisture: 60.5, Slope: 20})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.April, 26, 15, 10, 0, 123000000, time.UTC), rec.Timestamp)
	assert.InDelta(t, 60.5, rec.SoilMoisture, 1e-9)
	assert.InDelta(t, 20.0, rec.Slope, 1e-9)

	id, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewSensorRecord_UniqueIDsAtSameInstant(t *testing.T) {
	SetClock(clockwork.NewFakeClock())
	t.Cleanup(func() { SetClock(nil) })

	seen := make(map[string]bool)
	for range 100 {
		rec, err := NewSensorRecord(Reading{SoilMoisture: 1, Slope: 1})
		require.NoError(t, err)
		require.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestSensorRecord_DecodesLegacyBlob(t *testing.T) {
	var recs []SensorRecord
	require.NoError(t, json.Unmarshal([]byte(legacyBlob), &recs))

	want := []SensorRecord{{
		ID:           "1714144200000",
		Timestamp:    time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC),
		SoilMoisture: 60.5,
		Slope:        20,
	}}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestSensorRecord_JSONFieldNames(t *testing.T) {
	rec := SensorRecord{
		ID:           "r1",
		Timestamp:    time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC),
		SoilMoisture: 72,
		Slope:        31,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":72,"slope":31}`, string(data))
}

func TestSensorRecord_TimestampAlwaysHasMilliseconds(t *testing.T) {
	tests := []struct {
		ts   time.Time
		want string
	}{
		{time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC), `"2024-04-26T15:10:00.000Z"`},
		{time.Date(2024, time.April, 26, 15, 10, 0, 120000000, time.UTC), `"2024-04-26T15:10:00.120Z"`},
		{time.Date(2024, time.April, 26, 17, 10, 0, 5000000, time.FixedZone("CEST", 2*3600)), `"2024-04-26T15:10:00.005Z"`},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			data, err := json.Marshal(SensorRecord{ID: "r", Timestamp: tc.ts, SoilMoisture: 1, Slope: 1})
			require.NoError(t, err)

			var fields map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(data, &fields))
			assert.Equal(t, tc.want, string(fields["timestamp"]))
		})
	}
}

func TestSensorRecord_DecodesInvalidReadingsAsNaN(t *testing.T) {
	ts := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	nan := math.NaN()

	tests := []struct {
		name string
		blob string
		want SensorRecord
	}{
		{"missing moisture", `{"id":"a","timestamp":"2024-04-26T15:10:00.000Z","slope":40}`,
			SensorRecord{ID: "a", Timestamp: ts, SoilMoisture: nan, Slope: 40}},
		{"null moisture", `{"id":"a","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":null,"slope":40}`,
			SensorRecord{ID: "a", Timestamp: ts, SoilMoisture: nan, Slope: 40}},
		{"string slope", `{"id":"a","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":80,"slope":"abc"}`,
			SensorRecord{ID: "a", Timestamp: ts, SoilMoisture: 80, Slope: nan}},
		{"numeric string is not a number", `{"id":"a","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":"80","slope":40}`,
			SensorRecord{ID: "a", Timestamp: ts, SoilMoisture: nan, Slope: 40}},
		{"bad timestamp kept as zero", `{"id":"a","timestamp":"yesterday","soilMoisture":80,"slope":40}`,
			SensorRecord{ID: "a", SoilMoisture: 80, Slope: 40}},
		{"null element", `null`, SensorRecord{SoilMoisture: nan, Slope: nan}},
		{"scalar element", `42`, SensorRecord{SoilMoisture: nan, Slope: nan}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var recs []SensorRecord
			require.NoError(t, json.Unmarshal([]byte("["+tc.blob+"]"), &recs))
			require.Len(t, recs, 1)

			if diff := cmp.Diff(tc.want, recs[0], cmpopts.EquateNaNs()); diff != "" {
				t.Fatalf("decode mismatch (-want +got):\n%s", diff)
			}
			want := RiskIncomplete
			if isFinite(tc.want.SoilMoisture) && isFinite(tc.want.Slope) {
				want = Classify(tc.want.SoilMoisture, tc.want.Slope).Level
			}
			assert.Equal(t, want, ClassifyRecord(&recs[0]).Level)
		})
	}
}

func TestSensorRecord_NaNReadingsEncodeAsNull(t *testing.T) {
	rec := SensorRecord{
		ID:           "a",
		Timestamp:    time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC),
		SoilMoisture: math.NaN(),
		Slope:        40,
	}
	data, err := json.Marshal([]SensorRecord{rec})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","timestamp":"2024-04-26T15:10:00.000Z","soilMoisture":null,"slope":40}]`, string(data))

	var back []SensorRecord
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 1)
	assert.True(t, math.IsNaN(back[0].SoilMoisture))
	assert.Equal(t, RiskIncomplete, ClassifyRecord(&back[0]).Level)
}

func TestSensorRecord_MalformedJSONFails(t *testing.T) {
	var rec SensorRecord
	require.Error(t, json.Unmarshal([]byte(`{"id":`), &rec))
	require.Error(t, rec.UnmarshalJSON([]byte(`nope`)))
}
