//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/landslide-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/landslide-monitor/internal/config"
	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/couchcryptid/landslide-monitor/internal/monitor"
	"github.com/couchcryptid/landslide-monitor/internal/observability"
	"github.com/couchcryptid/landslide-monitor/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("landslide-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func newKafkaKV(ctx context.Context, t *testing.T, broker string) *kafka.KV {
	t.Helper()
	topic := fmt.Sprintf("landslide-kv-%d", time.Now().UnixNano())
	require.NoError(t, kafka.EnsureTopic(ctx, []string{broker}, topic))
	require.NoError(t, kafka.EnsureTopic(ctx, []string{broker}, topic), "ensure is idempotent")

	kv := kafka.NewKV(&config.Config{
		KafkaBrokers:     []string{broker},
		KafkaTopic:       topic,
		KafkaReadTimeout: 30 * time.Second,
	}, discardLogger())
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

// TestKafkaKV exercises Get/Set/Remove directly against a broker.
func TestKafkaKV(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kv := newKafkaKV(ctx, t, startKafka(ctx, t))

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "empty topic has no keys")

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "other", "x"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, kv.Remove(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = kv.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

// TestKafkaRecordStoreEndToEnd runs entry, history, and latest-risk over the Kafka KV.
func TestKafkaRecordStoreEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kv := newKafkaKV(ctx, t, startKafka(ctx, t))
	metrics := observability.NewMetricsForTesting()
	rs := store.NewRecordStore(kv, store.DefaultKey, discardLogger(), metrics)

	recorder := monitor.NewRecorder(rs, discardLogger(), metrics)
	history := monitor.NewHistory(rs, discardLogger())
	risk := monitor.NewRisk(rs, discardLogger(), metrics)

	latest, err := risk.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskNoData, latest.Assessment.Level)

	_, err = recorder.Submit(ctx, "40", "10")
	require.NoError(t, err)
	saved, err := recorder.Submit(ctx, "75,5", "35")
	require.NoError(t, err)

	recs, err := history.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	latest, err = risk.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest.Record)
	assert.Equal(t, saved.ID, latest.Record.ID)
	assert.Equal(t, domain.RiskHigh, latest.Assessment.Level)

	res, err := history.Clear(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, monitor.ClearDone, res.Outcome)

	recs, err = history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
