package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/couchcryptid/landslide-monitor/internal/config"
	"github.com/couchcryptid/landslide-monitor/internal/store"
	kafkago "github.com/segmentio/kafka-go"
)

var _ store.KV = (*KV)(nil)

// KV uses a single-partition, log-compacted topic as a key-value store. Set
// produces (key, value), Remove produces a tombstone, and Get replays the
// partition to find the newest message for the key.
//
// An empty value reads back the same as a tombstone, so Set(k, "") looks like
// an absent key. The record store treats both alike.
type KV struct {
	writer      *kafkago.Writer
	brokers     []string
	topic       string
	readTimeout time.Duration
	logger      *slog.Logger
}

// NewKV creates a Kafka-backed KV for the configured topic.
func NewKV(cfg *config.Config, logger *slog.Logger) *KV {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KV{
		writer:      w,
		brokers:     cfg.KafkaBrokers,
		topic:       cfg.KafkaTopic,
		readTimeout: cfg.KafkaReadTimeout,
		logger:      logger,
	}
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := k.writer.WriteMessages(ctx, kafkago.Message{Key: []byte(key), Value: []byte(value)}); err != nil {
		return fmt.Errorf("produce %q: %w", key, err)
	}
	return nil
}

func (k *KV) Remove(ctx context.Context, key string) error {
	if err := k.writer.WriteMessages(ctx, tombstone(key)); err != nil {
		return fmt.Errorf("produce tombstone %q: %w", key, err)
	}
	return nil
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, k.readTimeout)
	defer cancel()

	first, last, err := k.offsets(ctx)
	if err != nil {
		return "", false, err
	}
	if last <= first {
		return "", false, nil
	}

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   k.brokers,
		Topic:     k.topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
		MaxWait:   250 * time.Millisecond,
	})
	defer r.Close()

	if err := r.SetOffset(first); err != nil {
		return "", false, fmt.Errorf("seek %s to %d: %w", k.topic, first, err)
	}

	l := lookup{key: key}
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			return "", false, fmt.Errorf("replay %s: %w", k.topic, err)
		}
		l.observe(msg)
		if msg.Offset >= last-1 {
			break
		}
	}

	k.logger.Debug("kafka kv replayed", "topic", k.topic, "first_offset", first, "last_offset", last)
	value, ok := l.result()
	return value, ok, nil
}

func (k *KV) Close() error {
	return k.writer.Close()
}

// offsets returns the first and next-to-be-written offsets of partition 0.
func (k *KV) offsets(ctx context.Context) (int64, int64, error) {
	var errs []error
	for _, broker := range k.brokers {
		conn, err := kafkago.DialLeader(ctx, "tcp", broker, k.topic, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		first, last, err := conn.ReadOffsets()
		conn.Close()
		if err != nil {
			return 0, 0, fmt.Errorf("read offsets %s: %w", k.topic, err)
		}
		return first, last, nil
	}
	return 0, 0, fmt.Errorf("dial leader for %s: %w", k.topic, errors.Join(errs...))
}

// EnsureTopic creates the single-partition compacted topic if it does not exist.
func EnsureTopic(ctx context.Context, brokers []string, topic string) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	conn, err := kafkago.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}
	cconn, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cconn.Close()

	err = cconn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
		ConfigEntries: []kafkago.ConfigEntry{
			{ConfigName: "cleanup.policy", ConfigValue: "compact"},
		},
	})
	if err != nil && !errors.Is(err, kafkago.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

func tombstone(key string) kafkago.Message {
	return kafkago.Message{Key: []byte(key), Value: nil}
}

// lookup folds a replayed partition into the newest value for one key.
type lookup struct {
	key   string
	value []byte
	found bool
}

func (l *lookup) observe(msg kafkago.Message) {
	if string(msg.Key) != l.key {
		return
	}
	if len(msg.Value) == 0 {
		l.value, l.found = nil, false
		return
	}
	l.value, l.found = msg.Value, true
}

func (l *lookup) result() (string, bool) {
	return string(l.value), l.found
}
