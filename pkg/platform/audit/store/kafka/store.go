// Package kafka publishes audit events to a Kafka topic via franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"pointsgate/internal/platform/config"
	dErrors "pointsgate/pkg/domain-errors"
	audit "pointsgate/pkg/platform/audit"
)

// Store produces one JSON record per audit event. Records are keyed by
// action so per-action ordering survives partitioning.
type Store struct {
	client *kgo.Client
	topic  string
}

// New connects to the configured brokers. Returns an error when no
// brokers are configured; callers fall back to the in-memory store.
func New(cfg config.Audit) (*Store, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka audit store: no brokers configured")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka audit store: %w", err)
	}
	return &Store{client: client, topic: cfg.Topic}, nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Action),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to produce audit event")
	}
	return nil
}

func (s *Store) Close() {
	s.client.Close()
}
