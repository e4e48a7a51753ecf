package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/home-valuation/internal/config"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces estimate events to a Kafka topic.
// It implements service.EventPublisher.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured estimate topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaEstimateTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		// One event per request; don't hold it for a batch.
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// Publish serializes and writes one estimate event, keyed by its ID.
func (p *Publisher) Publish(ctx context.Context, event domain.EstimateEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		p.metrics.EventErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.EventErrors.Inc()
		return fmt.Errorf("publish estimate event: %w", err)
	}
	p.metrics.EventsPublished.Inc()
	p.logger.Debug("estimate event published", "id", event.ID, "topic", p.writer.Topic)
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an EstimateEvent into a Kafka message.
func serializeToMessage(event domain.EstimateEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize estimate event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "zip_prefix", Value: []byte(event.Result.ZipPrefix)},
			{Key: "created_at", Value: []byte(event.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
