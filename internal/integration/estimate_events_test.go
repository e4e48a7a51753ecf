//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/home-valuation/internal/adapter/kafka"
	"github.com/couchcryptid/home-valuation/internal/config"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/couchcryptid/home-valuation/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEstimateTopic = "test-home-estimates"

// publishedEvent holds a deserialized message read from the estimate topic.
type publishedEvent struct {
	Event   domain.EstimateEvent
	Key     string
	Headers map[string]string
}

func readEvent(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedEvent {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from estimate topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.EstimateEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal estimate event")

	return publishedEvent{Event: event, Key: string(msg.Key), Headers: headers}
}

// TestEstimatePublishesEvent runs an estimate through the service with a real
// Kafka publisher and verifies the event that lands on the topic.
func TestEstimatePublishesEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEstimateTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaEstimateTopic: testEstimateTopic,
	}
	metrics := observability.NewMetricsForTesting()
	publisher := kafka.NewPublisher(cfg, metrics, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	est := service.New(service.Providers{}, 10*time.Second, metrics, discardLogger(), service.WithPublisher(publisher))

	resp, err := est.Estimate(ctx, service.EstimateRequest{
		Address:   "400 Broad St, Seattle, WA 98109",
		Sqft:      1800,
		Beds:      domain.Int(3),
		Baths:     domain.Int(2),
		YearBuilt: domain.Int(1995),
		LotSqft:   domain.Int(6000),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EventsPublished))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testEstimateTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	pe := readEvent(ctx, t, consumer)
	assert.Equal(t, pe.Event.ID, pe.Key)
	assert.Equal(t, "981", pe.Headers["zip_prefix"])
	_, err = time.Parse(time.RFC3339, pe.Headers["created_at"])
	assert.NoError(t, err, "created_at should be valid RFC3339")

	assert.Equal(t, resp.Estimate, pe.Event.Result.Estimate)
	assert.Equal(t, resp.Low, pe.Event.Result.Low)
	assert.Equal(t, resp.High, pe.Event.Result.High)
	assert.Equal(t, 1800, pe.Event.Input.Sqft)
	assert.Len(t, pe.Event.Result.Steps, len(resp.Steps))
}
