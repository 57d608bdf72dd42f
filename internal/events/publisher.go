package events

import (
	"context"
	"encoding/json"
	"time"

	"storegen/internal/logger"

	"github.com/segmentio/kafka-go"
)

const Topic = "store-events"

// Event types published on store lifecycle changes.
const (
	TypeStoreCreated = "store.created"
	TypeStoreUpdated = "store.updated"
	TypeStoreDeleted = "store.deleted"
)

type Event struct {
	Type      string                 `json:"type"`
	StoreID   string                 `json:"store_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher emits store lifecycle events. Publishing is observational:
// failures are logged and never surfaced to the mutation path.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, eventType, storeID string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		StoreID:   storeID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event %s: %v", eventType, err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(storeID),
		Value: value,
	}); err != nil {
		p.logger.Error("Failed to publish %s for store %s: %v", eventType, storeID, err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
