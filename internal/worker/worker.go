package worker

import (
	"context"
	"encoding/json"
	"time"

	"storegen/internal/config"
	"storegen/internal/events"
	"storegen/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Worker consumes store lifecycle events for observability. It never
// mutates store state; reconciliation happens on the next load.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
}

func New(cfg *config.Config, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "storegen-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for store events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		w.process(event)
	}
}

func (w *Worker) process(event events.Event) {
	switch event.Type {
	case events.TypeStoreCreated:
		w.logger.Info("Store %s created (source: %v)", event.StoreID, event.Data["source"])
	case events.TypeStoreUpdated:
		w.logger.Info("Store %s updated", event.StoreID)
	case events.TypeStoreDeleted:
		w.logger.Info("Store %s deleted", event.StoreID)
	default:
		w.logger.Debug("Ignoring event type %s", event.Type)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
