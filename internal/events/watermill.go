package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/alpha-aviation/enrollment-service/internal/config"
)

// WatermillPublisher publishes events on "<prefix>.<event type>" topics.
type WatermillPublisher struct {
	publisher message.Publisher
	prefix    string
	logger    *slog.Logger
	now       func() time.Time
}

func NewWatermillPublisher(publisher message.Publisher, prefix string, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		prefix:    prefix,
		logger:    logger,
		now:       time.Now,
	}
}

// NewPublisher uses kafka when brokers are configured and an in-process bus otherwise.
func NewPublisher(cfg config.EventsConfig, logger *slog.Logger) (*WatermillPublisher, error) {
	wlogger := watermill.NewSlogLogger(logger)

	if len(cfg.KafkaBrokers) == 0 {
		bus := gochannel.NewGoChannel(gochannel.Config{}, wlogger)
		return NewWatermillPublisher(bus, cfg.TopicPrefix, logger), nil
	}

	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, wlogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return NewWatermillPublisher(pub, cfg.TopicPrefix, logger), nil
}

// Topic returns the topic an event type is published on.
func (p *WatermillPublisher) Topic(t EventType) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "." + string(t)
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = watermill.NewUUID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", string(event.Type))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.Topic(event.Type), msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "Event published", "type", event.Type, "id", event.ID)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
