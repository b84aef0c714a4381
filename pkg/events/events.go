// Package events publishes domain events as JSON envelopes to Kafka.
// Publishing is best effort: failures are logged and never returned to callers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/JaimeStill/landmark/pkg/lifecycle"
)

// Envelope is the message body written for every event.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// System publishes events keyed by an aggregate identifier.
type System interface {
	Publish(ctx context.Context, eventType, key string, data any)
	Start(lc *lifecycle.Coordinator) error
}

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type publisher struct {
	writer  MessageWriter
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Kafka publisher from cfg, or a no-op publisher when disabled.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled {
		return Noop()
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           5 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return NewWithWriter(w, cfg.WriteTimeoutDuration(), logger)
}

// NewWithWriter creates a publisher over an existing writer.
func NewWithWriter(w MessageWriter, timeout time.Duration, logger *slog.Logger) System {
	return &publisher{
		writer:  w,
		timeout: timeout,
		logger:  logger.With("system", "events"),
	}
}

func (p *publisher) Publish(ctx context.Context, eventType, key string, data any) {
	env := Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("event encode failed", "type", eventType, "key", key, "error", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Warn("event publish failed", "type", eventType, "key", key, "error", err)
		return
	}

	p.logger.Debug("event published", "type", eventType, "key", key, "id", env.ID)
}

func (p *publisher) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.writer.Close(); err != nil {
			p.logger.Error("event writer close failed", "error", err)
			return
		}
		p.logger.Info("event writer closed")
	})
	return nil
}

type noop struct{}

// Noop returns a System that discards events.
func Noop() System {
	return noop{}
}

func (noop) Publish(context.Context, string, string, any) {}

func (noop) Start(*lifecycle.Coordinator) error { return nil }
