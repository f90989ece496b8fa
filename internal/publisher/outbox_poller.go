package publisher

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/pkg/circuitbreaker"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	Topic     = "orders.placed"
	batchSize = 100
)

type EventRepository interface {
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*domain.OrderEvent, error)
	MarkEventPublished(ctx context.Context, id int64) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPoller relays order events committed by checkout to Kafka. Delivery
// is at least once: an event is marked only after the broker accepted it.
type OutboxPoller struct {
	timeout   time.Duration
	eventTick time.Duration
	repo      EventRepository
	writer    MessageWriter
	breaker   *circuitbreaker.Breaker
	logger    zerolog.Logger
}

func NewOutboxPoller(repo EventRepository, logger zerolog.Logger, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newOutboxPoller(repo, w, logger)
}

func newOutboxPoller(repo EventRepository, writer MessageWriter, logger zerolog.Logger) *OutboxPoller {
	logger = logger.With().Str("component", "outbox_poller").Logger()
	return &OutboxPoller{
		timeout:   5 * time.Second,
		eventTick: time.Second,
		repo:      repo,
		writer:    writer,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:                "kafka-orders",
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
			OnStateChange: func(name, from, to string) {
				logger.Warn().Str("breaker", name).Str("from", from).Str("to", to).Msg("breaker state changed")
			},
		}),
		logger: logger,
	}
}

// Run polls until ctx is cancelled, then closes the writer.
func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.eventTick)
	defer ticker.Stop()
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Error().Err(err).Msg("failed to close kafka writer")
		}
	}()

	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// processUnpublishedEvents returns the number of events published.
func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) int {
	events, err := p.repo.GetUnpublishedEvents(ctx, batchSize)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to fetch events")
		return 0
	}

	published := 0
	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.logger.Error().Err(err).Int64("event_id", event.ID).Msg("failed to publish event")
			if errors.Is(err, circuitbreaker.ErrOpen) {
				return published
			}
			continue
		}

		if err := p.repo.MarkEventPublished(ctx, event.ID); err != nil {
			p.logger.Error().Err(err).Int64("event_id", event.ID).Msg("failed to mark event as published")
			continue
		}
		published++
	}
	return published
}

func (p *OutboxPoller) publish(ctx context.Context, event *domain.OrderEvent) error {
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.breaker.Do(func() error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.writer.WriteMessages(ctx, msg)
	})
}
