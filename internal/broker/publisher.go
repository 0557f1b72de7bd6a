package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/news-radar/internal/logger"
	"github.com/DeafMist/news-radar/internal/models"
)

// Header keys attached to every published article.
const (
	HeaderRefreshID = "refresh_id"
	HeaderSource    = "source"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes applied collections to a Kafka topic, one message per
// article keyed by its URL.
type Publisher struct {
	w   messageWriter
	log *slog.Logger
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, log *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		MaxAttempts:  3,
	}
	return newPublisher(w, log)
}

func newPublisher(w messageWriter, log *slog.Logger) *Publisher {
	return &Publisher{w: w, log: logger.OrDiscard(log)}
}

// Publish sends every article of one refresh.
func (p *Publisher) Publish(ctx context.Context, refreshID string, articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(articles))
	for _, a := range articles {
		value, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal article: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.URL),
			Value: value,
			Headers: []kafka.Header{
				{Key: HeaderRefreshID, Value: []byte(refreshID)},
				{Key: HeaderSource, Value: []byte(a.Source)},
			},
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d articles: %w", len(msgs), err)
	}
	p.log.Debug("articles published", slog.String("refresh_id", refreshID), slog.Int("count", len(msgs)))
	return nil
}

// Close flushes pending writes and releases the connection.
func (p *Publisher) Close() error {
	return p.w.Close()
}
