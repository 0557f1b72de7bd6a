package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/news-radar/internal/broker"
	"github.com/DeafMist/news-radar/internal/dedupe"
	"github.com/DeafMist/news-radar/internal/models"
	"github.com/DeafMist/news-radar/internal/processing"
)

const (
	dlqAttempts   = 5
	indexAttempts = 10
)

var errEmptyArticle = errors.New("article has neither title nor url")

type articleIndexer interface {
	IndexArticle(ctx context.Context, doc models.ArchivedArticle) error
}

type indexCreator interface {
	EnsureIndex(ctx context.Context) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type archiver struct {
	log      *slog.Logger
	index    articleIndexer
	seen     *dedupe.Cache
	dlq      messageWriter
	keywords int
	minLen   int
	now      func() time.Time
	backoff  func(attempt int) time.Duration
}

// handle archives one message and reports whether its offset may be committed.
func (a *archiver) handle(ctx context.Context, msg kafka.Message) bool {
	err := a.process(ctx, msg)
	if err == nil {
		return true
	}

	a.log.Warn("process message failed, sending to DLQ",
		slog.Any("err", err),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	if err := a.sendToDLQ(ctx, msg, err); err != nil {
		a.log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
			slog.Any("err", err),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
		)
		return false
	}
	return true
}

func (a *archiver) process(ctx context.Context, msg kafka.Message) error {
	var article models.Article
	if err := json.Unmarshal(msg.Value, &article); err != nil {
		return fmt.Errorf("decode article: %w", err)
	}

	doc, err := a.buildDocument(article)
	if err != nil {
		return err
	}
	if !article.HasValidDate() {
		a.log.Debug("skipping undated article", slog.String("url", article.URL))
		return nil
	}

	if a.seen.Contains(doc.ID) {
		a.log.Debug("duplicate article", slog.String("id", doc.ID))
		return nil
	}
	if err := a.index.IndexArticle(ctx, doc); err != nil {
		return err
	}
	a.seen.Add(doc.ID)

	a.log.Info("indexed article",
		slog.String("id", doc.ID),
		slog.String("source", doc.Source),
		slog.String("refresh_id", header(msg, broker.HeaderRefreshID)),
	)
	return nil
}

func (a *archiver) buildDocument(article models.Article) (models.ArchivedArticle, error) {
	title := strings.TrimSpace(article.Title)
	url := strings.TrimSpace(article.URL)
	if title == "" && url == "" {
		return models.ArchivedArticle{}, errEmptyArticle
	}

	source := strings.TrimSpace(article.Source)
	if source == "" {
		source = "unknown"
	}

	return models.ArchivedArticle{
		ID:          processing.BuildDocumentID(url, title, article.PublishedAt),
		Title:       title,
		Summary:     article.Summary,
		URL:         url,
		Source:      source,
		PublishedAt: article.PublishedAt.UTC(),
		IndexedAt:   a.clock().UTC(),
		Keywords:    processing.ExtractKeywords(title+" "+article.Summary, a.keywords, a.minLen),
	}, nil
}

func (a *archiver) sendToDLQ(ctx context.Context, msg kafka.Message, cause error) error {
	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(append([]kafka.Header(nil), msg.Headers...),
			kafka.Header{Key: "original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "timestamp", Value: []byte(a.clock().UTC().Format(time.RFC3339))},
		),
	}

	var lastErr error
	for attempt := range dlqAttempts {
		if lastErr = a.dlq.WriteMessages(ctx, dlqMsg); lastErr == nil {
			a.log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return nil
		}

		wait := a.retryDelay(attempt)
		a.log.Warn("DLQ write failed, retrying",
			slog.Any("err", lastErr),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", wait),
		)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (a *archiver) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *archiver) retryDelay(attempt int) time.Duration {
	if a.backoff != nil {
		return a.backoff(attempt)
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// ensureIndex creates the archive index, retrying while Elasticsearch starts.
func ensureIndex(ctx context.Context, log *slog.Logger, es indexCreator, delay time.Duration) error {
	var err error
	for attempt := 1; attempt <= indexAttempts; attempt++ {
		if err = es.EnsureIndex(ctx); err == nil {
			return nil
		}
		log.Warn("ensure archive index failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, 30*time.Second)
	}
	return err
}
