package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/news-radar/internal/config"
	"github.com/DeafMist/news-radar/internal/dedupe"
	"github.com/DeafMist/news-radar/internal/elasticsearch"
	"github.com/DeafMist/news-radar/internal/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := ensureIndex(ctx, log, esClient, 2*time.Second); err != nil {
		if ctx.Err() != nil {
			log.Info("context canceled during startup")
			return
		}
		log.Error("prepare archive index", slog.Any("err", err))
		os.Exit(1)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.KafkaTopic,
		GroupID:       cfg.KafkaConsumer,
		QueueCapacity: cfg.BatchSize,
		MinBytes:      1e3,
		MaxBytes:      10e6,
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + "_dlq"
	dlq := &kafka.Writer{
		Addr:        kafka.TCP(cfg.KafkaBrokers...),
		Topic:       dlqTopic,
		MaxAttempts: 3,
	}
	defer dlq.Close()

	a := &archiver{
		log:      log,
		index:    esClient,
		seen:     dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL),
		dlq:      dlq,
		keywords: cfg.KeywordLimit,
		minLen:   cfg.KeywordMinLength,
	}

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if !a.handle(ctx, msg) {
			// a later commit moves the offset past it, so the message may be
			// lost if later messages commit
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}
