package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeafMist/news-radar/internal/config"
	"github.com/DeafMist/news-radar/internal/elasticsearch"
	"github.com/DeafMist/news-radar/internal/logger"
)

const (
	connectAttempts = 10
	maxConnectDelay = 30 * time.Second
	runTimeout      = 2 * time.Minute
)

type archivePruner interface {
	DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	_ = godotenv.Load()

	log := logger.New("retention")
	cfg, err := config.LoadRetention()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	if err := waitForArchive(ctx, log, esClient, 2*time.Second); err != nil {
		if ctx.Err() != nil {
			log.Info("shutdown signal received during startup")
			return
		}
		log.Error("archive unreachable", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("connected to elasticsearch")

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("retention job running",
		slog.Duration("interval", cfg.Interval),
		slog.Duration("max_age", cfg.MaxAge),
	)

	prune(ctx, log, esClient, cfg)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			prune(ctx, log, esClient, cfg)
		}
	}
}

// waitForArchive pings with exponential backoff until the cluster answers.
func waitForArchive(ctx context.Context, log *slog.Logger, es pinger, delay time.Duration) error {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = es.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}

		log.Warn("elasticsearch ping failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", connectAttempts),
			slog.Duration("retry_in", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, maxConnectDelay)
	}
	return err
}

func prune(ctx context.Context, log *slog.Logger, es archivePruner, cfg *config.Retention) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	deleted, err := es.DeleteOlderThan(runCtx, cfg.MaxAge, cfg.BatchSize)
	if err != nil {
		log.Warn("retention run failed (will retry on next interval)", slog.Any("err", err))
		return
	}

	if deleted > 0 {
		log.Info("archived articles pruned", slog.Int64("deleted", deleted))
	} else {
		log.Debug("retention run completed, nothing older than max age")
	}
}
