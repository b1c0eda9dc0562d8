package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/atlastrek/tour-backend/internal/consumers"
	"github.com/atlastrek/tour-backend/internal/quotes"
	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/pkg/config"
	"github.com/atlastrek/tour-backend/pkg/db"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/pubsub"
	"github.com/atlastrek/tour-backend/pkg/redis"
	"github.com/atlastrek/tour-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "export-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "export-worker"

	logg = logger.New(logger.Options{
		ServiceName: "export-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "gcs", err)
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(ctx, "failed to close gcs client", err)
		}
	}()

	subscription := pubsubClient.ExportSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "export subscription", errors.New("subscription not configured"))
	}

	exportBucket := cfg.GCS.ExportBucketName
	if exportBucket == "" {
		exportBucket = cfg.GCS.BucketName
	}
	worker, err := quotes.NewExportWorker(quotes.ExportWorkerParams{
		Repo:    quotes.NewRepository(dbClient.DB()),
		Builder: document.NewBuilder(cfg.Site.PublicURL, cfg.Site.CompanyName),
		Storage: gcsClient,
		Bucket:  exportBucket,
		Logger:  logg,
	})
	requireResource(ctx, logg, "export worker", err)

	service, err := consumers.NewService("quote-exports", subscription, worker, redisClient, logg)
	requireResource(ctx, logg, "consumer service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "export worker ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "export worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
