package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/atlastrek/tour-backend/api/routes"
	"github.com/atlastrek/tour-backend/internal/accommodations"
	"github.com/atlastrek/tour-backend/internal/analytics"
	"github.com/atlastrek/tour-backend/internal/auth"
	"github.com/atlastrek/tour-backend/internal/bookings"
	"github.com/atlastrek/tour-backend/internal/media"
	"github.com/atlastrek/tour-backend/internal/quotes"
	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/internal/subscribers"
	"github.com/atlastrek/tour-backend/internal/tours"
	"github.com/atlastrek/tour-backend/internal/users"
	"github.com/atlastrek/tour-backend/pkg/auth/session"
	"github.com/atlastrek/tour-backend/pkg/bigquery"
	"github.com/atlastrek/tour-backend/pkg/config"
	"github.com/atlastrek/tour-backend/pkg/db"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/migrate"
	"github.com/atlastrek/tour-backend/pkg/pubsub"
	"github.com/atlastrek/tour-backend/pkg/redis"
	"github.com/atlastrek/tour-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	bigqueryClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap bigquery", err)
		os.Exit(1)
	}
	defer func() {
		if err := bigqueryClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing bigquery client", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	marketingPublisher, err := pubsub.NewSyncPublisher(pubsubClient.MarketingPublisher())
	if err != nil {
		logg.Error(context.Background(), "failed to create marketing publisher", err)
		os.Exit(1)
	}
	recorder, err := analytics.NewRecorder(marketingPublisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics recorder", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	tourRepo := tours.NewRepository(dbClient.DB())
	rateCache, err := tours.NewRateCache(tourRepo, redisClient, cfg.Rates, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rate cache", err)
		os.Exit(1)
	}
	tourService, err := tours.NewService(tours.ServiceParams{
		Repo:      tourRepo,
		Tx:        dbClient,
		Rates:     rateCache,
		Analytics: recorder,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tour service", err)
		os.Exit(1)
	}

	exportPublisher, err := pubsub.NewSyncPublisher(pubsubClient.ExportPublisher())
	if err != nil {
		logg.Error(context.Background(), "failed to create export publisher", err)
		os.Exit(1)
	}
	exportBucket := cfg.GCS.ExportBucketName
	if exportBucket == "" {
		exportBucket = cfg.GCS.BucketName
	}
	quoteService, err := quotes.NewService(quotes.ServiceParams{
		Repo:         quotes.NewRepository(dbClient.DB()),
		Tx:           dbClient,
		Builder:      document.NewBuilder(cfg.Site.PublicURL, cfg.Site.CompanyName),
		Storage:      gcsClient,
		ExportEvents: exportPublisher,
		Analytics:    recorder,
		Config:       cfg.Quotes,
		ExportBucket: exportBucket,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(bookings.ServiceParams{
		Repo:      bookings.NewRepository(dbClient.DB()),
		Analytics: recorder,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	accommodationService, err := accommodations.NewService(accommodations.ServiceParams{
		Repo:   accommodations.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accommodation service", err)
		os.Exit(1)
	}

	subscriberService, err := subscribers.NewService(subscribers.ServiceParams{
		Repo:      subscribers.NewRepository(dbClient.DB()),
		Analytics: recorder,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriber service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(
		media.NewRepository(dbClient.DB()),
		gcsClient,
		cfg.GCS.BucketName,
		cfg.GCS.UploadURLExpiry,
		cfg.GCS.DownloadURLExpiry,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			bigqueryClient,
			sessionManager,
			authService,
			tourService,
			rateCache,
			quoteService,
			bookingService,
			accommodationService,
			subscriberService,
			mediaService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
