package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlastrek/tour-backend/api/controllers"
	"github.com/atlastrek/tour-backend/api/middleware"
	"github.com/atlastrek/tour-backend/internal/accommodations"
	"github.com/atlastrek/tour-backend/internal/auth"
	"github.com/atlastrek/tour-backend/internal/bookings"
	"github.com/atlastrek/tour-backend/internal/media"
	"github.com/atlastrek/tour-backend/internal/quotes"
	"github.com/atlastrek/tour-backend/internal/subscribers"
	"github.com/atlastrek/tour-backend/internal/tours"
	"github.com/atlastrek/tour-backend/pkg/auth/session"
	"github.com/atlastrek/tour-backend/pkg/bigquery"
	"github.com/atlastrek/tour-backend/pkg/config"
	"github.com/atlastrek/tour-backend/pkg/db"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/redis"
	"github.com/atlastrek/tour-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// NewRouter assembles the public marketing surface and the authenticated
// back-office surface onto one chi router.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	bigqueryClient bigquery.Pinger,
	sessionManager sessionManager,
	authService auth.Service,
	tourService tours.Service,
	rateCache *tours.RateCache,
	quoteService quotes.Service,
	bookingService bookings.Service,
	accommodationService accommodations.Service,
	subscriberService subscribers.Service,
	mediaService media.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	subscribePolicy := middleware.NewAuthRateLimitPolicy(
		"subscribe",
		cfg.AuthRateLimit.SubscribeWindow,
		cfg.AuthRateLimit.SubscribeIPLimit,
		cfg.AuthRateLimit.SubscribeEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsClient, bigqueryClient))
	})

	// Marketing site surface. No authentication; writes are rate limited.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tours", controllers.PublicTourList(tourService, logg))
		r.Get("/tours/{slug}", controllers.PublicTourBySlug(tourService, logg))
		r.Get("/tours/{tourId}/rates", controllers.TourRates(rateCache, logg))
		r.Post("/bookings", controllers.BookingCreate(bookingService, logg))
		r.With(middleware.AuthRateLimit(subscribePolicy, redisClient, logg)).
			Post("/subscribe", controllers.Subscribe(subscriberService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AuthLogin(authService, logg))
			r.Post("/refresh", controllers.AuthRefresh(authService, logg))
			r.With(middleware.Auth(cfg.JWT, sessionManager, logg)).
				Post("/logout", controllers.AuthLogout(authService, logg))
		})
	})

	// Back-office surface. Editors manage content; staff provisioning and
	// subscriber removal stay admin-only.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", controllers.TourList(tourService, logg))
			r.Post("/", controllers.TourCreate(tourService, logg))
			r.Get("/{tourId}", controllers.TourGet(tourService, logg))
			r.Put("/{tourId}", controllers.TourUpdate(tourService, logg))
			r.Delete("/{tourId}", controllers.TourDelete(tourService, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", controllers.QuoteList(quoteService, logg))
			r.Post("/", controllers.QuoteCreate(quoteService, logg))
			r.Get("/{quoteId}", controllers.QuoteGet(quoteService, logg))
			r.Put("/{quoteId}", controllers.QuoteUpdate(quoteService, logg))
			r.Delete("/{quoteId}", controllers.QuoteDelete(quoteService, logg))
			r.Post("/{quoteId}/send", controllers.QuoteSend(quoteService, logg))
			r.Post("/{quoteId}/resolve", controllers.QuoteResolve(quoteService, logg))
			r.Post("/{quoteId}/export", controllers.QuoteExport(quoteService, logg))
			r.Get("/{quoteId}/preview", controllers.QuotePreview(quoteService, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingList(bookingService, logg))
			r.Get("/{bookingId}", controllers.BookingGet(bookingService, logg))
			r.Post("/{bookingId}/confirm", controllers.BookingConfirm(bookingService, logg))
			r.Post("/{bookingId}/complete", controllers.BookingComplete(bookingService, logg))
			r.Post("/{bookingId}/cancel", controllers.BookingCancel(bookingService, logg))
		})

		r.Route("/accommodations", func(r chi.Router) {
			r.Get("/", controllers.AccommodationList(accommodationService, logg))
			r.Post("/", controllers.AccommodationCreate(accommodationService, logg))
			r.Get("/{accommodationId}", controllers.AccommodationGet(accommodationService, logg))
			r.Put("/{accommodationId}", controllers.AccommodationUpdate(accommodationService, logg))
			r.Delete("/{accommodationId}", controllers.AccommodationDelete(accommodationService, logg))
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", controllers.MediaList(mediaService, logg))
			r.Post("/presign", controllers.MediaPresign(mediaService, logg))
			r.Post("/{mediaId}/confirm", controllers.MediaConfirm(mediaService, logg))
			r.Get("/{mediaId}/signed-url", controllers.MediaSignedRead(mediaService, logg))
			r.Delete("/{mediaId}", controllers.MediaDelete(mediaService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.StaffRoleAdmin), logg))
			r.Post("/staff", controllers.StaffCreate(authService, logg))
			r.Route("/subscribers", func(r chi.Router) {
				r.Get("/", controllers.SubscriberList(subscriberService, logg))
				r.Delete("/{subscriberId}", controllers.SubscriberRemove(subscriberService, logg))
			})
		})
	})

	return r
}
