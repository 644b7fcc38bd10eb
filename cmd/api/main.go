package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/casaphilia/rentals-api/internal/domain"
	"github.com/casaphilia/rentals-api/internal/http/handlers"
	httpmw "github.com/casaphilia/rentals-api/internal/http/middleware"
	"github.com/casaphilia/rentals-api/internal/notify"
	"github.com/casaphilia/rentals-api/internal/platform/mailer"
	"github.com/casaphilia/rentals-api/internal/platform/paystack"
	"github.com/casaphilia/rentals-api/internal/repo/postgres"
	"github.com/casaphilia/rentals-api/internal/repo/redisstore"
	"github.com/casaphilia/rentals-api/internal/service"
	"github.com/casaphilia/rentals-api/pkg/config"
	"github.com/casaphilia/rentals-api/pkg/database"
	"github.com/casaphilia/rentals-api/pkg/events"
	"github.com/casaphilia/rentals-api/pkg/logger"
	"github.com/casaphilia/rentals-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(ctx, cfg.Database)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	idemStore := redisstore.New(cfg.Redis)
	defer idemStore.Close()

	var bus events.EventBus
	natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err, "url", cfg.NATS.URL)
		bus = events.NoopEventBus{}
	} else {
		bus = natsBus
		defer natsBus.Close()
	}

	// Repositories
	userRepo := postgres.NewUserRepo(pool)
	propertyRepo := postgres.NewPropertyRepo(pool)
	bookingRepo := postgres.NewBookingRepo(pool)
	reviewRepo := postgres.NewReviewRepo(pool)
	messageRepo := postgres.NewMessageRepo(pool)
	applicationRepo := postgres.NewApplicationRepo(pool)
	activityRepo := postgres.NewActivityRepo(pool)
	contactRepo := postgres.NewContactRepo(pool)
	paymentRepo := postgres.NewPaymentRepo(pool)
	favoriteRepo := postgres.NewFavoriteRepo(pool)

	// Platform adapters
	gateway := paystack.New(cfg.Paystack)
	logger.Info("payment gateway ready", "mode", gateway.Mode())

	// Validate already guaranteed a key is present when dev mode is off.
	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDev()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Services
	authSvc := service.NewAuthService(userRepo, activityRepo, cfg)
	propertySvc := service.NewPropertyService(propertyRepo, bookingRepo, activityRepo, bus)
	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, activityRepo, bus, cfg)
	checkoutSvc := service.NewCheckoutService(bookingSvc, bookingRepo, paymentRepo, userRepo, gateway, bus, cfg)
	reviewSvc := service.NewReviewService(reviewRepo, propertyRepo)
	chatSvc := service.NewChatService(messageRepo, userRepo)
	applicationSvc := service.NewApplicationService(applicationRepo, propertyRepo, activityRepo, bus)
	contactSvc := service.NewContactService(contactRepo)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, propertyRepo)

	notifier := notify.New(bus, mail, userRepo, propertyRepo, bookingRepo)
	if err := notifier.Start(); err != nil {
		logger.Error("failed to start notifier", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	propertiesHandler := handlers.NewPropertiesHandler(propertySvc, bookingSvc, reviewSvc)
	bookingsHandler := handlers.NewBookingsHandler(bookingSvc)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc)
	reviewsHandler := handlers.NewReviewsHandler(reviewSvc)
	chatHandler := handlers.NewChatHandler(chatSvc)
	applicationsHandler := handlers.NewApplicationsHandler(applicationSvc)
	contactHandler := handlers.NewContactHandler(contactSvc)
	favoritesHandler := handlers.NewFavoritesHandler(favoriteSvc)
	adminHandler := handlers.NewAdminHandler(authSvc, bookingSvc, applicationSvc, contactSvc, activityRepo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ServiceName("rentals-api"))
	r.Use(middleware.Logging)
	r.Use(middleware.CORS())
	r.Use(middleware.Health)

	requireJWT := httpmw.RequireJWT(cfg.Auth.JWTSecret)

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/properties", propertiesHandler.PublicRoutes())
		r.Mount("/contact", contactHandler.Routes())
		r.Mount("/checkout", checkoutHandler.VerifyRoutes())

		// Authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(requireJWT)
			r.Use(middleware.Idempotency(idemStore))

			r.Mount("/users", authHandler.ProtectedRoutes())
			r.Mount("/bookings", bookingsHandler.Routes())
			r.Mount("/checkout/pay", checkoutHandler.Routes())
			r.Mount("/reviews", reviewsHandler.Routes())
			r.Mount("/chat", chatHandler.Routes())
			r.Mount("/applications", applicationsHandler.Routes())
			r.Mount("/favorites", favoritesHandler.Routes())

			r.Group(func(r chi.Router) {
				r.Use(httpmw.RequireRole(domain.RolePropertyManager, domain.RoleSuperAdmin))
				r.Mount("/manage/properties", propertiesHandler.ManageRoutes())
			})

			r.Group(func(r chi.Router) {
				r.Use(httpmw.RequireRole(domain.RoleSuperAdmin))
				r.Mount("/admin", adminHandler.Routes())
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("rentals-api listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
