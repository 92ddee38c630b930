package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sakshamspr/MediLink/internal/admin"
	"github.com/sakshamspr/MediLink/internal/auth"
	"github.com/sakshamspr/MediLink/internal/booking"
	"github.com/sakshamspr/MediLink/internal/cache"
	"github.com/sakshamspr/MediLink/internal/config"
	"github.com/sakshamspr/MediLink/internal/db"
	"github.com/sakshamspr/MediLink/internal/directory"
	"github.com/sakshamspr/MediLink/internal/hospitals"
	"github.com/sakshamspr/MediLink/internal/jobs"
	"github.com/sakshamspr/MediLink/internal/middleware"
	"github.com/sakshamspr/MediLink/internal/notifications"
	"github.com/sakshamspr/MediLink/internal/transport"
	"github.com/sakshamspr/MediLink/internal/validation"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup: config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("startup: mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Error("startup: index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheStore := buildCache(ctx, cfg, log)
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	val := validation.New()

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "medilink-backend",
		}
	}

	mailClient := notifications.NewBrevoClient(
		cfg.BrevoAPIKey,
		cfg.BrevoSenderEmail,
		cfg.BrevoSenderName,
		cfg.AdminEmail,
		cfg.BrevoSandbox,
		cfg.Timezone,
	)
	if mailClient == nil {
		log.Warn("startup: email disabled, missing Brevo credentials")
	}

	placesClient := hospitals.NewClient(cfg.GeoapifyAPIKey)
	if placesClient == nil {
		log.Warn("startup: hospital finder disabled, missing Geoapify key")
	}

	directoryRepo := directory.NewRepository(cols.Categories, cols.Doctors, cols.AvailableSlots)
	directoryService := directory.NewService(directoryRepo, cfg.Timezone)
	directoryHandler := directory.NewHandler(directoryService, cacheStore, cacheTTL, log)

	bookingRepo := booking.NewRepository(cols.AvailableSlots, cols.Doctors, cols.Appointments)
	var mailer booking.ConfirmationMailer
	if mailClient != nil {
		mailer = mailClient
	}
	bookingService := booking.NewService(bookingRepo, mailer, cacheStore, cfg.Timezone, log)
	bookingHandler := booking.NewHandler(bookingService, val, jwtManager, cfg.Timezone, log)

	notificationsHandler := notifications.NewHandler(mailClient, val, log)
	hospitalsHandler := hospitals.NewHandler(placesClient, log)
	adminHandler := admin.NewHandler(cfg, bookingService, val, log)

	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitBookings, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.FrontendOrigin, "/api/notifications/appointment-confirmation"))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", directoryHandler.ListCategories)
		r.Get("/doctors", directoryHandler.ListDoctors)
		r.Get("/doctors/{id}", directoryHandler.GetDoctor)
		r.Get("/doctors/{id}/slots", directoryHandler.ListSlots)

		r.With(bookingLimiter.Middleware).Post("/appointments", bookingHandler.CreateAppointment)
		r.Get("/appointments/{id}", bookingHandler.GetAppointment)

		r.Get("/hospitals/nearby", hospitalsHandler.Nearby)

		r.Post("/notifications/appointment-confirmation", notificationsHandler.SendConfirmation)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Post("/refresh", adminHandler.Refresh)
			r.Post("/logout", adminHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
				r.Get("/appointments", adminHandler.ListAppointments)
				r.Get("/reconciliation", adminHandler.Reconciliation)
			})
		})
	})

	runner := jobs.NewRunner(bookingService, cfg.Timezone, log)
	if err := runner.Start(cfg.ReconcileSpec); err != nil {
		log.Error("startup: invalid reconcile cron spec", slog.String("spec", cfg.ReconcileSpec), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer runner.Stop()

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("startup: listening", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server: listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("server: shutting down", slog.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server: shutdown error", slog.String("error", err.Error()))
		}
	}
}

func buildCache(ctx context.Context, cfg *config.Config, log *slog.Logger) cache.Cache {
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisFromURL(cfg.RedisURL)
		if err != nil {
			log.Warn("startup: bad redis url, caching disabled", slog.String("error", err.Error()))
			return cache.NewNoop()
		}
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("startup: redis unreachable, caching disabled", slog.String("error", err.Error()))
			return cache.NewNoop()
		}
		log.Info("startup: redis cache enabled")
		return redisCache
	}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("startup: redis unreachable, caching disabled", slog.String("error", err.Error()))
			return cache.NewNoop()
		}
		log.Info("startup: redis cache enabled")
		return redisCache
	}
	log.Info("startup: no redis configured, caching disabled")
	return cache.NewNoop()
}
