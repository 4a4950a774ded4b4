package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/petcarehq/booking-api/config"
	"github.com/petcarehq/booking-api/internal/handler"
	appointmentHandler "github.com/petcarehq/booking-api/internal/handler/appointment"
	bookingHandler "github.com/petcarehq/booking-api/internal/handler/booking"
	"github.com/petcarehq/booking-api/internal/middleware"
	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/internal/repository/postgres"
	"github.com/petcarehq/booking-api/internal/router"
	appointmentService "github.com/petcarehq/booking-api/internal/service/appointment"
	bookingService "github.com/petcarehq/booking-api/internal/service/booking"
	"github.com/petcarehq/booking-api/internal/service/notification"

	"github.com/petcarehq/booking-api/internal/email"
	"github.com/petcarehq/booking-api/pkg/auth"
	"github.com/petcarehq/booking-api/pkg/logger"
	redisbroker "github.com/petcarehq/booking-api/pkg/messaging/redis"
	"github.com/petcarehq/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	petRepo := postgres.NewPetRepository(db)
	ownerRepo := postgres.NewOwnerRepository(db)
	vetRepo := postgres.NewVeterinarianRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)

	// Message broker for in-app notifications
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{URL: cfg.Redis.URL}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("petcare", "booking_api")

	// Services
	emailSvc := email.NewSMTPService(cfg.SMTP)
	dispatcher := notification.NewDispatcher(emailSvc, broker, appLogger)

	bookingSvc := bookingService.NewService(
		appointmentRepo, vetRepo, petRepo, ownerRepo, clinicRepo,
		m, appLogger,
		bookingService.Config{
			Channel: model.BookingChannel(cfg.Booking.Channel),
			Hours: bookingService.OperatingHours{
				Open:  cfg.Booking.OpeningTime,
				Close: cfg.Booking.ClosingTime,
			},
			SessionTTL: cfg.Booking.SessionTTL,
		},
	)
	appointmentSvc := appointmentService.NewService(appointmentRepo, ownerRepo, dispatcher, appLogger)

	// Middleware and handlers
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler(db)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)

	r := router.NewRouter(authMiddleware, bookingH, appointmentH, h, router.RouterConfig{
		RateLimit:     50,
		RateBurst:     100,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "booking_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	appLogger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
