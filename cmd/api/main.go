package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wellnessflow/booking-api/internal/api/router"
	"github.com/wellnessflow/booking-api/internal/bookings"
	"github.com/wellnessflow/booking-api/internal/calendar"
	appconfig "github.com/wellnessflow/booking-api/internal/config"
	"github.com/wellnessflow/booking-api/internal/notify"
	"github.com/wellnessflow/booking-api/internal/observability/metrics"
	"github.com/wellnessflow/booking-api/internal/therapies"
	"github.com/wellnessflow/booking-api/internal/whatsapp"
	"github.com/wellnessflow/booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-api server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	bookingsRepo := bookings.NewPostgresRepository(pool)
	therapiesRepo := therapies.NewPostgresRepository(pool)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Notification channels, in submission order.
	calendarChannel, err := calendar.New(ctx, calendar.Config{
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CalendarID:      cfg.GoogleCalendarID,
		Timezone:        cfg.CalendarTimezone,
	}, logger)
	if err != nil {
		logger.Error("failed to build calendar channel", "error", err)
		os.Exit(1)
	}

	emailChannel := notify.NewChannel(buildEmailSender(ctx, cfg, logger), notify.ChannelConfig{
		AttachICS:           true,
		IncludeCalendarLink: cfg.EmailIncludeCalendarLink,
		OrganizerName:       cfg.EmailFromName,
		OrganizerEmail:      cfg.EmailFromAddress,
	}, logger)

	var interactionStore whatsapp.InteractionStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		interactionStore = whatsapp.NewRedisInteractionStore(redisClient, cfg.InteractionWindow)
	} else {
		interactionStore = whatsapp.NewNoopInteractionStore(logger)
	}

	twilioClient := whatsapp.NewTwilioClient(whatsapp.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioWhatsAppNumber,
	}, logger)
	whatsappChannel := whatsapp.NewChannel(twilioClient, interactionStore, whatsapp.ChannelConfig{
		ContentSID:         cfg.TwilioContentSID,
		FallbackContentSID: cfg.TwilioFallbackContentSID,
		DefaultCountryCode: cfg.DefaultCountryCode,
		MinPhoneDigits:     cfg.MinPhoneDigits,
	}, logger)

	bookingService := bookings.NewService(
		bookingsRepo,
		[]bookings.Channel{calendarChannel, emailChannel, whatsappChannel},
		cfg.NotifyTimeout,
		bookingMetrics,
		logger,
	)

	r := router.New(&router.Config{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BookingsHandler:    bookings.NewHandler(bookingService, logger),
		TherapiesHandler:   therapies.NewHandler(therapiesRepo, logger),
		WhatsAppHandler:    whatsapp.NewHandler(interactionStore, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender selects the transport from configuration. A missing or
// unusable provider falls back to the logging stub so bookings keep
// flowing without email.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid not configured, falling back to stub email sender")
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, falling back to stub email sender", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
