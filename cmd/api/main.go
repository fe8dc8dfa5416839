package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/config"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/internal/infrastructure/backend"
	"github.com/shopmitra/billing-api/internal/infrastructure/gateway"
	"github.com/shopmitra/billing-api/internal/infrastructure/notify"
	"github.com/shopmitra/billing-api/internal/presentation/http/middleware"
	"github.com/shopmitra/billing-api/internal/presentation/http/routes"
	"github.com/shopmitra/billing-api/pkg/email"
	"github.com/shopmitra/billing-api/pkg/printer"
	"github.com/shopmitra/billing-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	backendClient := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	}, log)

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:           cfg.Gateway.BaseURL,
		KeyID:             cfg.Gateway.KeyID,
		KeySecret:         cfg.Gateway.KeySecret,
		Timeout:           time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
		Burst:             cfg.Gateway.Burst,
	}, log)

	notifiers := buildNotifiers(cfg, log)

	sessions := billing.NewSessionManager(billing.SessionConfig{
		Gateway: gatewayClient,
		Backend: backendClient,
		Notifiers: notifiers,
		Shop: billing.ShopInfo{
			Name:    cfg.Shop.Name,
			Address: cfg.Shop.Address,
			Phone:   cfg.Shop.Phone,
			GSTIN:   cfg.Shop.GSTIN,
			State:   cfg.Shop.State,
		},
		Currency:        cfg.Shop.Currency,
		SessionTTL:      time.Duration(cfg.Session.TTLHours) * time.Hour,
		CleanupInterval: time.Duration(cfg.Session.CleanupMinutes) * time.Minute,
	}, log)

	router := routes.Setup(routes.Deps{
		Cfg:        cfg,
		Log:        log,
		Sessions:   sessions,
		Backend:    backendClient,
		JWTManager: utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours),
		Idem:       middleware.NewIdempotencyStore(),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("billing API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.App.Debug {
		level = zerolog.DebugLevel
	}
	var w = zerolog.NewConsoleWriter()
	if cfg.App.Env == "production" {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", cfg.App.Name).Logger()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// buildNotifiers assembles the receipt side-effects from config. A
// terminal without a printer or SMTP still bills fine.
func buildNotifiers(cfg *config.Config, log zerolog.Logger) []port.ReceiptNotifier {
	var notifiers []port.ReceiptNotifier

	if cfg.Printer.Type != "" && cfg.Printer.Type != "none" {
		p, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
		if err != nil {
			log.Warn().Err(err).Msg("printer disabled")
		} else {
			notifiers = append(notifiers, notify.NewPrinterNotifier(p, cfg.Printer.Width, log))
		}
	}

	if cfg.Email.Enabled {
		svc := email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
		notifiers = append(notifiers, notify.NewEmailNotifier(svc, log))
	}

	return notifiers
}
