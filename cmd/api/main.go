package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/auth"
	"github.com/scaninstead/api/internal/config"
	"github.com/scaninstead/api/internal/database"
	"github.com/scaninstead/api/internal/handler"
	middlewarepkg "github.com/scaninstead/api/internal/middleware"
	"github.com/scaninstead/api/internal/monitor"
	"github.com/scaninstead/api/internal/notify"
	"github.com/scaninstead/api/internal/repository"
	"github.com/scaninstead/api/internal/router"
	"github.com/scaninstead/api/internal/service"
	"github.com/scaninstead/api/internal/service/analysis"
	"github.com/scaninstead/api/internal/storage"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	homeownersRepo := repository.NewPGXHomeownersRepository(pool)
	pitchesRepo := repository.NewPGXPitchesRepository(pool)

	providers := analysis.Providers{}
	if cfg.HFAPIKey != "" {
		providers.Sentiment = analysis.NewSentimentClient(cfg.HFBaseURL, cfg.HFAPIKey, cfg.AnalysisTimeout)
		providers.Toxicity = analysis.NewToxicityClient(cfg.HFBaseURL, cfg.HFAPIKey, cfg.AnalysisTimeout)
		providers.ZeroShot = analysis.NewZeroShotClient(cfg.HFBaseURL, cfg.HFAPIKey, cfg.AnalysisTimeout)
	}
	if cfg.OpenAIKey != "" {
		providers.Summarizer = analysis.NewOpenAISummarizer(cfg.OpenAIKey, "")
	}
	engine := analysis.NewEngine(providers, cfg.AnalysisTimeout, log)

	var uploader storage.Uploader
	if cfg.StorageBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.StorageBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init attachment storage")
		}
		uploader = gcs
	} else {
		log.Warn().Msg("STORAGE_BUCKET not set, pitch attachments disabled")
	}

	emailSender := notify.NewEmailSender(cfg.SMTP)
	var smsSender notify.Sender
	if cfg.Twilio.Enabled {
		smsSender = notify.NewSMSSender(cfg.Twilio)
	}
	dispatcher := notify.NewDispatcher(emailSender, smsSender, log)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	validator := service.NewPitchValidator(cfg.PhoneRegion)
	pitchService := service.NewPitchService(homeownersRepo, pitchesRepo, validator, engine, uploader, dispatcher, log)
	homeownerService := service.NewHomeownerService(homeownersRepo, emailSender, cfg.BaseURL, cfg.PhoneRegion, log)
	authService := service.NewAuthService(homeownersRepo, jwtManager, cfg.BaseURL, cfg.PhoneRegion)

	monitorService := monitor.NewService(pitchesRepo, cfg.MonitorInterval, log)
	monitorService.Start(ctx)
	defer monitorService.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Homeowner: handler.NewHomeownerHandler(homeownerService),
		Pitch:     handler.NewPitchHandler(pitchService),
		Monitor:   handler.NewMonitorHandler(monitorService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Info().Str("port", cfg.Port).Msg("api listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
