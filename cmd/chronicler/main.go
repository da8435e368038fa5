package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mirrenhall/chronicler/internal/bot"
	"github.com/mirrenhall/chronicler/internal/gateway"
	"github.com/mirrenhall/chronicler/internal/httpapi"
	"github.com/mirrenhall/chronicler/internal/merit"
	"github.com/mirrenhall/chronicler/internal/platform/config"
	"github.com/mirrenhall/chronicler/internal/platform/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("load config: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		config.Exitf("parse log level %q: %v", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "chronicler")
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	merits := merit.NewCatalog(cfg.MeritDir)
	handler := bot.New(merits, logger)

	api := httpapi.New(merits, logger)
	go func() {
		if err := api.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http api failed")
		}
	}()

	if cfg.GatewayURL == "" {
		logger.Warn().Msg("no gateway url configured, running http-only")
		<-ctx.Done()
		return
	}

	client := gateway.New(cfg.GatewayURL, cfg.GatewayToken, cfg.PublicURL, handler, logger)
	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("gateway loop failed")
	}
}
