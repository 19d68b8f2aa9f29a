package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-notify-relay/internal/config"
	"telegram-notify-relay/internal/domain/ports/adapter"
	"telegram-notify-relay/internal/domain/ports/repository"
	"telegram-notify-relay/internal/infra/couch"
	"telegram-notify-relay/internal/infra/directory"
	"telegram-notify-relay/internal/infra/logging"
	"telegram-notify-relay/internal/infra/metrics"
	red "telegram-notify-relay/internal/infra/redis"
	tele "telegram-notify-relay/internal/infra/telegram"
	"telegram-notify-relay/internal/infra/web"
	"telegram-notify-relay/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode (console logs, no real Telegram sends)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Recipient store ----
	var store repository.RecipientStore
	switch cfg.Store.Backend {
	case "redis":
		client, err := red.NewClient(ctx, &cfg.Store)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		store = red.NewRecipientStore(client)
	default:
		store = couch.NewStore(&cfg.Store, logger)
	}

	// ---- Recipient directory ----
	dir := directory.New(logger)
	dir.LoadFrom(ctx, store)

	// ---- Use cases ----
	gate := usecase.NewDeliveryGate(cfg.Gate.Window, cfg.Gate.Tick, nil, logger)
	registerUC := usecase.NewRegisterUseCase(dir, store, logger)

	// ---- Telegram ----
	var bot adapter.BotGateway
	if cfg.Runtime.Dev {
		bot = tele.NewNoopBotGateway(logger)
		logger.Warn().Msg("dev mode: Telegram sends are logged, not delivered")
	} else {
		realBot, err := tele.NewRealBotGateway(&cfg.Bot, registerUC, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		go func() {
			if err := realBot.StartPolling(ctx); err != nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
		bot = realBot
	}

	notifyUC := usecase.NewNotifyUseCase(dir, gate, bot, logger)

	// ---- HTTP front door ----
	index, err := web.RenderIndex("README.md")
	if err != nil {
		logger.Warn().Err(err).Msg("README render failed; serving fallback index")
		index = web.FallbackIndex()
	}
	srv := web.NewServer(notifyUC, index, logger)
	mux := http.NewServeMux()
	srv.Register(mux)

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: mux}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("service up and running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
