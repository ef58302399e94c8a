package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/iliyamo/venues-api/internal/config"
	"github.com/iliyamo/venues-api/internal/handler"
	"github.com/iliyamo/venues-api/internal/logger"
	"github.com/iliyamo/venues-api/internal/queue"
	"github.com/iliyamo/venues-api/internal/router"
	queue_publisher "github.com/iliyamo/venues-api/internal/service"
	"github.com/iliyamo/venues-api/internal/upload"
)

const serviceName = "venues-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Log, serviceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open store")
	}
	defer st.close()

	uploader, err := upload.New(cfg.Cloudinary)
	if err != nil {
		log.Fatal().Err(err).Msg("configure uploader")
	}
	if _, disabled := uploader.(upload.Disabled); disabled {
		log.Warn().Msg("cloudinary is not configured; /upload will fail")
	}

	var events handler.EventPublisher = queue_publisher.Noop{}
	if cfg.Events.Enabled {
		events = queue_publisher.New(cfg.Events)
		if cfg.Events.AuditLog != "" {
			go queue.StartVenueConsumer(ctx, cfg.Events.URL, cfg.Events.Queue, cfg.Events.AuditLog, log)
		}
	}

	e := router.New(router.Deps{
		Cfg:      cfg,
		Logger:   log,
		Venues:   st.venues,
		Users:    st.users,
		Uploader: uploader,
		Events:   events,
	})

	addr := ":" + cfg.Server.Port
	go func() {
		log.Info().Str("addr", addr).Str("driver", cfg.Store.Driver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
