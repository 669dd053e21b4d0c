package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/green_homes/internal/catalog"
	"github.com/Skotchmaster/green_homes/internal/config"
	"github.com/Skotchmaster/green_homes/internal/es"
	"github.com/Skotchmaster/green_homes/internal/handlers"
	"github.com/Skotchmaster/green_homes/internal/logging"
	"github.com/Skotchmaster/green_homes/internal/middleware/csrf"
	"github.com/Skotchmaster/green_homes/internal/mykafka"
	"github.com/Skotchmaster/green_homes/internal/service/search"
	"github.com/Skotchmaster/green_homes/internal/session"
	"github.com/Skotchmaster/green_homes/internal/storage"
	httpserver "github.com/Skotchmaster/green_homes/internal/transport/http"
	loggingmw "github.com/Skotchmaster/green_homes/pkg/middleware/logging"
)

const healthKey = "green_homes:health"

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Load(f)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	logger.Info("catalog_loaded", "plants", cat.Len())

	ctx := context.Background()

	st, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage_opened", "driver", cfg.StorageDriver)

	managerOpts := []session.ManagerOption{session.WithLogger(logger)}

	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod, err = mykafka.NewProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		pub := &mykafka.CartPublisher{Producer: prod, Topic: cfg.KafkaTopic, Log: logger}
		managerOpts = append(managerOpts, session.OnOpen(pub.Attach))
	}
	sessions := session.NewManager(st, managerOpts...)

	var searcher handlers.PlantSearcher = handlers.CatalogSearcher{Catalog: cat}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(ctx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		svc := search.New(esClient, cfg.ESIndex)
		if err := svc.IndexPlants(ctx, cat.All()); err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		searcher = svc
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		PlantHandler:  &handlers.PlantHandler{Catalog: cat},
		SearchHandler: handlers.NewSearchHandler(searcher),
		CartHandler:   &handlers.CartHandler{Catalog: cat, Sessions: sessions},
		Issuer:        session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL),
		CSRF:          csrf.DefaultConfig(),
		Ready: func(c echo.Context) error {
			_, err := st.Get(c.Request().Context(), healthKey)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return err
		},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	go func() {
		t := time.NewTicker(max(cfg.SessionIdle/2, time.Second))
		defer t.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-t.C:
				if n := sessions.Sweep(sweepCtx, cfg.SessionIdle); n > 0 {
					logger.Debug("sessions_swept", "count", n)
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	go func() {
		<-quit
		log.Println("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := sessions.Close(shutdownCtx); err != nil {
		logger.Error("session_close_error", "error", err)
	}
	if err := st.Close(); err != nil {
		logger.Error("storage_close_error", "error", err)
	}
	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
