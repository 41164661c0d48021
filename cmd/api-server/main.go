package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/carebridge/patient-portal/internal/api"
	"github.com/carebridge/patient-portal/internal/config"
	"github.com/carebridge/patient-portal/internal/directory"
	"github.com/carebridge/patient-portal/internal/logging"
	"github.com/carebridge/patient-portal/internal/records"
	"github.com/carebridge/patient-portal/internal/schedule"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.Int("booking_horizon_days", cfg.BookingHorizonDays),
		zap.Int("slot_tick_minutes", cfg.SlotTickMinutes),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds := directory.Default()
	if cfg.DatasetPath != "" {
		ds, err = directory.Load(cfg.DatasetPath)
		if err != nil {
			logger.Fatal("dataset load error", zap.Error(err))
		}
	}

	dir, err := directory.New(ds)
	if err != nil {
		logger.Fatal("dataset validation error", zap.Error(err))
	}

	recordStore := records.NewMemoryStore()
	for _, r := range ds.TestResults {
		if err := recordStore.Add(rootCtx, r); err != nil {
			logger.Fatal("dataset test result error", zap.String("record_id", r.ID), zap.Error(err))
		}
	}

	logger.Info("dataset loaded",
		zap.Int("patients", len(ds.Patients)),
		zap.Int("providers", len(ds.Providers)),
		zap.Int("hospitals", len(ds.Hospitals)),
		zap.Int("test_results", len(ds.TestResults)),
	)

	calendar := schedule.NewCalendar(cfg.BookingHorizonDays)
	allocator := schedule.NewAllocator(calendar, cfg.SlotTickMinutes)
	ledger := schedule.NewLedger(
		schedule.NewMemoryStore(),
		schedule.NewKeyedLocker(),
		calendar,
		allocator,
		dir,
		dir,
		logger,
	)

	router := api.NewRouter(api.RouterConfig{
		Ledger:    ledger,
		Calendar:  calendar,
		Directory: dir,
		Records:   recordStore,
		Logger:    logger,
		Env:       cfg.Env,
		Version:   version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("api-server stopped")
}
