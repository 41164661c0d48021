// The completion worker is the external trigger for the scheduled ->
// completed transition: it periodically sweeps every provider's scheduled
// appointments through the API and completes the ones whose time has passed.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/carebridge/patient-portal/internal/config"
	"github.com/carebridge/patient-portal/internal/logging"
	"github.com/carebridge/patient-portal/internal/schedule"
)

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

	logger.Info("completion-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval),
		zap.String("api", cfg.WorkerAPIBaseURL),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &worker{
		baseURL: cfg.WorkerAPIBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}

	// Run once at startup
	w.runOnce(rootCtx)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info("shutdown signal received, stopping completion worker")
			return
		case <-ticker.C:
			w.runOnce(rootCtx)
		}
	}
}

type worker struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func (w *worker) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	completed, err := w.sweep(runCtx)
	if err != nil {
		w.logger.Error("sweep error", zap.Error(err))
		return
	}
	w.logger.Info("sweep complete",
		zap.Int("completed", completed),
		zap.Duration("took", time.Since(start)),
	)
}

func (w *worker) sweep(ctx context.Context) (int, error) {
	var providers []struct {
		ID string `json:"id"`
	}
	if err := w.getJSON(ctx, "/providers", &providers); err != nil {
		return 0, fmt.Errorf("list providers: %w", err)
	}

	now := time.Now()
	completed := 0

	for _, p := range providers {
		var appts []schedule.Appointment
		path := fmt.Sprintf("/appointments?provider_id=%s&status=%s", p.ID, schedule.StatusScheduled)
		if err := w.getJSON(ctx, path, &appts); err != nil {
			return completed, fmt.Errorf("list appointments for %s: %w", p.ID, err)
		}

		for _, a := range appts {
			end, err := time.Parse("2006-01-02 15:04", a.Date+" "+a.Time)
			if err != nil || !end.Before(now) {
				continue
			}
			if err := w.complete(ctx, a.ID.String()); err != nil {
				w.logger.Warn("complete failed",
					zap.String("appointment_id", a.ID.String()),
					zap.Error(err),
				)
				continue
			}
			completed++
		}
	}

	return completed, nil
}

func (w *worker) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (w *worker) complete(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/appointments/%s/complete", w.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 409 means another actor already moved it out of scheduled.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
