package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/carebridge/patient-portal/internal/directory"
	"github.com/carebridge/patient-portal/internal/records"
	"github.com/carebridge/patient-portal/internal/schedule"
)

type RouterConfig struct {
	Ledger    *schedule.Ledger
	Calendar  *schedule.Calendar
	Directory *directory.Directory
	Records   *records.MemoryStore
	Logger    *zap.Logger
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.Directory, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Directory endpoints
	r.Get("/providers", listProvidersHandler(cfg.Directory))
	r.Get("/providers/{id}", getProviderHandler(cfg.Directory))
	r.Get("/hospitals", listHospitalsHandler(cfg.Directory))
	r.Get("/patients", listPatientsHandler(cfg.Directory))

	// Availability and slot picker endpoints
	r.Get("/providers/{id}/availability", availabilityHandler(cfg.Calendar, cfg.Directory))
	r.Get("/providers/{id}/slots", slotsHandler(cfg.Ledger))

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Ledger))
	r.Get("/appointments", listAppointmentsHandler(cfg.Ledger))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Ledger))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Ledger))
	r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Ledger))
	r.Post("/appointments/{id}/reschedule", rescheduleAppointmentHandler(cfg.Ledger))

	// Test result endpoints
	r.Get("/patients/{id}/test-results", searchTestResultsHandler(cfg.Records, cfg.Directory))
	r.Post("/patients/{id}/test-results", uploadTestResultHandler(cfg.Records, cfg.Directory))

	return r
}
