package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carebridge/patient-portal/internal/directory"
	"github.com/carebridge/patient-portal/internal/records"
	"github.com/carebridge/patient-portal/internal/schedule"
)

func listProvidersHandler(dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.Providers())
	}
}

func getProviderHandler(dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := dir.ProviderByID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "provider_not_found", "no provider with that id")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func listPatientsHandler(dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.Patients())
	}
}

func listHospitalsHandler(dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.Hospitals())
	}
}

func availabilityHandler(cal *schedule.Calendar, dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := chi.URLParam(r, "id")
		date := r.URL.Query().Get("date")
		if !validDate(date) {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		weekly, err := dir.WeeklySchedule(r.Context(), providerID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		bookable, err := cal.IsBookable(date, weekly)
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		windows, err := cal.WindowsFor(date, weekly)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := AvailabilityResponse{
			ProviderID: providerID,
			Date:       date,
			Bookable:   bookable,
			Windows:    make([]WindowResponse, 0, len(windows)),
		}
		for _, win := range windows {
			resp.Windows = append(resp.Windows, WindowResponse{
				Day:      win.Weekday.String(),
				Start:    win.Start,
				End:      win.End,
				Location: win.Location,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func slotsHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := chi.URLParam(r, "id")
		date := r.URL.Query().Get("date")
		if !validDate(date) {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots, err := ledger.AvailableSlots(r.Context(), date, providerID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, slots)
	}
}

func createAppointmentHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.PatientID == "" || req.ProviderID == "" || req.Location == "" {
			writeError(w, http.StatusBadRequest, "missing_field", "patient_id, provider_id and location are required")
			return
		}
		if !validDate(req.Date) {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		if !validTime(req.Time) {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return
		}

		appt, err := ledger.Create(r.Context(), schedule.CreateParams{
			PatientID:  req.PatientID,
			ProviderID: req.ProviderID,
			Date:       req.Date,
			Time:       req.Time,
			Location:   req.Location,
			Reason:     req.Reason,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var id string
		var role schedule.Role
		switch {
		case q.Get("patient_id") != "":
			id, role = q.Get("patient_id"), schedule.RolePatient
		case q.Get("provider_id") != "":
			id, role = q.Get("provider_id"), schedule.RoleProvider
		default:
			writeError(w, http.StatusBadRequest, "missing_field", "patient_id or provider_id is required")
			return
		}

		appts, err := ledger.ListFor(r.Context(), id, role)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		if status := q.Get("status"); status != "" {
			filtered := make([]schedule.Appointment, 0, len(appts))
			for _, a := range appts {
				if a.Status == schedule.AppointmentStatus(status) {
					filtered = append(filtered, a)
				}
			}
			appts = filtered
		}

		if appts == nil {
			appts = []schedule.Appointment{}
		}
		writeJSON(w, http.StatusOK, appts)
	}
}

func getAppointmentHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := ledger.Get(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func cancelAppointmentHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		// The actor body is optional.
		var req CancelAppointmentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		appt, err := ledger.Cancel(r.Context(), id, req.Actor)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func completeAppointmentHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := ledger.MarkComplete(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func rescheduleAppointmentHandler(ledger *schedule.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		var req RescheduleAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !validDate(req.Date) {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		if !validTime(req.Time) {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return
		}
		if req.Location == "" {
			writeError(w, http.StatusBadRequest, "missing_field", "location is required")
			return
		}

		appt, err := ledger.Reschedule(r.Context(), id, req.Date, req.Time, req.Location)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func searchTestResultsHandler(store *records.MemoryStore, dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "id")
		if _, ok := dir.PatientByID(patientID); !ok {
			writeError(w, http.StatusNotFound, "patient_not_found", "no patient with that id")
			return
		}

		q := r.URL.Query()
		from, to := q.Get("from"), q.Get("to")
		if from != "" && !validDate(from) {
			writeError(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
			return
		}
		if to != "" && !validDate(to) {
			writeError(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD")
			return
		}

		spec := records.FilterSpec{
			Keyword:      q.Get("keyword"),
			FromDate:     from,
			ToDate:       to,
			Category:     q.Get("category"),
			Clinician:    q.Get("clinician"),
			FacilityID:   q.Get("facility_id"),
			RequireNotes: q.Get("has_notes") == "true",
		}

		results, err := store.Search(r.Context(), patientID, spec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if results == nil {
			results = []records.TestResult{}
		}

		writeJSON(w, http.StatusOK, results)
	}
}

func uploadTestResultHandler(store *records.MemoryStore, dir *directory.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "id")
		if _, ok := dir.PatientByID(patientID); !ok {
			writeError(w, http.StatusNotFound, "patient_not_found", "no patient with that id")
			return
		}

		var rec records.TestResult
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		rec.PatientID = patientID
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if rec.Status == "" {
			rec.Status = records.ResultCompleted
		}

		if err := store.Add(r.Context(), rec); err != nil {
			if errors.Is(err, records.ErrInvalidRecord) {
				writeError(w, http.StatusBadRequest, "invalid_record", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, rec)
	}
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, schedule.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, "provider_not_found", err.Error())
	case errors.Is(err, schedule.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, "date_out_of_range", err.Error())
	case errors.Is(err, schedule.ErrInvalidSlot):
		writeError(w, http.StatusUnprocessableEntity, "invalid_slot", err.Error())
	case errors.Is(err, schedule.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, schedule.ErrSlotBusy), errors.Is(err, schedule.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_busy", "slot is currently being booked, please retry shortly")
	case errors.Is(err, schedule.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
