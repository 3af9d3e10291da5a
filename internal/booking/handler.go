package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicos/schedcore/internal/availability"
	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/schedule"
	"github.com/clinicos/schedcore/internal/tenancy"
	"github.com/clinicos/schedcore/pkg/logging"
)

// Handler serves the appointment write endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger.WithComponent("booking")}
}

// CreateRequest is the body of POST /appointments.
type CreateRequest struct {
	DoctorID         string `json:"doctor_id"`
	PatientID        string `json:"patient_id"`
	Date             string `json:"date"`
	Start            string `json:"start_time"`
	DurationMinutes  int    `json:"duration_minutes"`
	UseStandardRules bool   `json:"use_standard_rules"`
}

// Create handles POST /api/orgs/{orgID}/appointments. A blocked booking
// maps to 409 for conflicts and 422 for policy rejections, with the verdict
// in the body so the UI can show the same reason the calendar would.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if body.DoctorID == "" {
		http.Error(w, `{"error": "doctor_id is required"}`, http.StatusBadRequest)
		return
	}
	date, err := calendar.ParseDate(body.Date)
	if err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	start, err := calendar.ParseTimeOfDay(body.Start)
	if err != nil {
		http.Error(w, `{"error": "start_time must be HH:MM"}`, http.StatusBadRequest)
		return
	}

	role, _ := tenancy.RoleFromContext(r.Context())
	result, err := h.service.Book(r.Context(), Request{
		OrgID:            orgID,
		DoctorID:         body.DoctorID,
		PatientID:        body.PatientID,
		Date:             date,
		Start:            start,
		DurationMinutes:  body.DurationMinutes,
		Role:             policy.ParseRole(role),
		UseStandardRules: body.UseStandardRules,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrMissingOrgID) || errors.Is(err, schedule.ErrMissingDoctorID) {
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		h.logger.Error("booking failed", "error", err, "org_id", orgID, "doctor_id", body.DoctorID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Blocked != nil {
		status := http.StatusUnprocessableEntity
		if result.Blocked.Reason == availability.ReasonConflict {
			status = http.StatusConflict
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(result)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// Cancel handles POST /api/orgs/{orgID}/appointments/{appointmentID}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	appointmentID := chi.URLParam(r, "appointmentID")

	if err := h.service.Cancel(r.Context(), orgID, appointmentID); err != nil {
		if errors.Is(err, schedule.ErrAppointmentNotFound) {
			http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("cancel failed", "error", err, "org_id", orgID, "appointment_id", appointmentID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
