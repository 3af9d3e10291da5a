package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/tenancy"
	"github.com/clinicos/schedcore/pkg/logging"
)

// Handler exposes the availability engine over HTTP JSON.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an availability handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger.WithComponent("availability")}
}

// queryFromRequest builds the engine query from URL and request context.
// The caller's role comes from the auth middleware via the request context,
// never from client input.
func queryFromRequest(r *http.Request) (Query, error) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		return Query{}, errors.New("doctor_id is required")
	}

	role, _ := tenancy.RoleFromContext(r.Context())
	q := Query{
		OrgID:    chi.URLParam(r, "orgID"),
		DoctorID: doctorID,
		Role:     policy.ParseRole(role),
	}
	if v := r.URL.Query().Get("duration_minutes"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			return Query{}, errors.New("duration_minutes must be a positive integer")
		}
		q.DurationMinutes = d
	}
	if v := r.URL.Query().Get("use_standard_rules"); v != "" {
		q.UseStandardRules = v == "true" || v == "1"
	}
	return q, nil
}

// GetDay handles GET /api/orgs/{orgID}/availability/day?doctor_id=&date=.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	date, err := calendar.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	day, err := h.service.Day(r.Context(), q, date)
	if err != nil {
		h.logger.Error("day availability failed", "error", err, "org_id", q.OrgID, "doctor_id", q.DoctorID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(day)
}

// GetWeek handles GET /api/orgs/{orgID}/availability/week?doctor_id=&start_date=.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	start, err := calendar.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		http.Error(w, `{"error": "start_date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	week, err := h.service.Week(r.Context(), q, start)
	if err != nil {
		h.logger.Error("week availability failed", "error", err, "org_id", q.OrgID, "doctor_id", q.DoctorID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(week)
}

// ValidateRequest is the body of POST /availability/validate.
type ValidateRequest struct {
	DoctorID         string `json:"doctor_id"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	DurationMinutes  int    `json:"duration_minutes"`
	UseStandardRules bool   `json:"use_standard_rules"`
}

// Validate handles POST /api/orgs/{orgID}/availability/validate. A blocked
// candidate is a 200 with is_valid=false, not an error status: blocked is a
// modeled outcome.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.DoctorID == "" {
		http.Error(w, `{"error": "doctor_id is required"}`, http.StatusBadRequest)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	tod, err := calendar.ParseTimeOfDay(req.Time)
	if err != nil {
		http.Error(w, `{"error": "time must be HH:MM"}`, http.StatusBadRequest)
		return
	}

	role, _ := tenancy.RoleFromContext(r.Context())
	q := Query{
		OrgID:            chi.URLParam(r, "orgID"),
		DoctorID:         req.DoctorID,
		Role:             policy.ParseRole(role),
		DurationMinutes:  req.DurationMinutes,
		UseStandardRules: req.UseStandardRules,
	}
	check, err := h.service.ValidateCandidate(r.Context(), q, date, tod)
	if err != nil {
		h.logger.Error("candidate validation failed", "error", err, "org_id", q.OrgID, "doctor_id", q.DoctorID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(check.Verdict)
}
