package schedule

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicos/schedcore/pkg/logging"
)

// Handler serves the staff-facing working-hours CRUD endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a schedule handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger.WithComponent("schedule")}
}

// ListBlocks handles GET /api/orgs/{orgID}/doctors/{doctorID}/working-hours.
func (h *Handler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	doctorID := chi.URLParam(r, "doctorID")
	if orgID == "" || doctorID == "" {
		http.Error(w, `{"error": "org_id and doctor_id required"}`, http.StatusBadRequest)
		return
	}

	blocks, err := h.repo.ListBlocks(r.Context(), orgID, doctorID)
	if err != nil {
		h.logger.Error("failed to list working-hour blocks", "error", err, "org_id", orgID, "doctor_id", doctorID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if blocks == nil {
		blocks = []WorkingHourBlock{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"working_hours": blocks})
}

// CreateBlock handles POST /api/orgs/{orgID}/doctors/{doctorID}/working-hours.
func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	doctorID := chi.URLParam(r, "doctorID")

	var req CreateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	req.OrgID = orgID
	req.DoctorID = doctorID

	start, end, err := req.Validate()
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusUnprocessableEntity)
		return
	}

	block := &WorkingHourBlock{
		OrgID:      orgID,
		DoctorID:   doctorID,
		LocationID: req.LocationID,
		DayOfWeek:  req.DayOfWeek,
		Start:      start,
		End:        end,
		Active:     true,
	}
	if err := h.repo.CreateBlock(r.Context(), block); err != nil {
		h.logger.Error("failed to create working-hour block", "error", err, "org_id", orgID, "doctor_id", doctorID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("working-hour block created",
		"org_id", orgID,
		"doctor_id", doctorID,
		"day_of_week", block.DayOfWeek,
		"start", block.Start.String(),
		"end", block.End.String(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(block)
}

// UpdateBlock handles PUT /api/orgs/{orgID}/doctors/{doctorID}/working-hours/{blockID}.
func (h *Handler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	doctorID := chi.URLParam(r, "doctorID")
	blockID := chi.URLParam(r, "blockID")

	var req CreateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	req.OrgID = orgID
	req.DoctorID = doctorID

	start, end, err := req.Validate()
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusUnprocessableEntity)
		return
	}

	block := &WorkingHourBlock{
		ID:         blockID,
		OrgID:      orgID,
		DoctorID:   doctorID,
		LocationID: req.LocationID,
		DayOfWeek:  req.DayOfWeek,
		Start:      start,
		End:        end,
		Active:     true,
	}
	if err := h.repo.UpdateBlock(r.Context(), block); err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			http.Error(w, `{"error": "working-hour block not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update working-hour block", "error", err, "org_id", orgID, "block_id", blockID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(block)
}

// DeactivateBlock handles DELETE /api/orgs/{orgID}/doctors/{doctorID}/working-hours/{blockID}.
// Blocks are deactivated rather than deleted so existing appointments keep
// their provenance.
func (h *Handler) DeactivateBlock(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	blockID := chi.URLParam(r, "blockID")

	if err := h.repo.DeactivateBlock(r.Context(), orgID, blockID); err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			http.Error(w, `{"error": "working-hour block not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to deactivate working-hour block", "error", err, "org_id", orgID, "block_id", blockID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("working-hour block deactivated", "org_id", orgID, "block_id", blockID)
	w.WriteHeader(http.StatusNoContent)
}
