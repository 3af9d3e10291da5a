package orgconfig

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicos/schedcore/pkg/logging"
)

// ConfigStore abstracts the store for the handler so tests can inject an
// in-memory implementation.
type ConfigStore interface {
	Get(ctx context.Context, orgID string) (*Config, error)
	Set(ctx context.Context, cfg *Config) error
}

// Handler serves the org scheduling-config admin endpoints.
type Handler struct {
	store  ConfigStore
	logger *logging.Logger
}

// NewHandler creates a scheduling-config handler.
func NewHandler(store ConfigStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger.WithComponent("orgconfig")}
}

// GetConfig handles GET /api/orgs/{orgID}/scheduling-config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	cfg, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to load scheduling config", "error", err, "org_id", orgID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// UpdateConfig handles PUT /api/orgs/{orgID}/scheduling-config.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	var cfg Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}
	cfg.OrgID = orgID

	if err := h.store.Set(r.Context(), &cfg); err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			h.logger.Warn("rejected scheduling config", "error", err, "org_id", orgID)
			http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to store scheduling config", "error", err, "org_id", orgID)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("scheduling config updated", "org_id", orgID,
		"min_advance_minutes", cfg.MinAdvanceMinutes,
		"slot_duration_minutes", cfg.SlotDurationMinutes,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&cfg)
}
