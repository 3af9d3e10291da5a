package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/clinicos/schedcore/internal/availability"
	"github.com/clinicos/schedcore/internal/schedule"
)

func newBookingRouter(repo schedule.Repository, validator Validator) http.Handler {
	svc := NewService(repo, validator, nil, nil, nil)
	h := NewHandler(svc, nil)

	r := chi.NewRouter()
	r.Route("/api/orgs/{orgID}/appointments", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Post("/{appointmentID}/cancel", h.Cancel)
	})
	return r
}

func TestHandlerCreateAppointment(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	router := newBookingRouter(repo, &scriptedValidator{verdict: &availability.Verdict{IsValid: true}})

	body := `{"doctor_id": "doc-1", "patient_id": "pat-1", "date": "2026-09-09", "start_time": "10:00", "duration_minutes": 30}`
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var result Result
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.NotNil(t, result.Appointment)
	assert.Equal(t, "org-1", result.Appointment.OrgID)
}

func TestHandlerCreateBlockedByPolicy(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	router := newBookingRouter(repo, &scriptedValidator{verdict: &availability.Verdict{
		Reason: availability.ReasonAdvanceNotice,
	}})

	body := `{"doctor_id": "doc-1", "date": "2026-09-09", "start_time": "10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result Result
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, availability.ReasonAdvanceNotice, result.Blocked.Reason)
}

func TestHandlerCreateConflictIs409(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	router := newBookingRouter(repo, &scriptedValidator{verdict: &availability.Verdict{IsValid: true}})

	body := `{"doctor_id": "doc-1", "date": "2026-09-09", "start_time": "10:00"}`
	first := httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusCreated, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments", strings.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot-conflict")
}

func TestHandlerCreateBadInput(t *testing.T) {
	router := newBookingRouter(schedule.NewInMemoryRepository(), &scriptedValidator{verdict: &availability.Verdict{IsValid: true}})

	for name, body := range map[string]string{
		"not json":       `{`,
		"missing doctor": `{"date": "2026-09-09", "start_time": "10:00"}`,
		"bad date":       `{"doctor_id": "doc-1", "date": "tomorrow", "start_time": "10:00"}`,
		"bad time":       `{"doctor_id": "doc-1", "date": "2026-09-09", "start_time": "10:00:00"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlerCancel(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	router := newBookingRouter(repo, &scriptedValidator{verdict: &availability.Verdict{IsValid: true}})

	body := `{"doctor_id": "doc-1", "date": "2026-09-09", "start_time": "10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var result Result
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	req = httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments/"+result.Appointment.ID+"/cancel", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/orgs/org-1/appointments/missing/cancel", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
