package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicos/schedcore/internal/availability"
	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/orgconfig"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/schedule"
)

type scriptedValidator struct {
	verdict *availability.Verdict
	// orgDuration stands in for the org's configured slot duration, used
	// when the query leaves DurationMinutes unset.
	orgDuration int
	err         error
	lastQ       availability.Query
}

func (v *scriptedValidator) ValidateCandidate(_ context.Context, q availability.Query, _ calendar.Date, _ calendar.TimeOfDay) (*availability.CandidateCheck, error) {
	v.lastQ = q
	if v.err != nil {
		return nil, v.err
	}
	duration := q.DurationMinutes
	if duration <= 0 {
		duration = v.orgDuration
	}
	return &availability.CandidateCheck{Verdict: *v.verdict, DurationMinutes: duration}, nil
}

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustTime(t *testing.T, s string) calendar.TimeOfDay {
	t.Helper()
	tod, err := calendar.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return tod
}

func validRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		OrgID:           "org-1",
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		Date:            mustDate(t, "2026-09-09"),
		Start:           mustTime(t, "10:00"),
		DurationMinutes: 30,
		Role:            policy.RolePatient,
	}
}

func TestBookCreatesAppointment(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}}
	svc := NewService(repo, validator, nil, nil, nil)

	result, err := svc.Book(context.Background(), validRequest(t))
	assert.NoError(t, err)
	assert.Nil(t, result.Blocked)
	assert.NotNil(t, result.Appointment)
	assert.NotEmpty(t, result.Appointment.ID)
	assert.Equal(t, schedule.StatusScheduled, result.Appointment.Status)

	appts, err := repo.AppointmentsForDate(context.Background(), "org-1", "doc-1", mustDate(t, "2026-09-09"))
	assert.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestBookBlockedByPolicy(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{
		Reason:        availability.ReasonAdvanceNotice,
		NextValidDate: "2026-09-10",
		NextValidTime: "10:00",
	}}
	svc := NewService(repo, validator, nil, nil, nil)

	result, err := svc.Book(context.Background(), validRequest(t))
	assert.NoError(t, err, "blocked is data, not an error")
	assert.Nil(t, result.Appointment)
	assert.Equal(t, availability.ReasonAdvanceNotice, result.Blocked.Reason)

	// Nothing was written.
	appts, _ := repo.AppointmentsForDate(context.Background(), "org-1", "doc-1", mustDate(t, "2026-09-09"))
	assert.Empty(t, appts)
}

// Two submissions race: validation passed for both, the second insert hits
// the repository's conflict rejection and surfaces the same category.
func TestBookInsertConflict(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}}
	svc := NewService(repo, validator, nil, nil, nil)

	first, err := svc.Book(context.Background(), validRequest(t))
	assert.NoError(t, err)
	assert.NotNil(t, first.Appointment)

	req := validRequest(t)
	req.PatientID = "pat-2"
	second, err := svc.Book(context.Background(), req)
	assert.NoError(t, err)
	assert.Nil(t, second.Appointment)
	assert.Equal(t, availability.ReasonConflict, second.Blocked.Reason)
}

func TestBookValidatorFailure(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{err: errors.New("redis down")}
	svc := NewService(repo, validator, nil, nil, nil)

	_, err := svc.Book(context.Background(), validRequest(t))
	assert.Error(t, err)
}

func TestBookMissingIdentifiers(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}}
	svc := NewService(repo, validator, nil, nil, nil)

	req := validRequest(t)
	req.OrgID = ""
	_, err := svc.Book(context.Background(), req)
	assert.True(t, errors.Is(err, schedule.ErrMissingOrgID))

	req = validRequest(t)
	req.DoctorID = ""
	_, err = svc.Book(context.Background(), req)
	assert.True(t, errors.Is(err, schedule.ErrMissingDoctorID))
}

func TestBookPassesQueryThrough(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}}
	svc := NewService(repo, validator, nil, nil, nil)

	req := validRequest(t)
	req.Role = policy.RoleStaff
	req.UseStandardRules = true
	_, err := svc.Book(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, policy.RoleStaff, validator.lastQ.Role)
	assert.True(t, validator.lastQ.UseStandardRules)
	assert.Equal(t, 30, validator.lastQ.DurationMinutes)
}

// A request omitting the duration is stored with the duration the validator
// resolved (the org's configured slot length), never a separate fallback.
func TestBookStoresValidatedDuration(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}, orgDuration: 60}
	svc := NewService(repo, validator, nil, nil, nil)

	req := validRequest(t)
	req.DurationMinutes = 0
	result, err := svc.Book(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, 60, result.Appointment.DurationMinutes)

	appts, err := repo.AppointmentsForDate(context.Background(), "org-1", "doc-1", req.Date)
	assert.NoError(t, err)
	assert.Len(t, appts, 1)
	assert.Equal(t, 60, appts[0].DurationMinutes)
}

type fixedConfigs struct{ cfg *orgconfig.Config }

func (c fixedConfigs) Get(_ context.Context, _ string) (*orgconfig.Config, error) {
	return c.cfg, nil
}

// End to end against the real engine: an org configured for 60-minute slots
// books a duration-less request as a 60-minute window, so the half-hour
// inside it conflicts instead of showing open.
func TestBookOmittedDurationOccupiesConfiguredWindow(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	cfg := orgconfig.DefaultConfig("org-1", orgconfig.Defaults{
		SlotDurationMinutes: 60,
		MinAdvanceMinutes:   60,
	})
	clock := func() time.Time { return time.Date(2026, 9, 9, 7, 0, 0, 0, time.UTC) }
	engine := availability.NewService(repo, fixedConfigs{cfg}, clock, nil, nil)
	svc := NewService(repo, engine, clock, nil, nil)

	req := validRequest(t)
	req.DurationMinutes = 0
	booked, err := svc.Book(context.Background(), req)
	assert.NoError(t, err)
	assert.NotNil(t, booked.Appointment)
	assert.Equal(t, 60, booked.Appointment.DurationMinutes)

	q := availability.Query{OrgID: "org-1", DoctorID: "doc-1", Role: policy.RolePatient}
	check, err := engine.ValidateCandidate(context.Background(), q, req.Date, mustTime(t, "10:30"))
	assert.NoError(t, err)
	assert.False(t, check.Verdict.IsValid)
	assert.Equal(t, availability.ReasonConflict, check.Verdict.Reason)
}

func TestCancelFreesSlot(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}}
	svc := NewService(repo, validator, nil, nil, nil)

	first, err := svc.Book(context.Background(), validRequest(t))
	assert.NoError(t, err)
	assert.NoError(t, svc.Cancel(context.Background(), "org-1", first.Appointment.ID))

	rebooked, err := svc.Book(context.Background(), validRequest(t))
	assert.NoError(t, err)
	assert.NotNil(t, rebooked.Appointment)
}

func TestCancelUnknownAppointment(t *testing.T) {
	repo := schedule.NewInMemoryRepository()
	validator := &scriptedValidator{verdict: &availability.Verdict{IsValid: true}}
	svc := NewService(repo, validator, nil, nil, nil)

	err := svc.Cancel(context.Background(), "org-1", "nope")
	assert.True(t, errors.Is(err, schedule.ErrAppointmentNotFound))
}
