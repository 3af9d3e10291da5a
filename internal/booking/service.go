// Package booking is the appointment write path. It re-validates every
// candidate through the same validator the calendar used, then inserts with
// a conflict check at the persistence layer, so display, submission and
// storage all reject a slot for the same stated reason.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicos/schedcore/internal/availability"
	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/observability/metrics"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/schedule"
	"github.com/clinicos/schedcore/pkg/logging"
)

var tracer = otel.Tracer("schedcore.internal.booking")

// Validator is the availability engine's submission-time check. Booking
// depends on the interface so tests can script verdicts.
type Validator interface {
	ValidateCandidate(ctx context.Context, q availability.Query, date calendar.Date, t calendar.TimeOfDay) (*availability.CandidateCheck, error)
}

// Service books and cancels appointments.
type Service struct {
	repo      schedule.Repository
	validator Validator
	clock     func() time.Time
	logger    *logging.Logger
	metrics   *metrics.SchedulingMetrics
}

// NewService creates the booking service. clock may be nil, defaulting to
// time.Now.
func NewService(repo schedule.Repository, validator Validator, clock func() time.Time, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if repo == nil {
		panic("booking: repository required")
	}
	if validator == nil {
		panic("booking: validator required")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		validator: validator,
		clock:     clock,
		logger:    logger.WithComponent("booking"),
		metrics:   m,
	}
}

// Request carries one booking attempt.
type Request struct {
	OrgID            string
	DoctorID         string
	PatientID        string
	Date             calendar.Date
	Start            calendar.TimeOfDay
	DurationMinutes  int
	Role             policy.Role
	UseStandardRules bool
}

// Result is a booking outcome. Exactly one of Appointment or Blocked is
// set: a blocked booking is an expected, modeled outcome carried as data,
// not an error.
type Result struct {
	Appointment *schedule.Appointment `json:"appointment,omitempty"`
	Blocked     *availability.Verdict `json:"blocked,omitempty"`
}

// Book validates the candidate slot and inserts the appointment. A verdict
// failure or an insert-time conflict both come back as Result.Blocked; the
// error return is reserved for malformed input and infrastructure failure.
func (s *Service) Book(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "booking.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("org_id", req.OrgID),
		attribute.String("doctor_id", req.DoctorID),
		attribute.String("date", req.Date.ISO()),
	)

	if req.OrgID == "" {
		return nil, schedule.ErrMissingOrgID
	}
	if req.DoctorID == "" {
		return nil, schedule.ErrMissingDoctorID
	}

	q := availability.Query{
		OrgID:            req.OrgID,
		DoctorID:         req.DoctorID,
		Role:             req.Role,
		DurationMinutes:  req.DurationMinutes,
		UseStandardRules: req.UseStandardRules,
	}
	check, err := s.validator.ValidateCandidate(ctx, q, req.Date, req.Start)
	if err != nil {
		s.metrics.ObserveBooking("error")
		return nil, fmt.Errorf("booking: validate candidate: %w", err)
	}
	if !check.Verdict.IsValid {
		s.logger.Info("booking blocked",
			"org_id", req.OrgID, "doctor_id", req.DoctorID,
			"date", req.Date.ISO(), "start", req.Start.String(),
			"reason", string(check.Verdict.Reason))
		s.metrics.ObserveBooking("blocked")
		return &Result{Blocked: &check.Verdict}, nil
	}

	// Store the duration the conflict window was validated with: when the
	// request omits it, the validator resolved the org's configured slot
	// duration, and the persisted row must occupy that same window.
	appt := &schedule.Appointment{
		OrgID:           req.OrgID,
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		Date:            req.Date,
		Start:           req.Start,
		DurationMinutes: check.DurationMinutes,
		Status:          schedule.StatusScheduled,
	}

	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		if errors.Is(err, schedule.ErrSlotConflict) {
			// Lost the race to another submission between validation and
			// insert. Same category as the validator's conflict verdict.
			s.metrics.ObserveBooking("conflict")
			return &Result{Blocked: &availability.Verdict{Reason: availability.ReasonConflict}}, nil
		}
		s.metrics.ObserveBooking("error")
		return nil, fmt.Errorf("booking: create appointment: %w", err)
	}

	s.logger.Info("appointment booked",
		"org_id", req.OrgID, "doctor_id", req.DoctorID,
		"appointment_id", appt.ID, "date", req.Date.ISO(), "start", req.Start.String())
	s.metrics.ObserveBooking("created")
	return &Result{Appointment: appt}, nil
}

// Cancel transitions an appointment to cancelled, freeing its slot for
// rebooking.
func (s *Service) Cancel(ctx context.Context, orgID, appointmentID string) error {
	ctx, span := tracer.Start(ctx, "booking.cancel")
	defer span.End()

	if err := s.repo.CancelAppointment(ctx, orgID, appointmentID); err != nil {
		return err
	}
	s.logger.Info("appointment cancelled", "org_id", orgID, "appointment_id", appointmentID)
	return nil
}
