package availability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/observability/metrics"
	"github.com/clinicos/schedcore/internal/orgconfig"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/schedule"
	"github.com/clinicos/schedcore/pkg/logging"
)

var tracer = otel.Tracer("schedcore.internal.availability")

// Store is the data-fetch boundary the engine consumes. Implementations
// return org-scoped data; tenant isolation lives below this interface.
type Store interface {
	WorkingHoursForDay(ctx context.Context, orgID, doctorID string, dayOfWeek int) ([]schedule.WorkingHourBlock, error)
	AppointmentsForDate(ctx context.Context, orgID, doctorID string, date calendar.Date) ([]schedule.Appointment, error)
}

// ConfigSource resolves an org's scheduling configuration. A missing config
// never fails a query; the source falls back to documented defaults.
type ConfigSource interface {
	Get(ctx context.Context, orgID string) (*orgconfig.Config, error)
}

// Service answers availability queries. The wall clock is injected so every
// computation is reproducible in tests.
type Service struct {
	store   Store
	configs ConfigSource
	clock   func() time.Time
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewService creates the availability service. clock may be nil, in which
// case time.Now is used.
func NewService(store Store, configs ConfigSource, clock func() time.Time, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if store == nil {
		panic("availability: store required")
	}
	if configs == nil {
		panic("availability: config source required")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		configs: configs,
		clock:   clock,
		logger:  logger.WithComponent("availability"),
		metrics: m,
	}
}

// Query carries the caller-controlled parameters of an availability request.
// DurationMinutes 0 means use the org's configured slot duration.
type Query struct {
	OrgID            string
	DoctorID         string
	Role             policy.Role
	DurationMinutes  int
	UseStandardRules bool
}

// Day computes a single day's availability.
func (s *Service) Day(ctx context.Context, q Query, date calendar.Date) (*DayAvailability, error) {
	ctx, span := tracer.Start(ctx, "availability.day")
	defer span.End()
	span.SetAttributes(
		attribute.String("org_id", q.OrgID),
		attribute.String("doctor_id", q.DoctorID),
		attribute.String("date", date.ISO()),
	)
	started := s.clock()

	env, err := s.resolve(ctx, q)
	if err != nil {
		s.metrics.ObserveAvailabilityQuery("day", "error")
		return nil, err
	}

	day, err := s.computeDay(ctx, q, env, date)
	if err != nil {
		// Degrade to a blocked day rather than failing the query.
		s.logger.Warn("availability data fetch failed",
			"error", err, "org_id", q.OrgID, "doctor_id", q.DoctorID, "date", date.ISO())
		unavailable := UnavailableDay(date)
		s.metrics.ObserveAvailabilityQuery("day", "degraded")
		return &unavailable, nil
	}

	s.metrics.ObserveAvailabilityQuery("day", "ok")
	s.metrics.ObserveComputeLatency("day", s.clock().Sub(started).Seconds())
	return &day, nil
}

// Week computes seven consecutive days starting at startDate. A fetch
// failure on one day degrades that day to blocked/unavailable without
// aborting the rest of the week.
func (s *Service) Week(ctx context.Context, q Query, startDate calendar.Date) (*WeekAvailability, error) {
	ctx, span := tracer.Start(ctx, "availability.week")
	defer span.End()
	span.SetAttributes(
		attribute.String("org_id", q.OrgID),
		attribute.String("doctor_id", q.DoctorID),
		attribute.String("start_date", startDate.ISO()),
	)
	started := s.clock()

	env, err := s.resolve(ctx, q)
	if err != nil {
		s.metrics.ObserveAvailabilityQuery("week", "error")
		return nil, err
	}

	week := &WeekAvailability{
		DoctorID:  q.DoctorID,
		StartDate: startDate,
		Days:      make([]DayAvailability, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := startDate.AddDays(i)
		day, err := s.computeDay(ctx, q, env, date)
		if err != nil {
			s.logger.Warn("availability data fetch failed, degrading day",
				"error", err, "org_id", q.OrgID, "doctor_id", q.DoctorID, "date", date.ISO())
			day = UnavailableDay(date)
		}
		week.Days = append(week.Days, day)
	}

	s.metrics.ObserveAvailabilityQuery("week", "ok")
	s.metrics.ObserveComputeLatency("week", s.clock().Sub(started).Seconds())
	return week, nil
}

// CandidateCheck is the submission-time validation outcome: the verdict plus
// the effective duration the conflict window was checked with. Callers that
// persist the candidate store DurationMinutes, so the stored appointment
// occupies exactly the window that was validated.
type CandidateCheck struct {
	Verdict         Verdict
	DurationMinutes int
}

// ValidateCandidate re-checks one candidate slot against the same policy
// and conflict data the calendar used. The booking path calls this
// immediately before insert so a stale page cannot slip past the lead-time
// boundary.
func (s *Service) ValidateCandidate(ctx context.Context, q Query, date calendar.Date, t calendar.TimeOfDay) (*CandidateCheck, error) {
	ctx, span := tracer.Start(ctx, "availability.validate")
	defer span.End()

	env, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	appts, err := s.store.AppointmentsForDate(ctx, q.OrgID, q.DoctorID, date)
	if err != nil {
		return nil, err
	}

	v := ValidateWithConflicts(date, t, env.durationMinutes, appts, env.policy, env.now)
	if v.IsValid {
		s.metrics.ObserveVerdict("valid")
	} else {
		s.metrics.ObserveVerdict(string(v.Reason))
	}
	return &CandidateCheck{Verdict: v, DurationMinutes: env.durationMinutes}, nil
}

// env is the per-request resolution of org config, policy and "now" in the
// org's timezone.
type env struct {
	policy          policy.BookingPolicy
	durationMinutes int
	thresholds      Thresholds
	now             calendar.Moment
}

func (s *Service) resolve(ctx context.Context, q Query) (env, error) {
	cfg, err := s.configs.Get(ctx, q.OrgID)
	if err != nil {
		return env{}, err
	}

	duration := q.DurationMinutes
	if duration <= 0 {
		duration = cfg.SlotDurationMinutes
	}

	return env{
		policy:          policy.Resolve(q.Role, cfg.MinAdvanceMinutes, q.UseStandardRules),
		durationMinutes: duration,
		thresholds: Thresholds{
			LowMaxSlots:    cfg.LowMaxSlots,
			MediumMaxSlots: cfg.MediumMaxSlots,
		},
		now: calendar.MomentOf(s.clock().In(cfg.Location())),
	}, nil
}

func (s *Service) computeDay(ctx context.Context, q Query, e env, date calendar.Date) (DayAvailability, error) {
	blocks, err := s.store.WorkingHoursForDay(ctx, q.OrgID, q.DoctorID, date.Weekday())
	if err != nil {
		return DayAvailability{}, err
	}
	appts, err := s.store.AppointmentsForDate(ctx, q.OrgID, q.DoctorID, date)
	if err != nil {
		return DayAvailability{}, err
	}
	slots := ComputeDaySlots(date, blocks, appts, e.durationMinutes, e.policy, e.now)
	return AggregateDay(date, slots, e.now.Date, e.thresholds), nil
}
