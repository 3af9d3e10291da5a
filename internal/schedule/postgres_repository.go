package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinicos/schedcore/internal/calendar"
)

// db is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores schedules in the relational database. Dates and
// times are persisted as their canonical strings (YYYY-MM-DD, HH:MM) so no
// driver-level timezone conversion can displace them.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or mock).
func NewPostgresRepository(pool db) *PostgresRepository {
	if pool == nil {
		panic("schedule: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// WorkingHoursForDay returns the doctor's active blocks for one weekday.
func (r *PostgresRepository) WorkingHoursForDay(ctx context.Context, orgID, doctorID string, dayOfWeek int) ([]WorkingHourBlock, error) {
	query := `
		SELECT id, org_id, doctor_id, location_id, day_of_week, start_time, end_time, active, created_at, updated_at
		FROM working_hour_blocks
		WHERE org_id = $1 AND doctor_id = $2 AND day_of_week = $3 AND active
		ORDER BY start_time
	`
	rows, err := r.db.Query(ctx, query, orgID, doctorID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("schedule: select working hours: %w", err)
	}
	defer rows.Close()
	return scanBlocks(rows)
}

// ListBlocks returns every block for a doctor, active or not.
func (r *PostgresRepository) ListBlocks(ctx context.Context, orgID, doctorID string) ([]WorkingHourBlock, error) {
	query := `
		SELECT id, org_id, doctor_id, location_id, day_of_week, start_time, end_time, active, created_at, updated_at
		FROM working_hour_blocks
		WHERE org_id = $1 AND doctor_id = $2
		ORDER BY day_of_week, start_time
	`
	rows, err := r.db.Query(ctx, query, orgID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("schedule: list blocks: %w", err)
	}
	defer rows.Close()
	return scanBlocks(rows)
}

func scanBlocks(rows pgx.Rows) ([]WorkingHourBlock, error) {
	var out []WorkingHourBlock
	for rows.Next() {
		var (
			b          WorkingHourBlock
			start, end string
		)
		if err := rows.Scan(&b.ID, &b.OrgID, &b.DoctorID, &b.LocationID, &b.DayOfWeek,
			&start, &end, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("schedule: scan block: %w", err)
		}
		var err error
		if b.Start, err = calendar.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("schedule: block %s start: %w", b.ID, err)
		}
		if b.End, err = calendar.ParseTimeOfDay(end); err != nil {
			return nil, fmt.Errorf("schedule: block %s end: %w", b.ID, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate blocks: %w", err)
	}
	return out, nil
}

// AppointmentsForDate returns the doctor's non-cancelled appointments on a
// calendar date.
func (r *PostgresRepository) AppointmentsForDate(ctx context.Context, orgID, doctorID string, date calendar.Date) ([]Appointment, error) {
	query := `
		SELECT id, org_id, doctor_id, patient_id, date, start_time, duration_minutes, status, created_at
		FROM appointments
		WHERE org_id = $1 AND doctor_id = $2 AND date = $3 AND status <> 'cancelled'
		ORDER BY start_time
	`
	rows, err := r.db.Query(ctx, query, orgID, doctorID, date.ISO())
	if err != nil {
		return nil, fmt.Errorf("schedule: select appointments: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var (
			a       Appointment
			dateStr string
			start   string
			status  string
		)
		if err := rows.Scan(&a.ID, &a.OrgID, &a.DoctorID, &a.PatientID,
			&dateStr, &start, &a.DurationMinutes, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("schedule: scan appointment: %w", err)
		}
		if a.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("schedule: appointment %s date: %w", a.ID, err)
		}
		if a.Start, err = calendar.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("schedule: appointment %s start: %w", a.ID, err)
		}
		a.Status = AppointmentStatus(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate appointments: %w", err)
	}
	return out, nil
}

// CreateBlock inserts a new working-hour block.
func (r *PostgresRepository) CreateBlock(ctx context.Context, block *WorkingHourBlock) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	query := `
		INSERT INTO working_hour_blocks (id, org_id, doctor_id, location_id, day_of_week, start_time, end_time, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRow(ctx, query,
		block.ID,
		block.OrgID,
		block.DoctorID,
		block.LocationID,
		block.DayOfWeek,
		block.Start.String(),
		block.End.String(),
		block.Active,
	).Scan(&block.CreatedAt, &block.UpdatedAt); err != nil {
		return fmt.Errorf("schedule: insert block: %w", err)
	}
	return nil
}

// UpdateBlock replaces an existing block's window and active flag.
func (r *PostgresRepository) UpdateBlock(ctx context.Context, block *WorkingHourBlock) error {
	query := `
		UPDATE working_hour_blocks
		SET location_id = $3, day_of_week = $4, start_time = $5, end_time = $6, active = $7, updated_at = now()
		WHERE id = $1 AND org_id = $2
	`
	tag, err := r.db.Exec(ctx, query,
		block.ID,
		block.OrgID,
		block.LocationID,
		block.DayOfWeek,
		block.Start.String(),
		block.End.String(),
		block.Active,
	)
	if err != nil {
		return fmt.Errorf("schedule: update block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// DeactivateBlock marks a block inactive without deleting history.
func (r *PostgresRepository) DeactivateBlock(ctx context.Context, orgID, blockID string) error {
	query := `
		UPDATE working_hour_blocks
		SET active = FALSE, updated_at = now()
		WHERE id = $1 AND org_id = $2
	`
	tag, err := r.db.Exec(ctx, query, blockID, orgID)
	if err != nil {
		return fmt.Errorf("schedule: deactivate block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// CreateAppointment inserts an appointment. The partial unique index on
// (doctor_id, date, start_time) WHERE status <> 'cancelled' is the last
// line of defense against double booking; its violation maps to
// ErrSlotConflict so the write path reports the same category the
// validator does.
func (r *PostgresRepository) CreateAppointment(ctx context.Context, appt *Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = StatusScheduled
	}
	query := `
		INSERT INTO appointments (id, org_id, doctor_id, patient_id, date, start_time, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		appt.ID,
		appt.OrgID,
		appt.DoctorID,
		appt.PatientID,
		appt.Date.ISO(),
		appt.Start.String(),
		appt.DurationMinutes,
		string(appt.Status),
	).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("schedule: insert appointment: %w", err)
	}
	appt.CreatedAt = createdAt
	return nil
}

// CancelAppointment transitions an appointment to cancelled.
func (r *PostgresRepository) CancelAppointment(ctx context.Context, orgID, appointmentID string) error {
	query := `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1 AND org_id = $2 AND status <> 'cancelled'
	`
	tag, err := r.db.Exec(ctx, query, appointmentID, orgID)
	if err != nil {
		return fmt.Errorf("schedule: cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
