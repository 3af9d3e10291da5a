package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicos/schedcore/internal/calendar"
)

// Repository is the data-fetch boundary the availability engine consumes.
// Implementations return org-scoped data only; tenant isolation is enforced
// here, not in the engine.
type Repository interface {
	// WorkingHoursForDay returns the doctor's active blocks for one weekday,
	// ordered by start time.
	WorkingHoursForDay(ctx context.Context, orgID, doctorID string, dayOfWeek int) ([]WorkingHourBlock, error)

	// AppointmentsForDate returns the doctor's non-cancelled appointments on
	// a calendar date.
	AppointmentsForDate(ctx context.Context, orgID, doctorID string, date calendar.Date) ([]Appointment, error)

	// CreateBlock inserts a new working-hour block.
	CreateBlock(ctx context.Context, block *WorkingHourBlock) error

	// ListBlocks returns all blocks (active and inactive) for a doctor.
	ListBlocks(ctx context.Context, orgID, doctorID string) ([]WorkingHourBlock, error)

	// UpdateBlock replaces an existing block's window and active flag.
	UpdateBlock(ctx context.Context, block *WorkingHourBlock) error

	// DeactivateBlock marks a block inactive without deleting history.
	DeactivateBlock(ctx context.Context, orgID, blockID string) error

	// CreateAppointment inserts an appointment, returning ErrSlotConflict
	// when a non-cancelled appointment already holds the same doctor, date
	// and start time.
	CreateAppointment(ctx context.Context, appt *Appointment) error

	// CancelAppointment transitions an appointment to cancelled, freeing
	// its slot.
	CancelAppointment(ctx context.Context, orgID, appointmentID string) error
}

// InMemoryRepository is a Repository for tests and local development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	blocks map[string]*WorkingHourBlock
	appts  map[string]*Appointment
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		blocks: make(map[string]*WorkingHourBlock),
		appts:  make(map[string]*Appointment),
	}
}

// WorkingHoursForDay returns active blocks matching the weekday.
func (r *InMemoryRepository) WorkingHoursForDay(_ context.Context, orgID, doctorID string, dayOfWeek int) ([]WorkingHourBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []WorkingHourBlock
	for _, b := range r.blocks {
		if b.OrgID == orgID && b.DoctorID == doctorID && b.DayOfWeek == dayOfWeek && b.Active {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// AppointmentsForDate returns non-cancelled appointments on the date.
func (r *InMemoryRepository) AppointmentsForDate(_ context.Context, orgID, doctorID string, date calendar.Date) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Appointment
	for _, a := range r.appts {
		if a.OrgID == orgID && a.DoctorID == doctorID && a.Date.Equal(date) && a.Status.OccupiesSlot() {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// CreateBlock stores a new block, assigning an id when absent.
func (r *InMemoryRepository) CreateBlock(_ context.Context, block *WorkingHourBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now
	cp := *block
	r.blocks[block.ID] = &cp
	return nil
}

// ListBlocks returns every block for a doctor, active or not.
func (r *InMemoryRepository) ListBlocks(_ context.Context, orgID, doctorID string) ([]WorkingHourBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []WorkingHourBlock
	for _, b := range r.blocks {
		if b.OrgID == orgID && b.DoctorID == doctorID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// UpdateBlock replaces a stored block.
func (r *InMemoryRepository) UpdateBlock(_ context.Context, block *WorkingHourBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.blocks[block.ID]
	if !ok || existing.OrgID != block.OrgID {
		return ErrBlockNotFound
	}
	block.CreatedAt = existing.CreatedAt
	block.UpdatedAt = time.Now().UTC()
	cp := *block
	r.blocks[block.ID] = &cp
	return nil
}

// DeactivateBlock marks a block inactive.
func (r *InMemoryRepository) DeactivateBlock(_ context.Context, orgID, blockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[blockID]
	if !ok || b.OrgID != orgID {
		return ErrBlockNotFound
	}
	b.Active = false
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// CreateAppointment stores an appointment, rejecting same-slot duplicates.
func (r *InMemoryRepository) CreateAppointment(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID == appt.DoctorID && a.Date.Equal(appt.Date) &&
			a.Start == appt.Start && a.Status.OccupiesSlot() {
			return ErrSlotConflict
		}
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = StatusScheduled
	}
	appt.CreatedAt = time.Now().UTC()
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

// CancelAppointment transitions an appointment to cancelled.
func (r *InMemoryRepository) CancelAppointment(_ context.Context, orgID, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[appointmentID]
	if !ok || a.OrgID != orgID {
		return ErrAppointmentNotFound
	}
	a.Status = StatusCancelled
	return nil
}
