// Package schedule persists the scheduling inputs the availability engine
// consumes: doctors' weekly working-hour blocks and booked appointments.
package schedule

import (
	"time"

	"github.com/clinicos/schedcore/internal/calendar"
)

// WorkingHourBlock is one recurring weekly window during which a doctor sees
// patients at a location. The availability calculator treats blocks as
// read-only input.
type WorkingHourBlock struct {
	ID         string             `json:"id"`
	OrgID      string             `json:"org_id"`
	DoctorID   string             `json:"doctor_id"`
	LocationID string             `json:"location_id,omitempty"`
	DayOfWeek  int                `json:"day_of_week"` // 0=Sunday ... 6=Saturday
	Start      calendar.TimeOfDay `json:"start_time"`
	End        calendar.TimeOfDay `json:"end_time"`
	Active     bool               `json:"active"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// AppointmentStatus is the lifecycle state of a booked appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// OccupiesSlot reports whether an appointment in this status blocks its time
// slot. Only cancellations free a slot.
func (s AppointmentStatus) OccupiesSlot() bool {
	return s != StatusCancelled
}

// Appointment is a booked visit: a doctor, a calendar date, a start time and
// a duration.
type Appointment struct {
	ID              string             `json:"id"`
	OrgID           string             `json:"org_id"`
	DoctorID        string             `json:"doctor_id"`
	PatientID       string             `json:"patient_id"`
	Date            calendar.Date      `json:"date"`
	Start           calendar.TimeOfDay `json:"start_time"`
	DurationMinutes int                `json:"duration_minutes"`
	Status          AppointmentStatus  `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
}

// EndMinute returns the appointment's end as minutes since midnight.
func (a *Appointment) EndMinute() int {
	return a.Start.MinuteOfDay() + a.DurationMinutes
}

// Overlaps reports whether the appointment occupies any part of
// [startMinute, startMinute+durationMinutes) on its own date.
func (a *Appointment) Overlaps(startMinute, durationMinutes int) bool {
	return a.Start.MinuteOfDay() < startMinute+durationMinutes && startMinute < a.EndMinute()
}

// CreateBlockRequest is the request body for creating a working-hour block.
type CreateBlockRequest struct {
	OrgID      string `json:"-"`
	DoctorID   string `json:"doctor_id"`
	LocationID string `json:"location_id"`
	DayOfWeek  int    `json:"day_of_week"`
	Start      string `json:"start_time"` // HH:MM
	End        string `json:"end_time"`   // HH:MM
}

// Validate checks the request and resolves the time strings.
func (r *CreateBlockRequest) Validate() (start, end calendar.TimeOfDay, err error) {
	if r.OrgID == "" {
		return start, end, ErrMissingOrgID
	}
	if r.DoctorID == "" {
		return start, end, ErrMissingDoctorID
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return start, end, ErrInvalidDayOfWeek
	}
	start, err = calendar.ParseTimeOfDay(r.Start)
	if err != nil {
		return start, end, err
	}
	end, err = calendar.ParseTimeOfDay(r.End)
	if err != nil {
		return start, end, err
	}
	if !start.Before(end) {
		return start, end, ErrInvalidTimeRange
	}
	return start, end, nil
}
