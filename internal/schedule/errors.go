package schedule

import "errors"

var (
	// ErrMissingOrgID is returned when the org scope is absent
	ErrMissingOrgID = errors.New("org id is required")

	// ErrMissingDoctorID is returned when the doctor reference is absent
	ErrMissingDoctorID = errors.New("doctor id is required")

	// ErrInvalidDayOfWeek is returned when day_of_week is outside 0-6
	ErrInvalidDayOfWeek = errors.New("day_of_week must be between 0 (Sunday) and 6 (Saturday)")

	// ErrInvalidTimeRange is returned when a block's end does not come after its start
	ErrInvalidTimeRange = errors.New("end_time must be after start_time")

	// ErrBlockNotFound is returned when a working-hour block does not exist
	ErrBlockNotFound = errors.New("working-hour block not found")

	// ErrAppointmentNotFound is returned when an appointment does not exist
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotConflict is returned when an insert collides with an existing
	// non-cancelled appointment for the same doctor, date and start time.
	// It is the persistence-layer counterpart of the validator's conflict
	// verdict; both surface the same category to callers.
	ErrSlotConflict = errors.New("slot already booked")
)
