// Package availability is the scheduling engine's core: it turns a doctor's
// working-hour blocks, booked appointments, and the org's booking policy
// into bookable time slots and day-level availability summaries. All
// computation is pure and synchronous over data already fetched; "now" is an
// explicit parameter everywhere, never read from a global clock.
package availability

import (
	"github.com/clinicos/schedcore/internal/calendar"
)

// Level classifies how much of a day is still open, driving calendar UI
// affordances.
type Level string

const (
	LevelNone   Level = "none"
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// LevelFor maps a post-filter slot count onto a Level. The thresholds come
// from org configuration; the mapping is monotonic in slotsCount.
func LevelFor(slotsCount, lowMax, mediumMax int) Level {
	switch {
	case slotsCount <= 0:
		return LevelNone
	case slotsCount <= lowMax:
		return LevelLow
	case slotsCount <= mediumMax:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// BlockReason is the human-readable category attached to a blocked day or a
// rejected candidate slot. Blocked outcomes are modeled data, not errors.
type BlockReason string

const (
	// ReasonPastDate marks dates strictly before today. Absolute: no role
	// or policy can book the past.
	ReasonPastDate BlockReason = "past-date"

	// ReasonAdvanceNotice marks slots inside the lead-time window, and
	// same-day slots that have already elapsed.
	ReasonAdvanceNotice BlockReason = "advance-notice"

	// ReasonUnavailable marks days whose underlying data could not be
	// fetched. The week view degrades per-day instead of failing whole.
	ReasonUnavailable BlockReason = "unavailable"

	// ReasonConflict marks a candidate that collides with an existing
	// appointment. The persistence layer's duplicate-slot rejection maps
	// to this same category.
	ReasonConflict BlockReason = "slot-conflict"
)

// Slot is one bookable window within a day.
type Slot struct {
	Start calendar.TimeOfDay `json:"start_time"`
	End   calendar.TimeOfDay `json:"end_time"`
}

// DayAvailability summarizes one calendar day. SlotsCount, Level and
// IsBlocked are always derived from the same post-policy-filtered slot
// list, so they cannot drift apart: SlotsCount == 0 iff Level == none iff
// IsBlocked.
type DayAvailability struct {
	Date        calendar.Date `json:"date"`
	DayName     string        `json:"day_name"`
	Slots       []Slot        `json:"slots"`
	SlotsCount  int           `json:"slots_count"`
	Level       Level         `json:"availability_level"`
	IsBlocked   bool          `json:"is_blocked"`
	BlockReason BlockReason   `json:"block_reason,omitempty"`
}

// WeekAvailability is seven consecutive DayAvailability records starting at
// StartDate.
type WeekAvailability struct {
	DoctorID  string            `json:"doctor_id"`
	StartDate calendar.Date     `json:"start_date"`
	Days      []DayAvailability `json:"days"`
}

// Verdict is the validator's answer for one candidate slot. IsValid false
// always carries a reason; NextValidDate/NextValidTime point at the
// earliest bookable moment when the block is time-based.
type Verdict struct {
	IsValid       bool        `json:"is_valid"`
	Reason        BlockReason `json:"reason,omitempty"`
	NextValidDate string      `json:"next_valid_date,omitempty"`
	NextValidTime string      `json:"next_valid_time,omitempty"`
}
