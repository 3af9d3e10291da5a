package availability

import (
	"github.com/clinicos/schedcore/internal/calendar"
)

// Thresholds are the slot-count boundaries between availability levels.
type Thresholds struct {
	LowMaxSlots    int
	MediumMaxSlots int
}

// AggregateDay rolls the calculator's output for one date into a
// DayAvailability record. SlotsCount, Level and IsBlocked all derive from
// the same filtered slot list, which keeps the coherence invariant
// (SlotsCount == 0 iff Level == none iff IsBlocked) true by construction.
//
// The block reason is re-derived from the inputs, not from slot
// enumeration: a date before today is past-date even when the doctor had
// open candidates; a day whose open candidates were all removed by the
// lead-time filter is advance-notice; a day the doctor simply has nothing
// open on carries no reason.
func AggregateDay(date calendar.Date, day DaySlots, today calendar.Date, th Thresholds) DayAvailability {
	out := DayAvailability{
		Date:       date,
		DayName:    date.DayName(),
		Slots:      day.Slots,
		SlotsCount: len(day.Slots),
	}
	if out.Slots == nil {
		out.Slots = []Slot{}
	}
	out.Level = LevelFor(out.SlotsCount, th.LowMaxSlots, th.MediumMaxSlots)
	out.IsBlocked = out.SlotsCount == 0

	if !out.IsBlocked {
		return out
	}
	switch {
	case date.Before(today):
		out.BlockReason = ReasonPastDate
	case day.OpenCount > 0:
		out.BlockReason = ReasonAdvanceNotice
	}
	return out
}

// UnavailableDay is the degraded record for a date whose underlying data
// could not be fetched. The week view swaps this in per-day instead of
// failing the whole request.
func UnavailableDay(date calendar.Date) DayAvailability {
	return DayAvailability{
		Date:        date,
		DayName:     date.DayName(),
		Slots:       []Slot{},
		SlotsCount:  0,
		Level:       LevelNone,
		IsBlocked:   true,
		BlockReason: ReasonUnavailable,
	}
}
