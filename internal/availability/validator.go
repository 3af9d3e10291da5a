package availability

import (
	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/schedule"
)

// Validate is the single source of truth for the lead-time decision. The
// calculator applies it to every candidate slot and the booking path
// applies it again at submission time, so the calendar a user sees and the
// answer they get on submit can never disagree.
//
// A candidate is valid when it is strictly in the future and at least
// policy.MinAdvanceMinutes away from now. Dates strictly before today are
// past-date regardless of policy.
func Validate(date calendar.Date, t calendar.TimeOfDay, pol policy.BookingPolicy, now calendar.Moment) Verdict {
	if date.Before(now.Date) {
		return blockedVerdict(ReasonPastDate, pol, now)
	}

	candidate := calendar.Moment{Date: date, Time: t}
	lead := candidate.MinutesSince(now)
	if lead <= 0 || lead < pol.MinAdvanceMinutes {
		return blockedVerdict(ReasonAdvanceNotice, pol, now)
	}
	return Verdict{IsValid: true}
}

// ValidateWithConflicts runs Validate and then checks the candidate against
// the doctor's known appointments for the date. Used by the submission path;
// the calendar path excludes conflicts during slot enumeration instead.
func ValidateWithConflicts(date calendar.Date, t calendar.TimeOfDay, durationMinutes int, appts []schedule.Appointment, pol policy.BookingPolicy, now calendar.Moment) Verdict {
	v := Validate(date, t, pol, now)
	if !v.IsValid {
		return v
	}
	startMinute := t.MinuteOfDay()
	for i := range appts {
		a := &appts[i]
		if a.Status.OccupiesSlot() && a.Date.Equal(date) && a.Overlaps(startMinute, durationMinutes) {
			return Verdict{Reason: ReasonConflict}
		}
	}
	return v
}

// blockedVerdict builds a blocked result carrying the earliest bookable
// moment under the policy. MinAdvanceMinutes 0 still requires a strictly
// future minute.
func blockedVerdict(reason BlockReason, pol policy.BookingPolicy, now calendar.Moment) Verdict {
	lead := pol.MinAdvanceMinutes
	if lead < 1 {
		lead = 1
	}
	next := now.AddMinutes(lead)
	return Verdict{
		Reason:        reason,
		NextValidDate: next.Date.ISO(),
		NextValidTime: next.Time.String(),
	}
}
