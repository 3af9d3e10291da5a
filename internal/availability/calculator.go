package availability

import (
	"sort"

	"github.com/clinicos/schedcore/internal/calendar"
	"github.com/clinicos/schedcore/internal/policy"
	"github.com/clinicos/schedcore/internal/schedule"
)

// DaySlots is the calculator's result for one date. OpenCount is the number
// of candidate slots that survived conflict exclusion but NOT yet the
// lead-time filter; the aggregator uses it to tell "blocked by lead time"
// apart from "doctor has nothing open today".
type DaySlots struct {
	Slots     []Slot
	OpenCount int
}

// ComputeDaySlots partitions the doctor's working-hour blocks for one date
// into fixed-duration candidate slots, removes those that collide with
// booked appointments, then keeps only the candidates the validator accepts
// under the policy. Slots are returned in ascending time order.
//
// A date strictly before now's date yields an empty result regardless of
// policy. No partial trailing slot is emitted when a block's length is not
// a multiple of slotMinutes.
func ComputeDaySlots(date calendar.Date, blocks []schedule.WorkingHourBlock, appts []schedule.Appointment, slotMinutes int, pol policy.BookingPolicy, now calendar.Moment) DaySlots {
	if slotMinutes <= 0 || date.Before(now.Date) {
		return DaySlots{}
	}

	var result DaySlots
	for i := range blocks {
		b := &blocks[i]
		if !b.Active {
			continue
		}
		for start := b.Start.MinuteOfDay(); start+slotMinutes <= b.End.MinuteOfDay(); start += slotMinutes {
			if occupied(appts, date, start, slotMinutes) {
				continue
			}
			result.OpenCount++
			slotStart := calendar.FromMinuteOfDay(start)
			if !Validate(date, slotStart, pol, now).IsValid {
				continue
			}
			result.Slots = append(result.Slots, Slot{
				Start: slotStart,
				End:   calendar.FromMinuteOfDay(start + slotMinutes),
			})
		}
	}

	sort.Slice(result.Slots, func(i, j int) bool {
		return result.Slots[i].Start.Before(result.Slots[j].Start)
	})
	return result
}

func occupied(appts []schedule.Appointment, date calendar.Date, startMinute, durationMinutes int) bool {
	for i := range appts {
		a := &appts[i]
		if a.Status.OccupiesSlot() && a.Date.Equal(date) && a.Overlaps(startMinute, durationMinutes) {
			return true
		}
	}
	return false
}
