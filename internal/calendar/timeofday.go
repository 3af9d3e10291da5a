package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeFormat is returned when a time string is not a valid 24-hour
// HH:MM value.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// TimeOfDay is an hour/minute pair on a 24-hour clock, independent of any
// date or timezone.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay builds a TimeOfDay, rejecting out-of-range components.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeFormat, hour, minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// ParseTimeOfDay parses a strict HH:MM string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, ok1 := atoi(s[0:2])
	minute, ok2 := atoi(s[3:5])
	if !ok1 || !ok2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return NewTimeOfDay(hour, minute)
}

// TimeOfDayOf extracts the hour and minute components of t in t's own
// location, truncating seconds.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}
}

// FromMinuteOfDay converts minutes-since-midnight back to a TimeOfDay.
// Values outside [0, 1439] are clamped.
func FromMinuteOfDay(m int) TimeOfDay {
	if m < 0 {
		m = 0
	}
	if m > 23*60+59 {
		m = 23*60 + 59
	}
	return TimeOfDay{hour: m / 60, minute: m % 60}
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return t.hour }

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int { return t.minute }

// MinuteOfDay returns minutes since midnight.
func (t TimeOfDay) MinuteOfDay() int { return t.hour*60 + t.minute }

// String formats as 24-hour HH:MM.
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.hour, t.minute) }

// MarshalJSON encodes as an HH:MM string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a strict HH:MM string.
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return ErrInvalidTimeFormat
	}
	parsed, err := ParseTimeOfDay(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Compare returns -1, 0 or 1 ordering t against o within a day.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	a, b := t.MinuteOfDay(), o.MinuteOfDay()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }

// Moment pairs a Date with a TimeOfDay. It exists solely for lead-time
// comparisons; it is never persisted or displayed.
type Moment struct {
	Date Date
	Time TimeOfDay
}

// MomentOf extracts date and time-of-day components from t in t's own
// location.
func MomentOf(t time.Time) Moment {
	return Moment{Date: DateOf(t), Time: TimeOfDayOf(t)}
}

// totalMinutes maps the moment onto a single minute axis.
func (m Moment) totalMinutes() int {
	return m.Date.dayNumber()*24*60 + m.Time.MinuteOfDay()
}

// MinutesSince returns the signed number of whole minutes from o to m.
// Positive means m is in o's future. Pure integer arithmetic on the
// (day number, minute-of-day) tuple; no timestamps involved.
func (m Moment) MinutesSince(o Moment) int {
	return m.totalMinutes() - o.totalMinutes()
}

// AddMinutes returns the moment n minutes later, rolling over days as
// needed.
func (m Moment) AddMinutes(n int) Moment {
	total := m.totalMinutes() + n
	day := total / (24 * 60)
	minute := total % (24 * 60)
	if minute < 0 {
		minute += 24 * 60
		day--
	}
	return Moment{Date: fromDayNumber(day), Time: FromMinuteOfDay(minute)}
}

// After reports whether m is strictly later than o.
func (m Moment) After(o Moment) bool { return m.MinutesSince(o) > 0 }
