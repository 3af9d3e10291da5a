// Package calendar provides timezone-free civil date and time-of-day values.
//
// Appointment dates are pure (year, month, day) triples. They are never
// represented as timestamps: round-tripping a calendar date through a
// timezone-aware type shifts it by a day for hosts whose offset straddles
// midnight UTC. All arithmetic here works on the integer components directly.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateFormat is returned when a date string is not a valid
// YYYY-MM-DD calendar date.
var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// Date is an immutable calendar date with no time-of-day or timezone
// component. The zero value is not a valid date; use ParseDate or NewDate.
type Date struct {
	year  int
	month int
	day   int
}

// NewDate builds a Date from integer components, rejecting impossible dates
// (Feb 30, month 13, year 0).
func NewDate(year, month, day int) (Date, error) {
	if year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("%w: year %d out of range", ErrInvalidDateFormat, year)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d out of range", ErrInvalidDateFormat, month)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return Date{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDateFormat, day, year, month)
	}
	return Date{year: year, month: month, day: day}, nil
}

// ParseDate parses a strict ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	year, ok1 := atoi(s[0:4])
	month, ok2 := atoi(s[5:7])
	day, ok3 := atoi(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	d, err := NewDate(year, month, day)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return d, nil
}

// DateOf extracts the calendar date from the wall-clock components of t, in
// t's own location. Callers decide the location (typically the org timezone)
// before calling; DateOf never converts.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: int(m), day: d}
}

// Today returns the current calendar date for the given location, derived
// from an explicitly supplied clock reading.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// Year returns the year component.
func (d Date) Year() int { return d.year }

// Month returns the month component (1-12).
func (d Date) Month() int { return d.month }

// Day returns the day-of-month component.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the uninitialized zero value.
func (d Date) IsZero() bool { return d.year == 0 }

// ISO formats the date as YYYY-MM-DD. ParseDate(d.ISO()) == d for every
// valid date.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// String implements fmt.Stringer.
func (d Date) String() string { return d.ISO() }

// MarshalJSON encodes the date as an ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

// UnmarshalJSON decodes a strict ISO date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return ErrInvalidDateFormat
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AddDays returns the date n calendar days after d (or before, for negative
// n). The arithmetic runs on proleptic-Gregorian day numbers; no timestamp
// is constructed at any point.
func (d Date) AddDays(n int) Date {
	return fromDayNumber(d.dayNumber() + n)
}

// Compare returns -1, 0 or 1 ordering d against o.
func (d Date) Compare(o Date) int {
	a, b := d.dayNumber(), o.dayNumber()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool { return d == o }

// Weekday returns the day of week, 0=Sunday through 6=Saturday.
func (d Date) Weekday() int {
	// 1970-01-01 (day number 0) was a Thursday.
	wd := (d.dayNumber() + 4) % 7
	if wd < 0 {
		wd += 7
	}
	return wd
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the English weekday name, computed from the date
// components alone.
func (d Date) DayName() string { return dayNames[d.Weekday()] }

// dayNumber converts d to days since the Unix epoch using the civil-calendar
// algorithm over 400-year eras.
func (d Date) dayNumber() int {
	y := d.year
	if d.month <= 2 {
		y--
	}
	era := y / 400
	yoe := y - era*400
	var doy int
	if d.month > 2 {
		doy = (153*(d.month-3)+2)/5 + d.day - 1
	} else {
		doy = (153*(d.month+9)+2)/5 + d.day - 1
	}
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func fromDayNumber(n int) Date {
	z := n + 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if mp >= 10 {
		month = mp - 9
		y++
	}
	return Date{year: y, month: month, day: day}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeap(year) {
			return 29
		}
		return 28
	}
}

// atoi parses a fixed-width decimal string without sign or whitespace
// tolerance, unlike strconv.Atoi.
func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
