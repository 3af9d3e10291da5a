package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateValid(t *testing.T) {
	tests := []struct {
		iso     string
		y, m, d int
	}{
		{"2026-01-01", 2026, 1, 1},
		{"2024-02-29", 2024, 2, 29}, // leap year
		{"2000-02-29", 2000, 2, 29}, // 400-year leap
		{"1999-12-31", 1999, 12, 31},
		{"2026-08-26", 2026, 8, 26},
	}
	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			d, err := ParseDate(tt.iso)
			if err != nil {
				t.Fatalf("ParseDate(%q) returned error: %v", tt.iso, err)
			}
			assert.Equal(t, tt.y, d.Year())
			assert.Equal(t, tt.m, d.Month())
			assert.Equal(t, tt.d, d.Day())
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	invalid := []string{
		"",
		"2026-2-03",   // month not zero-padded
		"2026/02/03",  // wrong separator
		"20260203",    // no separators
		"2026-02-30",  // February 30
		"2023-02-29",  // not a leap year
		"1900-02-29",  // century non-leap
		"2026-13-01",  // month out of range
		"2026-00-10",  // month zero
		"2026-04-31",  // April has 30 days
		"2026-01-00",  // day zero
		"0000-01-01",  // year zero
		"2026-01-01x", // trailing garbage
		"abcd-ef-gh",
		"2026-01-01T00:00:00Z", // timestamps are rejected, not coerced
	}
	for _, s := range invalid {
		t.Run(s, func(t *testing.T) {
			_, err := ParseDate(s)
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Fatalf("ParseDate(%q): expected ErrInvalidDateFormat, got %v", s, err)
			}
		})
	}
}

func TestISORoundTrip(t *testing.T) {
	dates := []string{"2026-01-01", "2024-02-29", "2026-08-26", "1970-01-01", "2099-12-31"}
	for _, iso := range dates {
		d, err := ParseDate(iso)
		if err != nil {
			t.Fatalf("parse %q: %v", iso, err)
		}
		assert.Equal(t, iso, d.ISO())
		back, err := ParseDate(d.ISO())
		if err != nil {
			t.Fatalf("re-parse %q: %v", d.ISO(), err)
		}
		assert.True(t, d.Equal(back))
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2026-08-26", 0, "2026-08-26"},
		{"2026-08-26", 1, "2026-08-27"},
		{"2026-08-31", 1, "2026-09-01"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2026-01-01", -1, "2025-12-31"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2026-08-26", 365, "2027-08-26"},
		{"2024-01-01", 366, "2025-01-01"}, // leap year spans
		{"2026-08-26", -1000, "2023-11-30"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			d, err := ParseDate(tt.start)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			assert.Equal(t, tt.want, d.AddDays(tt.n).ISO())
		})
	}
}

// Cross-check day arithmetic and weekday names against the standard library
// over a long range. time.Date is used only as a test oracle here.
func TestDayArithmeticMatchesStdlib(t *testing.T) {
	start, _ := ParseDate("2019-12-25")
	oracle := time.Date(2019, 12, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3000; i++ {
		d := start.AddDays(i)
		o := oracle.AddDate(0, 0, i)
		if d.ISO() != o.Format("2006-01-02") {
			t.Fatalf("day %d: got %s want %s", i, d.ISO(), o.Format("2006-01-02"))
		}
		if d.DayName() != o.Weekday().String() {
			t.Fatalf("weekday of %s: got %s want %s", d.ISO(), d.DayName(), o.Weekday())
		}
	}
}

// A date must come out identical no matter which host offset produced the
// wall-clock reading. This is the regression the whole package exists for.
func TestNoTimezoneDrift(t *testing.T) {
	offsets := []int{-12, -7, -1, 0, 1, 5, 14}
	for _, hours := range offsets {
		loc := time.FixedZone("test", hours*3600)
		// Same wall-clock components in every zone.
		wall := time.Date(2026, 3, 8, 23, 30, 0, 0, loc)
		d := DateOf(wall)
		assert.Equal(t, "2026-03-08", d.ISO(), "offset %+dh", hours)
		assert.Equal(t, "Sunday", d.DayName(), "offset %+dh", hours)
		assert.True(t, d.AddDays(0).Equal(d))
	}
}

func TestTodayUsesLocation(t *testing.T) {
	// 2026-08-26 01:30 UTC is still 2026-08-25 in New York (-4h during DST).
	now := time.Date(2026, 8, 26, 1, 30, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	assert.Equal(t, "2026-08-25", Today(now, ny).ISO())
	assert.Equal(t, "2026-08-26", Today(now, time.UTC).ISO())
	assert.Equal(t, "2026-08-26", Today(now, nil).ISO())
}

func TestCompareAndOrdering(t *testing.T) {
	a, _ := ParseDate("2026-08-25")
	b, _ := ParseDate("2026-08-26")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

func TestNewDateEqualityFromSameComponents(t *testing.T) {
	a, err := NewDate(2026, 8, 26)
	if err != nil {
		t.Fatalf("NewDate: %v", err)
	}
	b, _ := NewDate(2026, 8, 26)
	p, _ := ParseDate("2026-08-26")
	assert.Equal(t, a, b)
	assert.Equal(t, a, p)
}

func TestDateJSON(t *testing.T) {
	d, _ := ParseDate("2026-08-26")
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	assert.Equal(t, `"2026-08-26"`, string(data))

	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assert.True(t, d.Equal(back))

	var bad Date
	if err := bad.UnmarshalJSON([]byte(`"2026-02-30"`)); !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestIsZero(t *testing.T) {
	var zero Date
	assert.True(t, zero.IsZero())
	d, _ := ParseDate("2026-08-26")
	assert.False(t, d.IsZero())
}
