package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var defaultThresholds = Thresholds{LowMaxSlots: 2, MediumMaxSlots: 5}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		count int
		want  Level
	}{
		{0, LevelNone},
		{1, LevelLow},
		{2, LevelLow},
		{3, LevelMedium},
		{5, LevelMedium},
		{6, LevelHigh},
		{20, LevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.count, 2, 5), "count %d", tt.count)
	}
}

func TestAggregateDayCoherence(t *testing.T) {
	today := mustDate(t, "2026-09-07")

	days := []DaySlots{
		{},
		{OpenCount: 6},
		{Slots: []Slot{{Start: mustTime(t, "09:00"), End: mustTime(t, "09:30")}}, OpenCount: 6},
		{Slots: make([]Slot, 7), OpenCount: 7},
	}
	for _, day := range days {
		out := AggregateDay(today.AddDays(1), day, today, defaultThresholds)
		assert.Equal(t, len(day.Slots), out.SlotsCount)
		// slotsCount == 0 iff level == none iff blocked, always.
		assert.Equal(t, out.SlotsCount == 0, out.IsBlocked)
		assert.Equal(t, out.SlotsCount == 0, out.Level == LevelNone)
	}
}

func TestAggregateDayBlockReasons(t *testing.T) {
	today := mustDate(t, "2026-09-07")

	t.Run("past date", func(t *testing.T) {
		out := AggregateDay(today.AddDays(-1), DaySlots{}, today, defaultThresholds)
		assert.True(t, out.IsBlocked)
		assert.Equal(t, ReasonPastDate, out.BlockReason)
	})

	t.Run("past date wins even with open candidates", func(t *testing.T) {
		out := AggregateDay(today.AddDays(-1), DaySlots{OpenCount: 4}, today, defaultThresholds)
		assert.Equal(t, ReasonPastDate, out.BlockReason)
	})

	t.Run("lead time filtered everything", func(t *testing.T) {
		out := AggregateDay(today, DaySlots{OpenCount: 6}, today, defaultThresholds)
		assert.True(t, out.IsBlocked)
		assert.Equal(t, ReasonAdvanceNotice, out.BlockReason)
	})

	t.Run("doctor has nothing open", func(t *testing.T) {
		out := AggregateDay(today.AddDays(2), DaySlots{}, today, defaultThresholds)
		assert.True(t, out.IsBlocked)
		assert.Empty(t, out.BlockReason)
	})

	t.Run("open day carries no reason", func(t *testing.T) {
		out := AggregateDay(today.AddDays(2), DaySlots{Slots: make([]Slot, 3), OpenCount: 6}, today, defaultThresholds)
		assert.False(t, out.IsBlocked)
		assert.Empty(t, out.BlockReason)
		assert.Equal(t, LevelMedium, out.Level)
	})
}

func TestAggregateDayMetadata(t *testing.T) {
	today := mustDate(t, "2026-09-07")
	out := AggregateDay(today.AddDays(1), DaySlots{}, today, defaultThresholds)
	assert.Equal(t, "2026-09-08", out.Date.ISO())
	assert.Equal(t, "Tuesday", out.DayName)
	assert.NotNil(t, out.Slots, "slots must encode as [] not null")
}

func TestUnavailableDay(t *testing.T) {
	out := UnavailableDay(mustDate(t, "2026-09-10"))
	assert.True(t, out.IsBlocked)
	assert.Equal(t, LevelNone, out.Level)
	assert.Equal(t, ReasonUnavailable, out.BlockReason)
	assert.Zero(t, out.SlotsCount)
	assert.NotNil(t, out.Slots)
}
