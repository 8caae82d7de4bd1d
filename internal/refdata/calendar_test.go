package refdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T) *Calendar {
	t.Helper()
	cal, err := Load()
	require.NoError(t, err)
	return cal
}

func TestLoadEmbeddedCalendar(t *testing.T) {
	cal := mustLoad(t)

	assert.NotEmpty(t, cal.weeks)
	assert.NotEmpty(t, cal.mbm)
}

func TestWeekDate(t *testing.T) {
	cal := mustLoad(t)

	date, err := cal.WeekDate("1104")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC), date)

	date, err = cal.WeekDate("1209")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC), date)
}

func TestWeekDateUnknownKey(t *testing.T) {
	cal := mustLoad(t)

	_, err := cal.WeekDate("0101")
	require.Error(t, err)

	var unknown *ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "week", unknown.Kind)
	assert.Equal(t, "0101", unknown.Key)
}

func TestWeekKeyFor(t *testing.T) {
	cal := mustLoad(t)

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "monday maps to its own week",
			date:     time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC),
			expected: "1209",
		},
		{
			name:     "mid-week maps to the preceding monday",
			date:     time.Date(2024, 12, 12, 0, 0, 0, 0, time.UTC),
			expected: "1209",
		},
		{
			name:     "sunday still belongs to the week started six days earlier",
			date:     time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC),
			expected: "1104",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := cal.WeekKeyFor(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestWeekKeyForBeforeCalendarStart(t *testing.T) {
	cal := mustLoad(t)

	_, err := cal.WeekKeyFor(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)

	var unknown *ErrUnknownKey
	assert.ErrorAs(t, err, &unknown)
}

func TestMBMEvent(t *testing.T) {
	cal := mustLoad(t)

	ev, err := cal.MBMEvent("mbm-2024-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), ev.Date)
	assert.Equal(t, "12월 MBM", ev.Label)

	_, err = cal.MBMEvent("mbm-2023-01")
	assert.Error(t, err)
}

func TestMBMEventsSortedChronologically(t *testing.T) {
	cal := mustLoad(t)

	events := cal.MBMEvents()
	require.NotEmpty(t, events)

	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].Date.Before(events[i].Date),
			"events must be sorted: %s before %s", events[i-1].Key, events[i].Key)
	}
}

func TestLoadFromRejectsInvalidDates(t *testing.T) {
	_, err := loadFrom([]byte("weeks:\n  \"0101\": \"not-a-date\"\n"))
	assert.Error(t, err)
}
