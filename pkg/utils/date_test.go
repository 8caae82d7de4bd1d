package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-12-27")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC), *date)

	date, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, date.IsZero())

	_, err = ParseDate("27/12/2024")
	assert.Error(t, err)
}

func TestResolveTargetMonth(t *testing.T) {
	// Anchored in December 2024.
	now := time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		target        string
		expectedYear  int
		expectedMonth time.Month
	}{
		{name: "full date keeps its own year", target: "2024-03-15", expectedYear: 2024, expectedMonth: time.March},
		{name: "year-month keeps its own year", target: "2024-02", expectedYear: 2024, expectedMonth: time.February},
		{name: "bare month before current rolls over", target: "2", expectedYear: 2025, expectedMonth: time.February},
		{name: "korean month label rolls over", target: "2월", expectedYear: 2025, expectedMonth: time.February},
		{name: "current month stays this year", target: "12월", expectedYear: 2024, expectedMonth: time.December},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, err := ResolveTargetMonth(tt.target, now)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedYear, year)
			assert.Equal(t, tt.expectedMonth, month)
		})
	}
}

func TestResolveTargetMonthMidYearAnchor(t *testing.T) {
	// Anchored in June: May rolls over, July does not.
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	year, month, err := ResolveTargetMonth("5월", now)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.May, month)

	year, month, err = ResolveTargetMonth("7월", now)
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.July, month)
}

func TestResolveTargetMonthInvalid(t *testing.T) {
	now := time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC)

	for _, target := range []string{"", "0", "13", "내년", "13월"} {
		_, _, err := ResolveTargetMonth(target, now)
		assert.Error(t, err, "target %q", target)
	}
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 55.33, RoundWithTwoDecimalPlace(55.3333))
	assert.Equal(t, 55.34, RoundWithTwoDecimalPlace(55.335))
}
