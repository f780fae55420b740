package timeoff_test

import (
	"testing"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end generic.Date
		want       string
	}{
		{"single day", date(2025, time.March, 10), date(2025, time.March, 10), "1"},
		{"three days inclusive", date(2025, time.January, 1), date(2025, time.January, 3), "3"},
		{"weekend counted", date(2025, time.March, 7), date(2025, time.March, 10), "4"},
		{"leap february", date(2024, time.February, 28), date(2024, time.March, 1), "3"},
		{"across year end", date(2025, time.December, 30), date(2026, time.January, 2), "4"},
		{"whole year", date(2025, time.January, 1), date(2025, time.December, 31), "365"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := timeoff.CalculateDays(tc.start, tc.end)

			require.NoError(t, err)
			assert.True(t, got.Equal(days(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestCalculateDays_LongSpan(t *testing.T) {
	// GIVEN a range of several centuries
	start := date(1600, time.January, 1)
	end := date(2025, time.January, 1)

	// WHEN
	got, err := timeoff.CalculateDays(start, end)

	// THEN the inclusive count is exact
	require.NoError(t, err)
	assert.Equal(t, "155230", got.String())
}

func TestCalculateDays_EndBeforeStart(t *testing.T) {
	_, err := timeoff.CalculateDays(date(2025, time.March, 10), date(2025, time.March, 9))

	var rangeErr *generic.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
	assert.Equal(t, "2025-03-10", rangeErr.Start.String())
}
