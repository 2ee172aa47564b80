package cli

import (
	"errors"
	"strings"
	"testing"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduleYAML(t *testing.T) {
	doc := `
start_time: "2025-01-01T08:00:00Z"
cycle_hours_used: 12.5
activities:
  - status: D
    duration_hours: 5
    miles: 250
    note: Start → Pickup
  - status: on_duty
    duration_hours: 1
    note: Pickup
  - status: OFF
    duration_hours: 0
`
	got, err := ParseSchedule(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), got.StartTime)
	assert.Equal(t, 12.5, got.CycleHoursUsed)

	want := []domain.Activity{
		{Status: domain.Driving, DurationHours: 5, Miles: 250, Note: "Start → Pickup"},
		{Status: domain.OnDutyNotDriving, DurationHours: 1, Note: "Pickup"},
		{Status: domain.OffDuty, DurationHours: 0},
	}
	if diff := cmp.Diff(want, got.Activities); diff != "" {
		t.Fatalf("activities mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScheduleJSON(t *testing.T) {
	doc := `{"start_time": "2025-01-01T08:00:00", "activities": [{"status": "driving", "duration_hours": 2.5, "miles": 120}]}`

	got, err := ParseSchedule(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, got.Activities, 1)
	assert.Equal(t, 2.5, got.Activities[0].DurationHours)
	assert.Equal(t, time.UTC, got.StartTime.Location())
}

func TestParseScheduleInvalid(t *testing.T) {
	tests := map[string]string{
		"missing start":    `activities: []`,
		"bad status":       "start_time: 2025-01-01T08:00:00Z\nactivities:\n  - status: lunch\n    duration_hours: 1\n",
		"missing duration": "start_time: 2025-01-01T08:00:00Z\nactivities:\n  - status: D\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSchedule(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestParseScheduleUnknownField(t *testing.T) {
	_, err := ParseSchedule(strings.NewReader("start_time: 2025-01-01T08:00:00Z\ndriver: bob\n"))
	assert.Error(t, err)
}

func TestParseCoordinates(t *testing.T) {
	c, err := ParseCoordinates("from", " 40.7128 , -74.0060 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 40.7128, Lon: -74.006}, c)

	for _, in := range []string{"40.7", "abc,def", "91,0", ""} {
		_, err := ParseCoordinates("from", in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "input %q: %v", in, err)
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("to", "34.0522,-118.2437")
	require.NoError(t, err)
	assert.False(t, loc.NeedsGeocoding)
	assert.Equal(t, 34.0522, loc.Lat)

	loc, err = ParseLocation("to", "Los Angeles, CA")
	require.NoError(t, err)
	assert.True(t, loc.NeedsGeocoding)
	assert.Equal(t, "Los Angeles, CA", loc.Address)

	_, err = ParseLocation("to", "100,200")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ParseLocation("to", " ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
