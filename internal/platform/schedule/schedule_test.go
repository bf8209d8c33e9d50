package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := Parse("21:00,09:00")
	require.NoError(t, err)

	assert.Equal(t, time.UTC, s.Location)
	assert.Equal(t, []string{"09:00", "21:00"}, s.Times())
}

func TestParse_WithTimezone(t *testing.T) {
	s, err := Parse("09:30@Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", s.Location.String())
	assert.Equal(t, []string{"09:30"}, s.Times())
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		spec string
		want error
	}{
		{name: "empty", spec: "", want: ErrEmptySchedule},
		{name: "missing colon", spec: "0900", want: ErrTimeFormat},
		{name: "hour out of range", spec: "24:00", want: ErrInvalidHour},
		{name: "minute out of range", spec: "09:60", want: ErrInvalidMinute},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.spec)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParse_BadTimezone(t *testing.T) {
	_, err := Parse("09:00@Nowhere/Nothing")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	s, err := Parse("09:00,21:00")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC), s.NextRun(now))

	late := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), s.NextRun(late))
}

func TestNextRun_ExactBoundaryMovesForward(t *testing.T) {
	s, err := Parse("09:00")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), s.NextRun(now))
}
