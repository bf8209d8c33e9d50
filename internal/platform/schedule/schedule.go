// Package schedule computes fixed digest send times from a compact spec
// string such as "09:00,21:00@Europe/Berlin".
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	// Embed tzdata for environments without zoneinfo.
	_ "time/tzdata"
)

const (
	minutesPerHour = 60
	maxHour        = 23
)

// Static errors for schedule validation.
var (
	ErrEmptySchedule = errors.New("schedule has no times")
	ErrTimeFormat    = errors.New("time must be HH:MM")
	ErrInvalidHour   = errors.New("invalid hour")
	ErrInvalidMinute = errors.New("invalid minute")
)

// Schedule defines digest send times in a timezone.
type Schedule struct {
	Location *time.Location

	// minutes past midnight, sorted ascending
	times []int
}

// Parse builds a schedule from "HH:MM[,HH:MM...][@Timezone]". An empty
// timezone means UTC.
func Parse(spec string) (*Schedule, error) {
	timesPart := spec

	loc := time.UTC

	if at := strings.LastIndex(spec, "@"); at >= 0 {
		tz := strings.TrimSpace(spec[at+1:])
		timesPart = spec[:at]

		var err error

		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
	}

	var times []int

	for _, raw := range strings.Split(timesPart, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		m, err := parseTime(raw)
		if err != nil {
			return nil, err
		}

		times = append(times, m)
	}

	if len(times) == 0 {
		return nil, ErrEmptySchedule
	}

	sort.Ints(times)

	return &Schedule{Location: loc, times: times}, nil
}

func parseTime(raw string) (int, error) {
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, raw)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > maxHour {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, raw)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute >= minutesPerHour {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinute, raw)
	}

	return hour*minutesPerHour + minute, nil
}

// NextRun returns the first scheduled time strictly after now.
func (s *Schedule) NextRun(now time.Time) time.Time {
	local := now.In(s.Location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Location)

	for _, m := range s.times {
		candidate := midnight.Add(time.Duration(m) * time.Minute)
		if candidate.After(now) {
			return candidate
		}
	}

	// All of today's times have passed, take the first one tomorrow.
	return midnight.AddDate(0, 0, 1).Add(time.Duration(s.times[0]) * time.Minute)
}

// Times renders the schedule back to "HH:MM" strings for logging.
func (s *Schedule) Times() []string {
	out := make([]string, 0, len(s.times))
	for _, m := range s.times {
		out = append(out, fmt.Sprintf("%02d:%02d", m/minutesPerHour, m%minutesPerHour))
	}

	return out
}
