package timeslot

import (
	"encoding/json"
	"fmt"
	"time"
)

// Window is a single operating-hour range within one day.
type Window struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// WeekTimings maps weekday names ("Monday".."Sunday") to the operating-hour
// windows configured for that day. This is the JSON shape stored on each
// doctor-establishment relation and replaced wholesale on update.
type WeekTimings map[string][]Window

// ParseWeekTimings decodes the stored timings JSON. A nil or empty document
// yields an empty schedule rather than an error.
func ParseWeekTimings(raw []byte) (WeekTimings, error) {
	if len(raw) == 0 {
		return WeekTimings{}, nil
	}
	var wt WeekTimings
	if err := json.Unmarshal(raw, &wt); err != nil {
		return nil, fmt.Errorf("timeslot: decode timings: %w", err)
	}
	if wt == nil {
		wt = WeekTimings{}
	}
	return wt, nil
}

// ForDate returns the windows configured for the date's weekday.
func (wt WeekTimings) ForDate(date time.Time) []Window {
	if wt == nil {
		return nil
	}
	return wt[date.Weekday().String()]
}
