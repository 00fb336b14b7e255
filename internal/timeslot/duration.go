package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Duration is a consultation length in minutes. Doctors configure it as an
// "HH:MM" string from a small fixed menu (00:10 through 01:00); it drives both
// the slot step and the derived appointment end time.
type Duration int

// ErrInvalidDuration is returned for zero, negative or malformed consultation
// durations. A zero step would make the slot walk never terminate, so it is
// rejected up front instead of being treated as "no duration".
var ErrInvalidDuration = errors.New("timeslot: invalid consultation duration")

// ParseDuration parses a doctor's "HH:MM" consultation duration.
func ParseDuration(s string) (Duration, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}
	parts := strings.SplitN(trimmed, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	total := hours*60 + minutes
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return Duration(total), nil
}

// Minutes returns the duration as an int minute count.
func (d Duration) Minutes() int { return int(d) }

// String renders the duration back in the configured "HH:MM" form.
func (d Duration) String() string {
	return fmt.Sprintf("%02d:%02d", int(d)/60, int(d)%60)
}
