package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TTL bounds, in seconds.
const (
	MinTTLSeconds = 1
	MaxTTLSeconds = 7 * secondsPerDay

	secondsPerDay = 24 * 60 * 60
	day           = 24 * time.Hour
)

// ErrInvalidTTL is returned for TTLs outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// FormatDuration renders d with at most two units: "45s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < day:
		return joinUnits(int(d/time.Hour), "h", int(d%time.Hour/time.Minute), "m")
	default:
		return joinUnits(int(d/day), "d", int(d%day/time.Hour), "h")
	}
}

func joinUnits(major int, majorUnit string, minor int, minorUnit string) string {
	if minor == 0 {
		return strconv.Itoa(major) + majorUnit
	}
	return fmt.Sprintf("%d%s%d%s", major, majorUnit, minor, minorUnit)
}

// ParseTTL parses whole seconds ("3600"), a Go duration ("90m") or a day
// count ("2d") and returns whole seconds.
func ParseTTL(s string) (int, error) {
	s = strings.TrimSpace(s)

	var seconds int
	switch n, err := strconv.Atoi(s); {
	case err == nil:
		seconds = n
	case strings.HasSuffix(s, "d"):
		days, dayErr := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if dayErr != nil {
			return 0, fmt.Errorf("invalid TTL format %q", s)
		}
		seconds = days * secondsPerDay
	default:
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", durErr)
		}
		seconds = int(d / time.Second)
	}

	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}
