package timelapse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Settings holds the sampling interval and total session duration.
// Both are whole, positive seconds.
type Settings struct {
	Interval time.Duration
	Duration time.Duration
}

// DefaultSettings matches the values the recorder starts with.
func DefaultSettings() Settings {
	return Settings{Interval: time.Second, Duration: 10 * time.Second}
}

// maxSeconds is the largest whole-second count a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// SettingsFromSeconds builds Settings from integer seconds.
func SettingsFromSeconds(interval, duration int) (Settings, error) {
	if int64(interval) > maxSeconds || int64(duration) > maxSeconds {
		return Settings{}, fmt.Errorf("%w: at most %d seconds are supported", ErrInvalidSettings, maxSeconds)
	}
	s := Settings{
		Interval: time.Duration(interval) * time.Second,
		Duration: time.Duration(duration) * time.Second,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ParseSettings parses user-entered interval and duration text.
func ParseSettings(intervalText, durationText string) (Settings, error) {
	interval, err := parsePositiveSeconds("interval", intervalText)
	if err != nil {
		return Settings{}, err
	}
	duration, err := parsePositiveSeconds("duration", durationText)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFromSeconds(interval, duration)
}

// Validate reports ErrInvalidSettings unless both values are positive whole seconds.
func (s Settings) Validate() error {
	if s.Interval <= 0 || s.Interval%time.Second != 0 {
		return fmt.Errorf("%w: interval %v must be a positive number of seconds", ErrInvalidSettings, s.Interval)
	}
	if s.Duration <= 0 || s.Duration%time.Second != 0 {
		return fmt.Errorf("%w: duration %v must be a positive number of seconds", ErrInvalidSettings, s.Duration)
	}
	return nil
}

// IntervalSeconds returns the interval in whole seconds.
func (s Settings) IntervalSeconds() int { return int(s.Interval / time.Second) }

// DurationSeconds returns the duration in whole seconds.
func (s Settings) DurationSeconds() int { return int(s.Duration / time.Second) }

// ExpectedFrames is the number of samples a session running to completion
// takes when every capture is instantaneous.
func (s Settings) ExpectedFrames() int {
	if s.Interval <= 0 {
		return 0
	}
	n := int(s.Duration / s.Interval)
	if s.Duration%s.Interval != 0 {
		n++
	}
	return n
}

func parsePositiveSeconds(field, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a whole number", ErrInvalidSettings, field, text)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidSettings, field, v)
	}
	if int64(v) > maxSeconds {
		return 0, fmt.Errorf("%w: %s must be at most %d seconds, got %d", ErrInvalidSettings, field, maxSeconds, v)
	}
	return v, nil
}
