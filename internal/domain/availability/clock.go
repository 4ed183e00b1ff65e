package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidClock is returned when a time of day is not HH:MM or HH:MM:SS
var ErrInvalidClock = errors.New("invalid time of day, use HH:MM or HH:MM:SS")

// Clock is a time of day stored as the offset from midnight
type Clock time.Duration

// ParseClock parses "15:04:05" or "15:04"
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewClock(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, ErrInvalidClock
}

// MustParseClock is ParseClock for constants and tests. It panics on bad input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// NewClock builds a clock from its components. Values are not range checked.
func NewClock(hour, minute, second int) Clock {
	return Clock(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// Hour returns the hour component, 0-23 for a valid clock
func (c Clock) Hour() int { return int(time.Duration(c) / time.Hour) }

// Minute returns the minute component
func (c Clock) Minute() int { return int(time.Duration(c)%time.Hour) / int(time.Minute) }

// Second returns the second component
func (c Clock) Second() int { return int(time.Duration(c)%time.Minute) / int(time.Second) }

// String formats the clock as HH:MM:SS, the layout of a postgres time column
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// On returns the instant of this clock on the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, day.Location())
}
