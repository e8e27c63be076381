package timing

import (
	"fmt"
	"time"
)

// DayTime is a time of day (hour, minute, second) without a date.
type DayTime struct {
	hour   int
	minute int
	second int
}

// NewDayTime builds a DayTime, rejecting out-of-range components.
func NewDayTime(hour, minute, second int) (DayTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return DayTime{}, fmt.Errorf("%w: %02d:%02d:%02d is not a valid time of day", ErrInvalidValue, hour, minute, second)
	}
	return DayTime{hour: hour, minute: minute, second: second}, nil
}

// ParseDayTime parses a time-of-day string using the given layout
// ("" means DayTimeLayout).
func ParseDayTime(layout, value string) (DayTime, error) {
	if layout == "" {
		layout = DayTimeLayout
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return DayTime{}, fmt.Errorf("%w: parse time of day %q: %v", ErrInvalidValue, value, err)
	}
	return DayTime{hour: t.Hour(), minute: t.Minute(), second: t.Second()}, nil
}

func (t DayTime) Hour() int   { return t.hour }
func (t DayTime) Minute() int { return t.minute }
func (t DayTime) Second() int { return t.second }

// Seconds returns the total seconds since midnight.
func (t DayTime) Seconds() int {
	return t.hour*3600 + t.minute*60 + t.second
}

func (t DayTime) Equal(o DayTime) bool  { return t == o }
func (t DayTime) Before(o DayTime) bool { return t.Seconds() < o.Seconds() }
func (t DayTime) After(o DayTime) bool  { return t.Seconds() > o.Seconds() }

// Format renders the time of day with the given layout ("" means DayTimeLayout).
func (t DayTime) Format(layout string) string {
	if layout == "" {
		layout = DayTimeLayout
	}
	ref := time.Date(0, 1, 1, t.hour, t.minute, t.second, 0, time.UTC)
	return ref.Format(layout)
}

func (t DayTime) String() string { return t.Format(DayTimeLayout) }
