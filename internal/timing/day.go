package timing

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidValue is returned when components or a string do not form a valid
// calendar date or time of day.
var ErrInvalidValue = errors.New("invalid calendar value")

// Default layouts, in time.Parse reference form.
const (
	DayLayout     = "2006-01-02"
	DayTimeLayout = "15:04:05"
	MomentLayout  = "2006-01-02 15:04:05"
)

// Day is a calendar date with no time-of-day component.
type Day struct {
	t time.Time
}

// NewDay builds a Day from its components. Month 13, Feb 30 and friends are
// rejected rather than normalized.
func NewDay(year, month, day int) (Day, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Day{}, fmt.Errorf("%w: %04d-%02d-%02d is not a real date", ErrInvalidValue, year, month, day)
	}
	return Day{t: t}, nil
}

// Today returns the current local calendar date.
func Today() Day {
	now := time.Now()
	return Day{t: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)}
}

// DayOf truncates a time.Time to its calendar date.
func DayOf(t time.Time) Day {
	return Day{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)}
}

// ParseDay parses a date string using the given layout ("" means DayLayout).
func ParseDay(layout, value string) (Day, error) {
	if layout == "" {
		layout = DayLayout
	}
	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return Day{}, fmt.Errorf("%w: parse day %q: %v", ErrInvalidValue, value, err)
	}
	return DayOf(t), nil
}

func (d Day) Year() int           { return d.t.Year() }
func (d Day) Month() time.Month   { return d.t.Month() }
func (d Day) Day() int            { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns a new Day n days later (earlier for negative n).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }

// IsZero reports whether d is the zero value rather than a constructed date.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Format renders the date with the given layout ("" means DayLayout).
func (d Day) Format(layout string) string {
	if layout == "" {
		layout = DayLayout
	}
	return d.t.Format(layout)
}

func (d Day) String() string { return d.Format(DayLayout) }

// Time returns the underlying midnight time.Time for interop.
func (d Day) Time() time.Time { return d.t }
