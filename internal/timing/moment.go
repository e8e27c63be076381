package timing

import (
	"fmt"
	"time"
)

// Moment is a calendar date plus a time of day, naive local time.
//
// Moments are ordered chronologically. A Moment can also act as a duration
// container for Periodic offsets; see SpanSeconds.
type Moment struct {
	t time.Time
}

// NewMoment builds a Moment from components, rejecting anything that is not a
// real date/time combination.
func NewMoment(year, month, day, hour, minute, second int) (Moment, error) {
	d, err := NewDay(year, month, day)
	if err != nil {
		return Moment{}, err
	}
	tod, err := NewDayTime(hour, minute, second)
	if err != nil {
		return Moment{}, err
	}
	return At(d, tod), nil
}

// At combines a Day and a DayTime into a Moment.
func At(day Day, tod DayTime) Moment {
	return Moment{t: time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, time.Local)}
}

// Now returns the current local date and time, truncated to whole seconds.
func Now() Moment {
	return MomentOf(time.Now())
}

// MomentOf truncates a time.Time to second precision and drops its location.
func MomentOf(t time.Time) Moment {
	return Moment{t: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)}
}

// ParseMoment parses a date-time string using the given layout
// ("" means MomentLayout).
func ParseMoment(layout, value string) (Moment, error) {
	if layout == "" {
		layout = MomentLayout
	}
	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return Moment{}, fmt.Errorf("%w: parse moment %q: %v", ErrInvalidValue, value, err)
	}
	return MomentOf(t), nil
}

func (m Moment) Day() Day { return DayOf(m.t) }

func (m Moment) DayTime() DayTime {
	return DayTime{hour: m.t.Hour(), minute: m.t.Minute(), second: m.t.Second()}
}

func (m Moment) Weekday() time.Weekday { return m.t.Weekday() }

// AddSeconds returns a new Moment n seconds later, carrying correctly across
// day, month and year boundaries (leap years included).
func (m Moment) AddSeconds(n int64) Moment {
	return Moment{t: m.t.Add(time.Duration(n) * time.Second)}
}

// SpanSeconds decodes the Moment as a best-effort duration: years count 365
// days from 1970 and months count 30 days, regardless of the actual calendar.
// This is deliberately naive and exists only so a Moment can carry a Periodic
// offset; use Sub for calendar-accurate differences.
func (m Moment) SpanSeconds() int64 {
	days := int64(m.t.Year()-1970)*365 + int64(m.t.Month()-1)*30 + int64(m.t.Day()-1)
	return days*86400 + int64(m.t.Hour())*3600 + int64(m.t.Minute())*60 + int64(m.t.Second())
}

// AddSpan returns a new Moment advanced by the naive duration encoded in span.
func (m Moment) AddSpan(span Moment) Moment {
	return m.AddSeconds(span.SpanSeconds())
}

// DaySpan encodes a whole number of days as an offset Moment, the inverse of
// SpanSeconds for day-granular values. Supported range is 1..359 days.
func DaySpan(days int) (Moment, error) {
	if days < 1 || days > 359 {
		return Moment{}, fmt.Errorf("%w: day span %d out of range [1,359]", ErrInvalidValue, days)
	}
	m, err := NewMoment(1970, days/30+1, days%30+1, 0, 0, 0)
	if err != nil {
		// 58 and 59 decode to Feb 29/30 of 1970, which are not real dates
		return Moment{}, fmt.Errorf("%w: day span %d has no offset encoding", ErrInvalidValue, days)
	}
	return m, nil
}

// Sub returns the elapsed seconds from o to m (negative when m is earlier).
func (m Moment) Sub(o Moment) int64 {
	return int64(m.t.Sub(o.t) / time.Second)
}

func (m Moment) Equal(o Moment) bool  { return m.t.Equal(o.t) }
func (m Moment) Before(o Moment) bool { return m.t.Before(o.t) }
func (m Moment) After(o Moment) bool  { return m.t.After(o.t) }

// IsZero reports whether m is the zero value rather than a constructed Moment.
func (m Moment) IsZero() bool { return m.t.IsZero() }

// Format renders the Moment with the given layout ("" means MomentLayout).
func (m Moment) Format(layout string) string {
	if layout == "" {
		layout = MomentLayout
	}
	return m.t.Format(layout)
}

func (m Moment) String() string { return m.Format(MomentLayout) }

// Time returns the underlying time.Time for interop.
func (m Moment) Time() time.Time { return m.t }
