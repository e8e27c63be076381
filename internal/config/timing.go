package config

import (
	"fmt"

	"yasched/internal/timing"
)

// DayFrom builds a timing.Day from a mapping node. Accepted forms:
// a date string (optionally with a layout), or year/month/day components.
func DayFrom(n Node) (timing.Day, error) {
	if n.Has(keyDate) {
		s, err := n.String(keyDate)
		if err != nil {
			return timing.Day{}, err
		}
		return timing.ParseDay(n.StringOr(keyDayLayout, ""), s)
	}
	if n.Has(keyYear) && n.Has(keyMonth) && n.Has(keyDay) {
		year, err := n.Int(keyYear)
		if err != nil {
			return timing.Day{}, err
		}
		month, err := n.Int(keyMonth)
		if err != nil {
			return timing.Day{}, err
		}
		day, err := n.Int(keyDay)
		if err != nil {
			return timing.Day{}, err
		}
		return timing.NewDay(year, month, day)
	}
	return timing.Day{}, fmt.Errorf("%w: day needs either %q or %q/%q/%q", ErrFormat, keyDate[0], keyYear[0], keyMonth[0], keyDay[0])
}

// DayTimeFrom builds a timing.DayTime from a mapping node. Accepted forms:
// a time string (optionally with a layout), or hour/minute/second components
// which all default to zero.
func DayTimeFrom(n Node) (timing.DayTime, error) {
	if n.Has(keyTime) {
		s, err := n.String(keyTime)
		if err != nil {
			return timing.DayTime{}, err
		}
		return timing.ParseDayTime(n.StringOr(keyTimeLayout, ""), s)
	}
	hour, err := n.IntOr(keyHour, 0)
	if err != nil {
		return timing.DayTime{}, err
	}
	minute, err := n.IntOr(keyMinute, 0)
	if err != nil {
		return timing.DayTime{}, err
	}
	second, err := n.IntOr(keySecond, 0)
	if err != nil {
		return timing.DayTime{}, err
	}
	return timing.NewDayTime(hour, minute, second)
}

// MomentFrom builds a timing.Moment from a mapping node. Accepted forms:
// a datetime string, a date part plus a daytime part (each its own node),
// or year/month/day components with hour/minute/second defaulting to zero.
func MomentFrom(n Node) (timing.Moment, error) {
	if n.Has(keyDateTime) {
		s, err := n.String(keyDateTime)
		if err != nil {
			return timing.Moment{}, err
		}
		return timing.ParseMoment(n.StringOr(keyTimeLayout, ""), s)
	}
	if n.Has(keyDayPart) && n.Has(keyTimePart) {
		dayNode, err := n.Child(keyDayPart)
		if err != nil {
			return timing.Moment{}, err
		}
		todNode, err := n.Child(keyTimePart)
		if err != nil {
			return timing.Moment{}, err
		}
		day, err := DayFrom(dayNode)
		if err != nil {
			return timing.Moment{}, err
		}
		tod, err := DayTimeFrom(todNode)
		if err != nil {
			return timing.Moment{}, err
		}
		return timing.At(day, tod), nil
	}
	if n.Has(keyYear) && n.Has(keyMonth) && n.Has(keyDay) {
		year, err := n.Int(keyYear)
		if err != nil {
			return timing.Moment{}, err
		}
		month, err := n.Int(keyMonth)
		if err != nil {
			return timing.Moment{}, err
		}
		day, err := n.Int(keyDay)
		if err != nil {
			return timing.Moment{}, err
		}
		hour, err := n.IntOr(keyHour, 0)
		if err != nil {
			return timing.Moment{}, err
		}
		minute, err := n.IntOr(keyMinute, 0)
		if err != nil {
			return timing.Moment{}, err
		}
		second, err := n.IntOr(keySecond, 0)
		if err != nil {
			return timing.Moment{}, err
		}
		return timing.NewMoment(year, month, day, hour, minute, second)
	}
	return timing.Moment{}, fmt.Errorf("%w: moment needs %q, %q/%q, or calendar components", ErrFormat, keyDateTime[0], keyDayPart[0], keyTimePart[0])
}

// SlotFrom builds a timing.Slot from a mapping node. The start moment is
// required; the other bound comes from either an end moment or a duration.
// A duration may be a nested span document or a plain number of seconds.
func SlotFrom(n Node) (timing.Slot, error) {
	startNode, err := n.Child(keyStart)
	if err != nil {
		return timing.Slot{}, fmt.Errorf("%w: slot needs %q", ErrFormat, keyStart[0])
	}
	start, err := MomentFrom(startNode)
	if err != nil {
		return timing.Slot{}, err
	}

	if n.Has(keyEnd) {
		endNode, err := n.Child(keyEnd)
		if err != nil {
			return timing.Slot{}, err
		}
		end, err := MomentFrom(endNode)
		if err != nil {
			return timing.Slot{}, err
		}
		return timing.NewSlot(start, end), nil
	}

	if n.Has(keyDuration) {
		durNode, err := n.Child(keyDuration)
		if err != nil {
			return timing.Slot{}, err
		}
		if durNode.IsMapping() {
			span, err := MomentFrom(durNode)
			if err != nil {
				return timing.Slot{}, err
			}
			return timing.SlotSpanning(start, span), nil
		}
		seconds, err := n.Int(keyDuration)
		if err != nil {
			return timing.Slot{}, err
		}
		span, err := spanOfSeconds(seconds)
		if err != nil {
			return timing.Slot{}, err
		}
		return timing.SlotSpanning(start, span), nil
	}

	return timing.Slot{}, fmt.Errorf("%w: slot needs %q or %q", ErrFormat, keyEnd[0], keyDuration[0])
}

// spanOfSeconds encodes a plain duration as a span moment anchored at the
// epoch, so that the span decodes back to the same number of seconds.
func spanOfSeconds(seconds int) (timing.Moment, error) {
	if seconds < 0 {
		return timing.Moment{}, fmt.Errorf("%w: duration must not be negative, got %d", ErrFormat, seconds)
	}
	days := seconds / 86400
	rem := seconds % 86400
	return timing.NewMoment(1970, 1, 1+days, rem/3600, rem%3600/60, rem%60)
}
