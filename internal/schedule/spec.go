package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"yasched/internal/timing"
)

// Trigger is the runtime predicate derived from a schedule phrase.
type Trigger interface {
	// IsDue reports whether a task with the given last run should fire at
	// now. Exact boundary matches are inclusive.
	IsDue(now, lastRun timing.Moment) bool
	// Next returns when the trigger fires next: now if currently due,
	// otherwise the start of the next fire window.
	Next(now, lastRun timing.Moment) timing.Moment
	// String returns a normalized description of the trigger.
	String() string
}

// cronParser accepts 5-field expressions and descriptors (@daily, @every 10m).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseSpec translates a schedule phrase into a Trigger. See the package
// documentation for the accepted forms.
func ParseSpec(raw string) (Trigger, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil, fmt.Errorf("%w: empty phrase", ErrInvalidSpec)
	}
	if rest, ok := strings.CutPrefix(s, "cron:"); ok {
		return parseCron(strings.TrimSpace(rest), raw)
	}

	fields := strings.Fields(s)
	if fields[0] != "every" {
		return parseCron(s, raw)
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpec, raw)
	}

	// "every N <unit>"
	if n, err := strconv.Atoi(fields[1]); err == nil {
		if n < 1 {
			return nil, fmt.Errorf("%w: %q: interval must be >= 1", ErrInvalidSpec, raw)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q: expected a unit after the interval", ErrInvalidSpec, raw)
		}
		d, ok := unitDuration(fields[2])
		if !ok {
			return nil, fmt.Errorf("%w: %q: unknown unit %q", ErrInvalidSpec, raw, fields[2])
		}
		return &intervalTrigger{every: time.Duration(n) * d}, nil
	}

	unit := strings.TrimSuffix(fields[1], "s")

	// "every day [at HH:MM]"
	if unit == "day" {
		at, hasAt, err := parseOptionalAt(fields[2:], raw)
		if err != nil {
			return nil, err
		}
		return &clockTrigger{at: at, hasAt: hasAt}, nil
	}

	// "every monday [at HH:MM]"
	if wd, ok := weekdays[fields[1]]; ok {
		at, hasAt, err := parseOptionalAt(fields[2:], raw)
		if err != nil {
			return nil, err
		}
		return &clockTrigger{weekday: &wd, at: at, hasAt: hasAt}, nil
	}

	// "every <unit>"
	if d, ok := unitDuration(fields[1]); ok {
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q: unexpected trailing words", ErrInvalidSpec, raw)
		}
		return &intervalTrigger{every: d}, nil
	}

	return nil, fmt.Errorf("%w: %q: unknown unit %q", ErrInvalidSpec, raw, fields[1])
}

func unitDuration(unit string) (time.Duration, bool) {
	switch strings.TrimSuffix(unit, "s") {
	case "second":
		return time.Second, true
	case "minute":
		return time.Minute, true
	case "hour":
		return time.Hour, true
	case "day":
		return 24 * time.Hour, true
	case "week":
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

func parseOptionalAt(rest []string, raw string) (timing.DayTime, bool, error) {
	if len(rest) == 0 {
		return timing.DayTime{}, false, nil
	}
	if len(rest) != 2 || rest[0] != "at" {
		return timing.DayTime{}, false, fmt.Errorf("%w: %q: expected \"at HH:MM\"", ErrInvalidSpec, raw)
	}
	h, m, err := parseHHMM(rest[1])
	if err != nil {
		return timing.DayTime{}, false, fmt.Errorf("%w: %q: %v", ErrInvalidSpec, raw, err)
	}
	at, err := timing.NewDayTime(h, m, 0)
	if err != nil {
		return timing.DayTime{}, false, fmt.Errorf("%w: %q: %v", ErrInvalidSpec, raw, err)
	}
	return at, true, nil
}

func parseHHMM(s string) (hour int, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}

func parseCron(expr, raw string) (Trigger, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpec, raw)
	}
	return &cronTrigger{spec: expr, sched: sched}, nil
}

// intervalTrigger fires when at least `every` has elapsed since the last run,
// or immediately when there is no last run.
type intervalTrigger struct {
	every time.Duration
}

func (t *intervalTrigger) IsDue(now, lastRun timing.Moment) bool {
	if lastRun.IsZero() {
		return true
	}
	return now.Sub(lastRun) >= int64(t.every/time.Second)
}

func (t *intervalTrigger) Next(now, lastRun timing.Moment) timing.Moment {
	if lastRun.IsZero() {
		return now
	}
	next := lastRun.AddSeconds(int64(t.every / time.Second))
	if next.Before(now) {
		return now
	}
	return next
}

func (t *intervalTrigger) String() string {
	return fmt.Sprintf("every %s", t.every)
}

// clockTrigger fires once per matching wall-clock window: a specific HH:MM
// minute when a time is configured, otherwise the whole day. A nil weekday
// means every day.
type clockTrigger struct {
	weekday *time.Weekday
	at      timing.DayTime
	hasAt   bool
}

func (t *clockTrigger) inWindow(m timing.Moment) bool {
	if t.weekday != nil && m.Weekday() != *t.weekday {
		return false
	}
	if !t.hasAt {
		return true
	}
	tod := m.DayTime()
	return tod.Hour() == t.at.Hour() && tod.Minute() == t.at.Minute()
}

func (t *clockTrigger) IsDue(now, lastRun timing.Moment) bool {
	if !t.inWindow(now) {
		return false
	}
	if lastRun.IsZero() {
		return true
	}
	if !lastRun.Day().Equal(now.Day()) {
		return true
	}
	if t.hasAt {
		// same day: only blocked when the last run hit this exact minute
		lt := lastRun.DayTime()
		return lt.Hour() != t.at.Hour() || lt.Minute() != t.at.Minute()
	}
	return false
}

func (t *clockTrigger) Next(now, lastRun timing.Moment) timing.Moment {
	if t.IsDue(now, lastRun) {
		return now
	}
	for i := 0; i < 8; i++ {
		d := now.Day().AddDays(i)
		if t.weekday != nil && d.Weekday() != *t.weekday {
			continue
		}
		cand := timing.At(d, t.at)
		if cand.After(now) {
			return cand
		}
	}
	return timing.Moment{}
}

func (t *clockTrigger) String() string {
	var b strings.Builder
	b.WriteString("every ")
	if t.weekday != nil {
		b.WriteString(strings.ToLower(t.weekday.String()))
	} else {
		b.WriteString("day")
	}
	if t.hasAt {
		fmt.Fprintf(&b, " at %02d:%02d", t.at.Hour(), t.at.Minute())
	}
	return b.String()
}

// cronTrigger adapts a cron schedule, keeping the next fire time as a cached
// hint. The hint is only touched from the owning scheduler's poll flow.
type cronTrigger struct {
	spec  string
	sched cron.Schedule
	next  time.Time
}

func (t *cronTrigger) IsDue(now, lastRun timing.Moment) bool {
	n := now.Time()
	if t.next.IsZero() {
		base := n
		if !lastRun.IsZero() {
			base = lastRun.Time()
		}
		t.next = t.sched.Next(base)
	}
	if t.next.After(n) {
		return false
	}
	t.next = t.sched.Next(n)
	return true
}

func (t *cronTrigger) Next(now, lastRun timing.Moment) timing.Moment {
	if !t.next.IsZero() && t.next.After(now.Time()) {
		return timing.MomentOf(t.next)
	}
	return timing.MomentOf(t.sched.Next(now.Time()))
}

func (t *cronTrigger) String() string {
	return "cron " + t.spec
}
