package schedule

import (
	"testing"

	"yasched/internal/timing"
)

func moment(t *testing.T, y, mo, d, h, mi, s int) timing.Moment {
	t.Helper()
	m, err := timing.NewMoment(y, mo, d, h, mi, s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func parse(t *testing.T, raw string) Trigger {
	t.Helper()
	trig, err := ParseSpec(raw)
	if err != nil {
		t.Fatalf("ParseSpec(%q): %v", raw, err)
	}
	return trig
}

func TestIntervalTriggerDue(t *testing.T) {
	t.Parallel()
	trig := parse(t, "every 2 hours")
	now := moment(t, 2025, 6, 1, 12, 0, 0)

	if !trig.IsDue(now, timing.Moment{}) {
		t.Fatal("interval trigger with no last run should be due")
	}
	if trig.IsDue(now, moment(t, 2025, 6, 1, 11, 0, 0)) {
		t.Fatal("due after one hour with a two-hour interval")
	}
	// boundary is inclusive
	if !trig.IsDue(now, moment(t, 2025, 6, 1, 10, 0, 0)) {
		t.Fatal("not due at the exact interval boundary")
	}
	if !trig.IsDue(now, moment(t, 2025, 6, 1, 9, 0, 0)) {
		t.Fatal("not due past the interval")
	}
}

func TestIntervalTriggerNext(t *testing.T) {
	t.Parallel()
	trig := parse(t, "every 30 seconds")
	now := moment(t, 2025, 6, 1, 12, 0, 0)

	if got := trig.Next(now, timing.Moment{}); !got.Equal(now) {
		t.Fatalf("Next with no last run = %s, want now", got)
	}
	last := moment(t, 2025, 6, 1, 11, 59, 50)
	want := moment(t, 2025, 6, 1, 12, 0, 20)
	if got := trig.Next(now, last); !got.Equal(want) {
		t.Fatalf("Next = %s, want %s", got, want)
	}
}

func TestDailyAtTrigger(t *testing.T) {
	t.Parallel()
	trig := parse(t, "every day at 10:30")

	due := moment(t, 2025, 6, 1, 10, 30, 0)
	if !trig.IsDue(due, timing.Moment{}) {
		t.Fatal("not due at 10:30:00 with no prior run")
	}
	if !trig.IsDue(moment(t, 2025, 6, 1, 10, 30, 59), timing.Moment{}) {
		t.Fatal("not due inside the configured minute")
	}
	if trig.IsDue(moment(t, 2025, 6, 1, 9, 59, 59), timing.Moment{}) {
		t.Fatal("due at 09:59:59")
	}
	if trig.IsDue(moment(t, 2025, 6, 1, 10, 31, 0), timing.Moment{}) {
		t.Fatal("due outside the configured minute")
	}

	// fired in this window: blocked for the rest of it
	if trig.IsDue(moment(t, 2025, 6, 1, 10, 30, 40), due) {
		t.Fatal("fired twice in the same window")
	}
	// yesterday's run does not block today
	if !trig.IsDue(due, moment(t, 2025, 5, 31, 10, 30, 0)) {
		t.Fatal("yesterday's run blocked today's window")
	}
}

func TestDailyTriggerWithoutTime(t *testing.T) {
	t.Parallel()
	trig := parse(t, "every day")
	now := moment(t, 2025, 6, 1, 14, 0, 0)

	if !trig.IsDue(now, timing.Moment{}) {
		t.Fatal("not due with no prior run")
	}
	if trig.IsDue(now, moment(t, 2025, 6, 1, 8, 0, 0)) {
		t.Fatal("ran twice on the same day")
	}
	if !trig.IsDue(now, moment(t, 2025, 5, 31, 23, 0, 0)) {
		t.Fatal("yesterday's run blocked today")
	}
}

func TestWeekdayTrigger(t *testing.T) {
	t.Parallel()
	trig := parse(t, "every monday at 15:00")

	monday := moment(t, 2025, 6, 2, 15, 0, 0) // 2025-06-02 is a Monday
	if !trig.IsDue(monday, timing.Moment{}) {
		t.Fatal("not due on Monday 15:00")
	}
	tuesday := moment(t, 2025, 6, 3, 15, 0, 0)
	if trig.IsDue(tuesday, timing.Moment{}) {
		t.Fatal("due on Tuesday")
	}
	if trig.IsDue(moment(t, 2025, 6, 2, 14, 59, 59), timing.Moment{}) {
		t.Fatal("due before the configured time")
	}
	if trig.IsDue(monday, monday) {
		t.Fatal("fired twice in the same window")
	}

	lastWeek := moment(t, 2025, 5, 26, 15, 0, 0)
	if !trig.IsDue(monday, lastWeek) {
		t.Fatal("last week's run blocked this Monday")
	}
}

func TestClockTriggerNext(t *testing.T) {
	t.Parallel()
	trig := parse(t, "every day at 10:30")

	now := moment(t, 2025, 6, 1, 9, 0, 0)
	want := moment(t, 2025, 6, 1, 10, 30, 0)
	if got := trig.Next(now, timing.Moment{}); !got.Equal(want) {
		t.Fatalf("Next before window = %s, want %s", got, want)
	}

	fired := moment(t, 2025, 6, 1, 10, 30, 10)
	want = moment(t, 2025, 6, 2, 10, 30, 0)
	if got := trig.Next(fired, fired); !got.Equal(want) {
		t.Fatalf("Next after firing = %s, want %s", got, want)
	}

	weekly := parse(t, "every monday at 15:00")
	tuesday := moment(t, 2025, 6, 3, 9, 0, 0)
	want = moment(t, 2025, 6, 9, 15, 0, 0)
	if got := weekly.Next(tuesday, timing.Moment{}); !got.Equal(want) {
		t.Fatalf("weekly Next = %s, want %s", got, want)
	}
}

func TestCronTrigger(t *testing.T) {
	t.Parallel()
	trig := parse(t, "cron:*/5 * * * *")

	early := moment(t, 2025, 6, 1, 10, 2, 0)
	if trig.IsDue(early, timing.Moment{}) {
		t.Fatal("cron trigger due before its first boundary")
	}
	boundary := moment(t, 2025, 6, 1, 10, 5, 0)
	if !trig.IsDue(boundary, timing.Moment{}) {
		t.Fatal("cron trigger not due at its boundary")
	}
	// hint advanced past the boundary that just fired
	if trig.IsDue(moment(t, 2025, 6, 1, 10, 5, 30), boundary) {
		t.Fatal("cron trigger fired twice for one boundary")
	}
	if !trig.IsDue(moment(t, 2025, 6, 1, 10, 10, 0), boundary) {
		t.Fatal("cron trigger not due at the following boundary")
	}

	next := trig.Next(moment(t, 2025, 6, 1, 10, 11, 0), boundary)
	if want := moment(t, 2025, 6, 1, 10, 15, 0); !next.Equal(want) {
		t.Fatalf("Next = %s, want %s", next, want)
	}
}
