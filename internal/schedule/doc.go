// Package schedule is the scheduling core: it parses recurrence phrases into
// triggers and runs named tasks from a cooperative polling loop.
//
// # Schedule phrases
//
// The primary syntax is a small English grammar, case-insensitive and
// whitespace-delimited:
//
//   - "every second" / "every 2 hours" / "every 3 weeks" — fixed intervals
//   - "every day" / "every day at 10:30" — once per day, optionally pinned
//     to a HH:MM wall-clock minute (the hour may be a single digit, the
//     minute must be two)
//   - "every monday" / "every friday at 17:00" — once per week on a weekday
//
// Phrases that do not start with "every" are tried as cron expressions
// (5-field or descriptors like "@hourly", "@every 10m"), optionally forced
// with a "cron:" prefix. Anything else fails with ErrInvalidSpec.
//
// # Polling
//
// A Scheduler owns its task set; independent instances coexist (useful in
// tests). PollOnce checks every enabled task against its trigger and runs due
// actions one at a time, in task-name order. A failing or panicking action is
// logged and attributed to its task but never stops the remaining tasks, and
// it still counts as a run. Run wraps PollOnce in a blocking loop that
// observes Stop or context cancellation between cycles only — an in-flight
// action is never interrupted.
package schedule
