// Package timing provides the naive calendar value types the scheduler is
// built on: Day (a calendar date), DayTime (a time of day), Moment (date plus
// time of day), Slot (a start/end pair of Moments) and Periodic (a Slot
// repeated by offsets up to a boundary).
//
// All values are immutable: arithmetic returns new values. There is no
// timezone handling anywhere in this package; everything is local wall-clock
// time. Construction validates components and returns ErrInvalidValue for
// anything that does not form a real date or time.
package timing
