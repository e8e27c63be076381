package timing

import "fmt"

// Slot is a pair of Moments delimiting the start and end of an occurrence.
// Slots are ordered by start. End before start is allowed; Duration is then
// negative.
type Slot struct {
	Start Moment
	End   Moment
}

// NewSlot builds a Slot from explicit start and end Moments.
func NewSlot(start, end Moment) Slot {
	return Slot{Start: start, End: end}
}

// SlotSpanning builds a Slot from a start and a span offset Moment, applying
// the same naive duration decoding as Moment.AddSpan.
func SlotSpanning(start, span Moment) Slot {
	return Slot{Start: start, End: start.AddSpan(span)}
}

// Duration returns end minus start in seconds. Negative when the Slot is
// reversed.
func (s Slot) Duration() int64 {
	return s.End.Sub(s.Start)
}

// shift returns the Slot with both ends advanced by the given span offset.
func (s Slot) shift(span Moment) Slot {
	return Slot{Start: s.Start.AddSpan(span), End: s.End.AddSpan(span)}
}

func (s Slot) Equal(o Slot) bool  { return s.Start.Equal(o.Start) && s.End.Equal(o.End) }
func (s Slot) Before(o Slot) bool { return s.Start.Before(o.Start) }
func (s Slot) After(o Slot) bool  { return s.Start.After(o.Start) }

func (s Slot) String() string {
	return fmt.Sprintf("%s - %s", s.Start, s.End)
}

// Format renders both ends with the given layout ("" means MomentLayout).
func (s Slot) Format(layout string) string {
	return fmt.Sprintf("%s - %s", s.Start.Format(layout), s.End.Format(layout))
}
