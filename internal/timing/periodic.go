package timing

import "fmt"

// Periodic is a Slot repeated by one or more offsets up to a boundary Slot.
//
// Each offset is a Moment decoded as a naive duration (see Moment.SpanSeconds).
// When several offsets are configured they apply in sequence per tick, not as
// alternatives: the first repetition is First shifted by offsets[0], the next
// by offsets[1], and so on, cycling.
type Periodic struct {
	First   Slot
	Last    Slot
	offsets []Moment
}

// NewPeriodic validates and builds a Periodic. The offset list must be
// non-empty and every offset must decode to a positive span, so enumeration
// always terminates.
func NewPeriodic(first, last Slot, offsets []Moment) (Periodic, error) {
	if len(offsets) == 0 {
		return Periodic{}, fmt.Errorf("%w: periodic needs at least one offset", ErrInvalidValue)
	}
	for i, off := range offsets {
		if off.SpanSeconds() <= 0 {
			return Periodic{}, fmt.Errorf("%w: offset %d (%s) does not advance", ErrInvalidValue, i, off)
		}
	}
	cp := make([]Moment, len(offsets))
	copy(cp, offsets)
	return Periodic{First: first, Last: last, offsets: cp}, nil
}

// Daily builds a Periodic repeating every n days between first and last.
func Daily(first, last Slot, n int) (Periodic, error) {
	off, err := DaySpan(n)
	if err != nil {
		return Periodic{}, err
	}
	return NewPeriodic(first, last, []Moment{off})
}

// Weekly builds a Periodic repeating every n weeks between first and last.
func Weekly(first, last Slot, n int) (Periodic, error) {
	off, err := DaySpan(n * 7)
	if err != nil {
		return Periodic{}, err
	}
	return NewPeriodic(first, last, []Moment{off})
}

// Counted builds a Periodic with exactly count occurrences at a fixed offset,
// deriving the boundary by forward-simulating count-1 applications.
func Counted(first Slot, offset Moment, count int) (Periodic, error) {
	if count < 1 {
		return Periodic{}, fmt.Errorf("%w: occurrence count %d must be >= 1", ErrInvalidValue, count)
	}
	start := first.Start
	for i := 0; i < count-1; i++ {
		start = start.AddSpan(offset)
	}
	last := Slot{Start: start, End: start.AddSeconds(first.Duration())}
	return NewPeriodic(first, last, []Moment{offset})
}

// Offsets returns a copy of the configured offsets.
func (p Periodic) Offsets() []Moment {
	cp := make([]Moment, len(p.offsets))
	copy(cp, p.offsets)
	return cp
}

// Occurrences enumerates every occurrence in order, starting with First.
// Offsets apply in sequence; enumeration stops, exclusive, at the first
// occurrence whose start exceeds Last.Start. The result is deterministic and
// repeated calls return the same slots.
func (p Periodic) Occurrences() []Slot {
	occ := []Slot{p.First}
	if len(p.offsets) == 0 {
		// zero-value Periodic; constructed ones always have offsets
		return occ
	}
	cur := p.First
	for {
		for _, off := range p.offsets {
			next := cur.shift(off)
			if next.Start.After(p.Last.Start) {
				return occ
			}
			occ = append(occ, next)
			cur = next
		}
	}
}

// Count returns the total number of occurrences.
func (p Periodic) Count() int {
	return len(p.Occurrences())
}

func (p Periodic) String() string {
	return fmt.Sprintf("Periodic(first=%s, last=%s, offsets=%d)", p.First, p.Last, len(p.offsets))
}
