package timing

import (
	"errors"
	"testing"
	"time"
)

func TestNewDayValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		y, m, d int
		ok      bool
	}{
		{name: "plain date", y: 2025, m: 10, d: 24, ok: true},
		{name: "leap day", y: 2024, m: 2, d: 29, ok: true},
		{name: "feb 29 off-year", y: 2025, m: 2, d: 29},
		{name: "feb 30", y: 2024, m: 2, d: 30},
		{name: "month 13", y: 2025, m: 13, d: 1},
		{name: "month 0", y: 2025, m: 0, d: 1},
		{name: "day 32", y: 2025, m: 1, d: 32},
		{name: "day 0", y: 2025, m: 1, d: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDay(tt.y, tt.m, tt.d)
			if tt.ok {
				if err != nil {
					t.Fatalf("NewDay(%d,%d,%d) error: %v", tt.y, tt.m, tt.d, err)
				}
				if d.Year() != tt.y || int(d.Month()) != tt.m || d.Day() != tt.d {
					t.Fatalf("components = %d-%d-%d", d.Year(), d.Month(), d.Day())
				}
				return
			}
			if err == nil {
				t.Fatalf("NewDay(%d,%d,%d) accepted invalid date", tt.y, tt.m, tt.d)
			}
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("error %v is not ErrInvalidValue", err)
			}
		})
	}
}

func TestAddDaysRoundTrip(t *testing.T) {
	t.Parallel()
	start, err := NewDay(2024, 2, 28)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 1, 2, 30, 365, 366, 1000, -1, -31, -400} {
		if got := start.AddDays(n).AddDays(-n); !got.Equal(start) {
			t.Fatalf("AddDays(%d).AddDays(%d) = %s, want %s", n, -n, got, start)
		}
	}
}

func TestAddDaysLeapCarry(t *testing.T) {
	t.Parallel()
	d, _ := NewDay(2024, 2, 28)
	got := d.AddDays(2)
	want, _ := NewDay(2024, 3, 1)
	if !got.Equal(want) {
		t.Fatalf("2024-02-28 + 2d = %s, want %s", got, want)
	}

	d, _ = NewDay(2025, 2, 28)
	got = d.AddDays(1)
	want, _ = NewDay(2025, 3, 1)
	if !got.Equal(want) {
		t.Fatalf("2025-02-28 + 1d = %s, want %s", got, want)
	}
}

func TestParseDayRoundTrip(t *testing.T) {
	t.Parallel()
	d, _ := NewDay(2025, 10, 24)
	got, err := ParseDay("", d.String())
	if err != nil {
		t.Fatalf("ParseDay error: %v", err)
	}
	if !got.Equal(d) {
		t.Fatalf("round trip = %s, want %s", got, d)
	}

	got, err = ParseDay("02/01/2006", "24/10/2025")
	if err != nil {
		t.Fatalf("ParseDay custom layout error: %v", err)
	}
	if !got.Equal(d) {
		t.Fatalf("custom layout = %s, want %s", got, d)
	}

	if _, err := ParseDay("", "not-a-date"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestDayOrdering(t *testing.T) {
	t.Parallel()
	a, _ := NewDay(2025, 10, 24)
	b, _ := NewDay(2025, 10, 31)
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Fatal("calendar ordering broken")
	}
	if a.Weekday() != time.Friday {
		t.Fatalf("2025-10-24 weekday = %s, want Friday", a.Weekday())
	}
}
