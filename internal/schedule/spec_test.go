package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseSpecVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want string // normalized trigger description
	}{
		{name: "unit second", raw: "every second", want: "every 1s"},
		{name: "unit minute plural", raw: "every minutes", want: "every 1m0s"},
		{name: "unit hour", raw: "every hour", want: "every 1h0m0s"},
		{name: "n seconds", raw: "every 30 seconds", want: "every 30s"},
		{name: "n hours", raw: "every 2 hours", want: "every 2h0m0s"},
		{name: "n days", raw: "every 2 days", want: "every 48h0m0s"},
		{name: "n weeks", raw: "every 3 weeks", want: "every 504h0m0s"},
		{name: "day", raw: "every day", want: "every day"},
		{name: "day at", raw: "every day at 10:30", want: "every day at 10:30"},
		{name: "weekday", raw: "every monday", want: "every monday"},
		{name: "weekday at", raw: "every friday at 17:05", want: "every friday at 17:05"},
		{name: "case insensitive", raw: "EVERY Monday AT 15:00", want: "every monday at 15:00"},
		{name: "bare cron", raw: "*/5 * * * *", want: "cron */5 * * * *"},
		{name: "prefixed cron", raw: "cron:0 0 * * *", want: "cron 0 0 * * *"},
		{name: "descriptor", raw: "@hourly", want: "cron @hourly"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			trig, err := ParseSpec(tt.raw)
			if err != nil {
				t.Fatalf("ParseSpec(%q) error: %v", tt.raw, err)
			}
			if got := trig.String(); got != tt.want {
				t.Fatalf("trigger = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSpecInvalid(t *testing.T) {
	t.Parallel()
	tests := []string{
		"",
		"every",
		"every banana",
		"every 0 hours",
		"every -1 minutes",
		"every 2",
		"every day at 25:00",
		"every day at noon",
		"every monday at",
		"every hour now",
		"not-a-schedule",
		"cron:bogus",
	}
	for _, raw := range tests {
		raw := raw
		t.Run(strings.ReplaceAll(raw, " ", "_"), func(t *testing.T) {
			_, err := ParseSpec(raw)
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("ParseSpec(%q) = %v, want ErrInvalidSpec", raw, err)
			}
			if raw != "" && !strings.Contains(err.Error(), raw) {
				t.Fatalf("error %q does not name the phrase %q", err, raw)
			}
		})
	}
}

func TestParseHHMM(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in   string
		h, m int
	}{
		{"23:15", 23, 15},
		{"09:05", 9, 5},
		{"9:30", 9, 30},
	} {
		h, m, err := parseHHMM(tc.in)
		if err != nil {
			t.Fatalf("parseHHMM(%q): %v", tc.in, err)
		}
		if h != tc.h || m != tc.m {
			t.Fatalf("parseHHMM(%q) = %d:%d", tc.in, h, m)
		}
	}
	// minute must be two digits
	for _, bad := range []string{"24:00", "10:60", "10", "ab:cd", "9:5", "10:5", ":30", "100:30"} {
		if _, _, err := parseHHMM(bad); err == nil {
			t.Fatalf("parseHHMM(%q) accepted", bad)
		}
	}
}

func TestUnitDuration(t *testing.T) {
	t.Parallel()
	tests := map[string]time.Duration{
		"second":  time.Second,
		"seconds": time.Second,
		"minute":  time.Minute,
		"hours":   time.Hour,
		"day":     24 * time.Hour,
		"weeks":   7 * 24 * time.Hour,
	}
	for unit, want := range tests {
		got, ok := unitDuration(unit)
		if !ok || got != want {
			t.Fatalf("unitDuration(%q) = %v,%v", unit, got, ok)
		}
	}
	if _, ok := unitDuration("fortnight"); ok {
		t.Fatal("unitDuration accepted fortnight")
	}
}
