package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"yasched/internal/schedule"
	"yasched/internal/timing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	started, err := timing.NewMoment(2025, 6, 2, 10, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	s.RecordRun(ctx, schedule.RunRecord{Task: "backup", Started: started, Duration: 125 * time.Millisecond})
	s.RecordRun(ctx, schedule.RunRecord{Task: "heartbeat", Started: started.AddSeconds(30), Duration: 5 * time.Millisecond, Error: "unreachable"})

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries", len(got))
	}
	// newest first
	if got[0].Task != "heartbeat" || got[1].Task != "backup" {
		t.Fatalf("order = %s, %s", got[0].Task, got[1].Task)
	}
	if got[0].Error != "unreachable" {
		t.Fatalf("error = %q", got[0].Error)
	}
	if got[1].Error != "" {
		t.Fatalf("success entry has error %q", got[1].Error)
	}
	if !got[1].Started.Equal(started) {
		t.Fatalf("started = %v, want %v", got[1].Started, started)
	}
	if got[1].Duration != 125*time.Millisecond {
		t.Fatalf("duration = %v", got[1].Duration)
	}
}

func TestRecentLimit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	started := timing.Now()
	for i := 0; i < 5; i++ {
		s.RecordRun(ctx, schedule.RunRecord{Task: "tick", Started: started.AddSeconds(int64(i))})
	}
	got, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open("  ", zerolog.Nop()); err == nil {
		t.Fatal("blank path accepted")
	}
}
