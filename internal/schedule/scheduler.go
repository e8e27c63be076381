package schedule

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"yasched/internal/action"
	"yasched/internal/timing"
)

// RunRecord summarizes one attempted task execution.
type RunRecord struct {
	Task     string
	Started  timing.Moment
	Duration time.Duration
	Error    string
}

// Recorder receives a RunRecord after every attempted execution, success and
// contained failure alike. Implementations must not block for long: they run
// on the polling goroutine.
type Recorder interface {
	RecordRun(ctx context.Context, rec RunRecord)
}

// Config controls the polling loop.
type Config struct {
	// PollInterval is the sleep between poll cycles; <= 0 means one second.
	PollInterval time.Duration
	// FailureLogPerSec caps action-failure log lines per second so a task
	// failing every cycle cannot flood the sinks; <= 0 means 1.
	FailureLogPerSec int
}

// Scheduler owns a set of named tasks and drives them from a cooperative
// polling loop. Each Scheduler instance has an independent task set.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[string]*task

	log     zerolog.Logger
	cfg     Config
	rec     Recorder
	failLog *rate.Limiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New builds a Scheduler. rec may be nil when run history is not wanted.
func New(cfg Config, log zerolog.Logger, rec Recorder) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	rps := cfg.FailureLogPerSec
	if rps <= 0 {
		rps = 1
	}
	return &Scheduler{
		tasks:   map[string]*task{},
		log:     log,
		cfg:     cfg,
		rec:     rec,
		failLog: rate.NewLimiter(rate.Limit(rps), rps),
		stopCh:  make(chan struct{}),
	}
}

// Register adds a task. The schedule phrase is parsed synchronously; any
// parse failure rejects the registration and leaves the registry untouched.
func (s *Scheduler) Register(def Definition) error {
	if def.Name == "" {
		return errors.New("task name is required")
	}
	if def.Action == nil {
		return fmt.Errorf("task %q has no action", def.Name)
	}
	trig, err := ParseSpec(def.Spec)
	if err != nil {
		return fmt.Errorf("task %q: %w", def.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[def.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, def.Name)
	}
	s.tasks[def.Name] = &task{def: def, trigger: trig}
	s.log.Info().Str("task", def.Name).Str("schedule", trig.String()).Msg("task registered")
	return nil
}

// Remove deletes a task by name.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[name]; !ok {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	delete(s.tasks, name)
	s.log.Info().Str("task", name).Msg("task removed")
	return nil
}

// Enable marks a task eligible for polling again.
func (s *Scheduler) Enable(name string) error {
	return s.setEnabled(name, true)
}

// Disable keeps a task registered but skips it during polling.
func (s *Scheduler) Disable(name string) error {
	return s.setEnabled(name, false)
}

func (s *Scheduler) setEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	t.def.Enabled = enabled
	s.log.Info().Str("task", name).Bool("enabled", enabled).Msg("task toggled")
	return nil
}

// Get returns a snapshot of one task.
func (s *Scheduler) Get(name string) (Info, error) {
	now := timing.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	return t.info(now), nil
}

// List returns snapshots of all tasks, sorted by name.
func (s *Scheduler) List() []Info {
	now := timing.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]Info, 0, len(s.tasks))
	for _, t := range s.tasks {
		infos = append(infos, t.info(now))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// invocation is the under-lock snapshot of everything execute needs. Apply
// may swap a task's definition concurrently, so execute must never read
// def fields off the shared *task without the lock.
type invocation struct {
	t      *task
	name   string
	fn     action.Func
	params map[string]any
}

func (t *task) invocation() invocation {
	return invocation{t: t, name: t.def.Name, fn: t.def.Action, params: t.def.Params}
}

// RunNow executes a task immediately, bypassing its trigger. Disabled tasks
// are skipped.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	enabled := t.def.Enabled
	inv := t.invocation()
	s.mu.Unlock()

	if !enabled {
		s.log.Debug().Str("task", name).Msg("task disabled, skipping manual run")
		return nil
	}
	s.execute(ctx, inv, timing.Now())
	return nil
}

// PollOnce runs one poll cycle at the given wall-clock moment: every enabled
// task whose trigger reports due is executed, one at a time, in name order.
// Action failures are contained and never surface to the caller.
func (s *Scheduler) PollOnce(ctx context.Context, now timing.Moment) {
	s.mu.Lock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	for _, name := range names {
		s.mu.Lock()
		t, ok := s.tasks[name]
		due := ok && t.def.Enabled && t.trigger.IsDue(now, t.lastRun)
		var inv invocation
		if due {
			inv = t.invocation()
		}
		s.mu.Unlock()
		if !due {
			continue
		}
		s.execute(ctx, inv, now)
	}
}

func (s *Scheduler) execute(ctx context.Context, inv invocation, now timing.Moment) {
	started := time.Now()
	err := runAction(ctx, inv.fn, inv.params)
	took := time.Since(started)

	// a run is a run, failed or not
	s.mu.Lock()
	inv.t.runs++
	inv.t.lastRun = now
	runs := inv.t.runs
	s.mu.Unlock()

	rec := RunRecord{Task: inv.name, Started: now, Duration: took}
	if err != nil {
		rec.Error = err.Error()
		if s.failLog.Allow() {
			s.log.Error().
				Str("task", inv.name).
				Dur("took", took).
				Err(fmt.Errorf("%w: %v", ErrActionFailed, err)).
				Msg("task failed")
		}
	} else {
		s.log.Info().Str("task", inv.name).Int("runs", runs).Dur("took", took).Msg("task ok")
	}
	if s.rec != nil {
		s.rec.RecordRun(ctx, rec)
	}
}

// runAction contains panics so a misbehaving action cannot take down the
// polling loop.
func runAction(ctx context.Context, fn action.Func, params map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx, params)
}

// Run blocks, polling until Stop is called or ctx is cancelled. Both are
// observed between cycles only; an in-flight action is never interrupted.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Dur("poll_interval", s.cfg.PollInterval).Msg("scheduler started")
	for {
		s.PollOnce(ctx, timing.Now())
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return
		case <-s.stopCh:
			s.log.Info().Msg("scheduler stopped")
			return
		case <-time.After(s.cfg.PollInterval):
		}
	}
}

// Stop ends Run before its next cycle. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Apply reconciles the registry against a freshly loaded definition set:
// names missing from defs are removed, new ones registered, existing ones
// updated in place. Run statistics survive updates. Definitions that fail to
// parse or resolve are reported but do not block the rest.
func (s *Scheduler) Apply(defs []Definition) error {
	var errs []error
	keep := make(map[string]bool, len(defs))

	for _, def := range defs {
		if def.Name == "" || def.Action == nil {
			errs = append(errs, fmt.Errorf("task %q: incomplete definition", def.Name))
			continue
		}
		trig, err := ParseSpec(def.Spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %q: %w", def.Name, err))
			continue
		}
		keep[def.Name] = true

		s.mu.Lock()
		if t, ok := s.tasks[def.Name]; ok {
			if t.def.Spec != def.Spec {
				t.trigger = trig
			}
			t.def = def
			s.log.Info().Str("task", def.Name).Msg("task updated")
		} else {
			s.tasks[def.Name] = &task{def: def, trigger: trig}
			s.log.Info().Str("task", def.Name).Str("schedule", trig.String()).Msg("task registered")
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	for name := range s.tasks {
		if !keep[name] {
			delete(s.tasks, name)
			s.log.Info().Str("task", name).Msg("task removed")
		}
	}
	s.mu.Unlock()

	return errors.Join(errs...)
}
