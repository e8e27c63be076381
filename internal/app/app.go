// Package app wires configuration, actions, history, and the scheduler
// into a runnable process.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"

	"yasched/internal/action"
	"yasched/internal/config"
	"yasched/internal/history"
	"yasched/internal/schedule"
	"yasched/pkg/logx"
)

type App struct {
	log      zerolog.Logger
	closeLog func() error

	cfgm     *config.Manager
	registry *action.Registry
	sched    *schedule.Scheduler
	store    *history.Store

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath, logx.NewConsole("info"))
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfgPath, err)
	}

	log, closeLog := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	cfgm.SetLogger(log.With().Str("comp", "config").Logger())

	registry := action.NewRegistry(log.With().Str("comp", "action").Logger(), os.Stdout)
	registry.Register("speedtest", action.Speedtest(log.With().Str("comp", "speedtest").Logger()))
	if cfg.Telegram != nil && strings.TrimSpace(cfg.Telegram.Token) != "" {
		registry.Register("notify", action.Notify(log.With().Str("comp", "notify").Logger(), cfg.Telegram.Token, cfg.Telegram.ChatID))
	}

	var (
		store *history.Store
		rec   schedule.Recorder
	)
	if cfg.History != nil && cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path, log.With().Str("comp", "history").Logger())
		if err != nil {
			_ = closeLog()
			return nil, fmt.Errorf("opening history store: %w", err)
		}
		rec = store
	}

	interval, err := cfg.Poll.PollInterval()
	if err != nil {
		// Load already validated this; kept for safety on direct construction.
		_ = store.Close()
		_ = closeLog()
		return nil, err
	}
	sched := schedule.New(schedule.Config{
		PollInterval:     interval,
		FailureLogPerSec: cfg.Poll.FailureLogPerSec,
	}, log.With().Str("comp", "scheduler").Logger(), rec)

	a := &App{
		log:      log.With().Str("comp", "app").Logger(),
		closeLog: closeLog,
		cfgm:     cfgm,
		registry: registry,
		sched:    sched,
		store:    store,
	}

	defs, err := a.definitions(cfg)
	if err != nil {
		_ = store.Close()
		_ = closeLog()
		return nil, err
	}
	for _, def := range defs {
		if err := sched.Register(def); err != nil {
			_ = store.Close()
			_ = closeLog()
			return nil, fmt.Errorf("task %q: %w", def.Name, err)
		}
	}

	return a, nil
}

// definitions resolves configured tasks against the action registry.
func (a *App) definitions(cfg *config.Config) ([]schedule.Definition, error) {
	defs := make([]schedule.Definition, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		fn, err := a.registry.Resolve(t.Action)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
		defs = append(defs, schedule.Definition{
			Name:        t.Name,
			Spec:        t.Schedule,
			Description: t.Description,
			Enabled:     t.IsEnabled(),
			Params:      t.Parameters,
			Action:      fn,
		})
	}
	return defs, nil
}

// Start launches the scheduler loop and the config watcher. It returns
// immediately; cancellation happens via Stop.
func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.sched.Run(runCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(runCtx, a.applyConfig)
	}()

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Warn().Err(err).Msg("sd_notify failed")
	} else if sent {
		a.log.Debug().Msg("systemd notified: ready")
	}

	a.log.Info().Int("tasks", len(a.sched.List())).Msg("scheduler started")
	return nil
}

// applyConfig reconciles the running task set with a freshly reloaded
// config. A config that references unknown actions or carries a bad
// schedule is reported and skipped; the running set stays as it was for
// the offending entries.
func (a *App) applyConfig(cfg *config.Config) {
	defs, err := a.definitions(cfg)
	if err != nil {
		a.log.Warn().Err(err).Msg("reloaded config not applied")
		return
	}
	if err := a.sched.Apply(defs); err != nil {
		a.log.Warn().Err(err).Msg("some reloaded tasks rejected")
	}
	a.log.Info().Int("tasks", len(a.sched.List())).Msg("task set reconciled")
}

func (a *App) Stop() {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Stop()
	a.wg.Wait()

	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing history store")
	}
	a.log.Info().Msg("stopped")
	_ = a.closeLog()
}

// Scheduler exposes the task registry, mainly for tests and diagnostics.
func (a *App) Scheduler() *schedule.Scheduler { return a.sched }

// History returns the run store, or nil when history is disabled.
func (a *App) History() *history.Store { return a.store }
