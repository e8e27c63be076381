// Package action defines the capability interface tasks are bound to and a
// registry resolving configured action names to capabilities. The scheduler
// only ever holds resolved Funcs, never names.
package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnknownAction is returned when a configured action name has no
// registered capability.
var ErrUnknownAction = errors.New("unknown action")

// Func is a capability invoked when a task fires. params is the task's
// configured parameter mapping, forwarded verbatim.
type Func func(ctx context.Context, params map[string]any) error

// Registry maps action names to capabilities.
type Registry struct {
	mu     sync.RWMutex
	log    zerolog.Logger
	byName map[string]Func
}

// NewRegistry returns a registry pre-populated with the built-in actions.
func NewRegistry(log zerolog.Logger, stdout io.Writer) *Registry {
	r := &Registry{
		log:    log,
		byName: map[string]Func{},
	}
	r.Register("print", Print(stdout))
	r.Register("log", Log(log))
	return r
}

// Register adds or replaces a capability under the given name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	if _, exists := r.byName[name]; exists {
		r.log.Debug().Str("action", name).Msg("action replaced")
	}
	r.byName[name] = fn
	r.mu.Unlock()
}

// Resolve looks up a capability by name.
func (r *Registry) Resolve(name string) (Func, error) {
	r.mu.RLock()
	fn, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return fn, nil
}

// Names returns the registered action names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}

// Print writes the "message" parameter (or a default greeting) to w.
func Print(w io.Writer) Func {
	return func(_ context.Context, params map[string]any) error {
		msg := stringParam(params, "message", "hello from yasched")
		_, err := fmt.Fprintln(w, msg)
		return err
	}
}

// Log emits the "message" parameter at the level named by the "level"
// parameter (debug/info/warn/error, default info).
func Log(log zerolog.Logger) Func {
	return func(_ context.Context, params map[string]any) error {
		msg := stringParam(params, "message", "")
		switch stringParam(params, "level", "info") {
		case "debug":
			log.Debug().Msg(msg)
		case "warn", "warning":
			log.Warn().Msg(msg)
		case "error":
			log.Error().Msg(msg)
		default:
			log.Info().Msg(msg)
		}
		return nil
	}
}

func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return def
}

func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
