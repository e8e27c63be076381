package schedule

import (
	"yasched/internal/action"
	"yasched/internal/timing"
)

// Definition describes a task to register: a unique name, a schedule phrase,
// and the resolved action capability. Params are forwarded verbatim to the
// action on every run.
type Definition struct {
	Name        string
	Spec        string
	Description string
	Enabled     bool
	Params      map[string]any
	Action      action.Func
}

// task is the registry's owned state for one definition.
type task struct {
	def     Definition
	trigger Trigger
	runs    int
	lastRun timing.Moment
}

// Info is a point-in-time snapshot of a task, safe to hand out.
type Info struct {
	Name        string
	Spec        string
	Description string
	Enabled     bool
	Runs        int
	LastRun     timing.Moment
	NextRun     timing.Moment
}

func (t *task) info(now timing.Moment) Info {
	return Info{
		Name:        t.def.Name,
		Spec:        t.def.Spec,
		Description: t.def.Description,
		Enabled:     t.def.Enabled,
		Runs:        t.runs,
		LastRun:     t.lastRun,
		NextRun:     t.trigger.Next(now, t.lastRun),
	}
}
