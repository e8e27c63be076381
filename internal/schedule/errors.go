package schedule

import "errors"

var (
	// ErrInvalidSpec is returned when a schedule phrase does not match the
	// grammar or a cron expression.
	ErrInvalidSpec = errors.New("invalid schedule spec")

	// ErrDuplicateTask is returned by Register when the task name is taken.
	ErrDuplicateTask = errors.New("task name already registered")

	// ErrTaskNotFound is returned by operations on unknown task names.
	ErrTaskNotFound = errors.New("task not found")

	// ErrActionFailed wraps action errors in run records and logs; it never
	// propagates out of the polling loop.
	ErrActionFailed = errors.New("action failed")
)
