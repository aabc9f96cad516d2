package adapter

import "context"

// Task is one unit of background work with a completion contract: it must
// always terminate, absorbing its own failures.
type Task func(ctx context.Context) error

// TaskQueue schedules tasks onto background workers. Submit must not block;
// a saturated queue returns domain.ErrQueueFull.
type TaskQueue interface {
	Submit(task Task) error
}
