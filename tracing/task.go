// Package tracing collects information about the tasks reported through
// hooks.
package tracing

import "github.com/sarchlab/cachesim/sim"

// A Tag is extra information attached to a task.
type Tag struct {
	What   string
	Detail string
}

// A Task is a piece of work tracked from its start to its end.
type Task struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Where     string
	StartTime sim.VTimeInCycle
	EndTime   sim.VTimeInCycle
	Tags      []Tag
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t sim.TaskStart) bool

// AllTasks is a TaskFilter that accepts every task.
func AllTasks(sim.TaskStart) bool {
	return true
}

// KindIs returns a TaskFilter that accepts tasks of the given kind.
func KindIs(kind string) TaskFilter {
	return func(t sim.TaskStart) bool {
		return t.Kind == kind
	}
}

func newTask(ctx sim.HookCtx, start sim.TaskStart) Task {
	return Task{
		ID:        start.ID,
		ParentID:  start.ParentID,
		Kind:      start.Kind,
		What:      start.What,
		Where:     start.Where,
		StartTime: ctx.Now,
	}
}
