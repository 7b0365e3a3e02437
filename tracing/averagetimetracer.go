package tracing

import (
	"sync"

	"github.com/sarchlab/cachesim/sim"
)

// TotalAvgTimeTracer can collect the total and average time of executing a
// certain type of task. If the execution of two tasks overlaps, this tracer
// will simply add the two task processing time together.
type TotalAvgTimeTracer struct {
	filter        TaskFilter
	lock          sync.Mutex
	inflightTasks map[string]Task
	totalTime     sim.VTimeInCycle
	taskCount     uint64
}

// NewAverageTimeTracer creates a new TotalAvgTimeTracer
func NewAverageTimeTracer(filter TaskFilter) *TotalAvgTimeTracer {
	return &TotalAvgTimeTracer{
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}
}

// Func records the start end of a task.
func (t *TotalAvgTimeTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case sim.TaskStart:
		t.startTask(ctx, item)
	case sim.TaskEnd:
		t.endTask(ctx, item)
	}
}

// AverageTime returns the average number of cycles spent on a task. It is
// zero before any task finishes.
func (t *TotalAvgTimeTracer) AverageTime() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return float64(t.totalTime) / float64(t.taskCount)
}

// TotalTime returns the number of cycles spent on all finished tasks.
func (t *TotalAvgTimeTracer) TotalTime() sim.VTimeInCycle {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalTime
}

// TotalCount returns the total number of tasks.
func (t *TotalAvgTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

func (t *TotalAvgTimeTracer) startTask(ctx sim.HookCtx, start sim.TaskStart) {
	if !t.filter(start) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[start.ID] = newTask(ctx, start)
	t.lock.Unlock()
}

func (t *TotalAvgTimeTracer) endTask(ctx sim.HookCtx, end sim.TaskEnd) {
	t.lock.Lock()
	defer t.lock.Unlock()

	task, ok := t.inflightTasks[end.ID]
	if !ok {
		return
	}

	// A task ending in the cycle it started still takes that cycle.
	t.totalTime += ctx.Now - task.StartTime + 1
	t.taskCount++

	delete(t.inflightTasks, end.ID)
}
