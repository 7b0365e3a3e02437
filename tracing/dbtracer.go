package tracing

import (
	"strings"
	"sync"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/sim"
	"github.com/tebeka/atexit"
)

// TaskTableName is the table the DBTracer writes finished tasks to.
const TaskTableName = "requests"

type taskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	Tags      string
	StartTime uint64
	EndTime   uint64
}

// DBTracer is a tracer that stores finished tasks into a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	filter  TaskFilter

	tracingTasks map[string]*Task
	numWritten   uint64
}

// NewDBTracer creates a new DBTracer and the table it writes to.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	filter TaskFilter,
) *DBTracer {
	dataRecorder.CreateTable(TaskTableName, taskTableEntry{})

	t := &DBTracer{
		backend:      dataRecorder,
		filter:       filter,
		tracingTasks: make(map[string]*Task),
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// Func dispatches the task hooks.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case sim.TaskStart:
		t.startTask(ctx, item)
	case sim.TaskTag:
		t.tagTask(item)
	case sim.TaskEnd:
		t.endTask(ctx, item)
	}
}

func (t *DBTracer) startTask(ctx sim.HookCtx, start sim.TaskStart) {
	if start.ID == "" {
		panic("task ID must be set")
	}

	if !t.filter(start) {
		return
	}

	task := newTask(ctx, start)

	t.mu.Lock()
	t.tracingTasks[task.ID] = &task
	t.mu.Unlock()
}

func (t *DBTracer) tagTask(tag sim.TaskTag) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tracingTasks[tag.TaskID]
	if !ok {
		return
	}

	task.Tags = append(task.Tags, Tag{What: tag.What, Detail: tag.Detail})
}

func (t *DBTracer) endTask(ctx sim.HookCtx, end sim.TaskEnd) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tracingTasks[end.ID]
	if !ok {
		return
	}

	task.EndTime = ctx.Now
	t.writeTaskToDB(task)

	delete(t.tracingTasks, end.ID)
}

func (t *DBTracer) writeTaskToDB(task *Task) {
	tags := make([]string, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, tag.What)
	}

	t.backend.InsertData(TaskTableName, taskTableEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Where,
		Tags:      strings.Join(tags, ","),
		StartTime: uint64(task.StartTime),
		EndTime:   uint64(task.EndTime),
	})
	t.numWritten++
}

// NumWritten returns the number of tasks written so far.
func (t *DBTracer) NumWritten() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.numWritten
}

// Terminate drops the unfinished tasks and flushes the recorder.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]*Task)
	t.backend.Flush()
}
