package tracing

import (
	"sync"

	"github.com/sarchlab/cachesim/sim"
)

// TagCountTracer can collect how often a certain tag is triggered.
type TagCountTracer struct {
	filter           TaskFilter
	lock             sync.Mutex
	inflightTasks    map[string]*Task
	tagNames         []string
	tagCount         map[string]uint64
	taskWithTagCount map[string]uint64
}

// NewTagCountTracer creates a new TagCountTracer.
func NewTagCountTracer(filter TaskFilter) *TagCountTracer {
	return &TagCountTracer{
		filter:           filter,
		inflightTasks:    make(map[string]*Task),
		tagCount:         make(map[string]uint64),
		taskWithTagCount: make(map[string]uint64),
	}
}

// Func dispatches the task hooks.
func (t *TagCountTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case sim.TaskStart:
		t.startTask(ctx, item)
	case sim.TaskTag:
		t.tagTask(item)
	case sim.TaskEnd:
		t.endTask(item)
	}
}

// GetTagNames returns all the tag names collected, in the order they first
// appeared.
func (t *TagCountTracer) GetTagNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.tagNames...)
}

// GetTagCount returns the number of times a tag was attached.
func (t *TagCountTracer) GetTagCount(tagName string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tagCount[tagName]
}

// GetTaskCount returns the number of tracked tasks that carried the tag at
// least once.
func (t *TagCountTracer) GetTaskCount(tagName string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskWithTagCount[tagName]
}

func (t *TagCountTracer) startTask(ctx sim.HookCtx, start sim.TaskStart) {
	if !t.filter(start) {
		return
	}

	task := newTask(ctx, start)

	t.lock.Lock()
	t.inflightTasks[task.ID] = &task
	t.lock.Unlock()
}

func (t *TagCountTracer) tagTask(tag sim.TaskTag) {
	t.lock.Lock()
	defer t.lock.Unlock()

	task, ok := t.inflightTasks[tag.TaskID]
	if !ok {
		return
	}

	if _, seen := t.tagCount[tag.What]; !seen {
		t.tagNames = append(t.tagNames, tag.What)
	}

	t.tagCount[tag.What]++

	if !taskContainsTag(task, tag.What) {
		t.taskWithTagCount[tag.What]++
	}

	task.Tags = append(task.Tags, Tag{What: tag.What, Detail: tag.Detail})
}

func taskContainsTag(task *Task, what string) bool {
	for _, t := range task.Tags {
		if t.What == what {
			return true
		}
	}

	return false
}

func (t *TagCountTracer) endTask(end sim.TaskEnd) {
	t.lock.Lock()
	delete(t.inflightTasks, end.ID)
	t.lock.Unlock()
}
