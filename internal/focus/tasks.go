package focus

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrAmbiguousTask = errors.New("task reference is ambiguous")
)

// TaskList is the ordered, mutable collection of tasks.
type TaskList struct {
	tasks []Task
	newID func() string
}

func NewTaskList() *TaskList {
	return &TaskList{newID: func() string { return uuid.New().String() }}
}

// Add appends a new, open task. Blank titles are the caller's to reject.
func (l *TaskList) Add(title string, priority Priority, now time.Time) Task {
	if !priority.Valid() {
		priority = PriorityNormal
	}
	t := Task{
		ID:        l.newID(),
		Title:     title,
		CreatedAt: now,
		Priority:  priority,
	}
	l.tasks = append(l.tasks, t)
	return t.clone()
}

// Toggle flips the completed flag of id. completedNow is true only for the
// false->true transition.
func (l *TaskList) Toggle(id string, now time.Time) (task Task, completedNow bool, err error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false, fmt.Errorf("toggle task %s: %w", id, ErrTaskNotFound)
	}
	t := &l.tasks[i]
	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
	} else {
		at := now
		t.Completed = true
		t.CompletedAt = &at
		completedNow = true
	}
	return t.clone(), completedNow, nil
}

// Delete removes id. There is no tombstone.
func (l *TaskList) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrTaskNotFound)
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return nil
}

// Edit merges the non-nil fields of p into id.
func (l *TaskList) Edit(id string, p TaskPatch) (Task, error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("edit task %s: %w", id, ErrTaskNotFound)
	}
	if p.Title != nil {
		l.tasks[i].Title = *p.Title
	}
	if p.Priority != nil && p.Priority.Valid() {
		l.tasks[i].Priority = *p.Priority
	}
	return l.tasks[i].clone(), nil
}

func (l *TaskList) Find(id string) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i].clone(), true
}

// Resolve turns a user supplied reference into a task id. It accepts a full
// id, a 1-based position in list order, or an unambiguous id prefix.
func (l *TaskList) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("resolve task: %w", ErrTaskNotFound)
	}
	if i := l.index(ref); i >= 0 {
		return ref, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(l.tasks) {
			return l.tasks[n-1].ID, nil
		}
		return "", fmt.Errorf("resolve task %s: %w", ref, ErrTaskNotFound)
	}
	var match string
	for _, t := range l.tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("resolve task %s: %w", ref, ErrAmbiguousTask)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("resolve task %s: %w", ref, ErrTaskNotFound)
	}
	return match, nil
}

func (l *TaskList) index(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// All returns a copy of every task in list order.
func (l *TaskList) All() []Task {
	out := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		out = append(out, t.clone())
	}
	return out
}

func (l *TaskList) Len() int { return len(l.tasks) }

func (l *TaskList) CompletedCount() int {
	n := 0
	for _, t := range l.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// CompletedPercentage is rounded to the nearest whole percent; 0 for an empty list.
func (l *TaskList) CompletedPercentage() int {
	if len(l.tasks) == 0 {
		return 0
	}
	return int(math.Round(float64(l.CompletedCount()) / float64(len(l.tasks)) * 100))
}

// TaskStatus filters on completion.
type TaskStatus string

const (
	TasksAll       TaskStatus = "all"
	TasksActive    TaskStatus = "active"
	TasksCompleted TaskStatus = "completed"
)

// TaskFilter narrows a listing. Zero values match everything.
type TaskFilter struct {
	Status   TaskStatus
	Priority Priority
	Query    string
}

// Filter returns copies of the matching tasks in list order.
func (l *TaskList) Filter(f TaskFilter) []Task {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []Task
	for _, t := range l.tasks {
		switch f.Status {
		case TasksActive:
			if t.Completed {
				continue
			}
		case TasksCompleted:
			if !t.Completed {
				continue
			}
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		out = append(out, t.clone())
	}
	return out
}
