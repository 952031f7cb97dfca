package engine

import (
	"sort"
	"time"

	"github.com/lixenwraith/shoal/core"
)

type scheduledTask struct {
	id core.TaskID
	at time.Time
	fn func()
}

// Scheduler holds deferred callbacks and runs them from the frame goroutine
// Tasks run in deadline order, ties in scheduling order
// Not safe for concurrent use
type Scheduler struct {
	clock  Clock
	nextID core.TaskID
	tasks  []scheduledTask // sorted by (at, id)
	due    []scheduledTask
}

// NewScheduler creates an empty scheduler reading time from clock
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Schedule queues fn to run on the first RunDue at or after at
func (s *Scheduler) Schedule(at time.Time, fn func()) core.TaskID {
	s.nextID++
	task := scheduledTask{id: s.nextID, at: at, fn: fn}

	// Equal deadlines insert after existing ones, preserving FIFO
	i := sort.Search(len(s.tasks), func(i int) bool {
		return s.tasks[i].at.After(at)
	})
	s.tasks = append(s.tasks, scheduledTask{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = task

	return task.id
}

// After queues fn to run d from now
func (s *Scheduler) After(d time.Duration, fn func()) core.TaskID {
	return s.Schedule(s.clock.Now().Add(d), fn)
}

// Cancel removes a queued task, returns false if it already ran or was cancelled
func (s *Scheduler) Cancel(id core.TaskID) bool {
	for i := range s.tasks {
		if s.tasks[i].id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// RunDue runs every task with a deadline at or before now and returns the count
// Tasks scheduled by a running task wait for the next call
func (s *Scheduler) RunDue(now time.Time) int {
	n := 0
	for n < len(s.tasks) && !s.tasks[n].at.After(now) {
		n++
	}
	if n == 0 {
		return 0
	}

	s.due = append(s.due[:0], s.tasks[:n]...)
	s.tasks = append(s.tasks[:0], s.tasks[n:]...)

	for i := range s.due {
		s.due[i].fn()
		s.due[i].fn = nil
	}
	return n
}

// Pending returns the number of queued tasks
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}
