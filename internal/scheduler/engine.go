package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/taskmasterhq/taskmaster/internal/model"
)

var ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")

// Event is a reminder that has been armed for a concrete instant.
type Event struct {
	TaskID    string
	Title     string
	TriggerAt time.Time
}

// EventsFor arms one event per task that has a future reminder instant.
// Tasks already inside the live window belong to Due, not the queue.
func EventsFor(tasks []model.Task, now time.Time) []Event {
	out := make([]Event, 0)
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		instant, ok := ReminderInstant(t, now.Location())
		if !ok {
			continue
		}
		if !instant.After(now) {
			continue
		}
		if t.NotifiedAt != nil && !t.NotifiedAt.Before(instant) {
			continue
		}
		out = append(out, Event{TaskID: t.ID, Title: t.Title, TriggerAt: instant})
	}
	return out
}

type queueItem struct {
	event Event
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.TriggerAt.Before(pq[j].event.TriggerAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine waits on the earliest armed reminder and emits it on C when its
// trigger time arrives. Emission is non-blocking; a slow consumer loses
// events, counted in Dropped.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	armed   map[string]bool
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		armed:  make(map[string]bool),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev Event) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("scheduler: engine stopped")
	}

	heap.Push(&e.queue, queueItem{event: ev})
	e.armed[ev.TaskID] = true
	e.signalWakeup()
	return nil
}

// Rearm replaces the queue with events for the given tasks. Called after any
// store mutation that can move a deadline.
func (e *Engine) Rearm(tasks []model.Task, now time.Time) {
	events := EventsFor(tasks, now)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.queue = e.queue[:0]
	e.armed = make(map[string]bool, len(events))
	for _, ev := range events {
		heap.Push(&e.queue, queueItem{event: ev})
		e.armed[ev.TaskID] = true
	}
	e.signalWakeup()
}

// Armed reports whether a reminder is queued for the task.
func (e *Engine) Armed(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.armed[taskID]
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, ev := range due {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Event{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].event
		if next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		delete(e.armed, item.event.TaskID)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
