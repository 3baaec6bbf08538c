package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/midiroute/pkg/midi"
)

// Event is a message tagged with the concrete input it arrived on.
type Event struct {
	Origin   string
	Message  midi.Message
	Seq      uint64
	Received time.Time
}

// Queue is an unbounded FIFO safe for many producers and one consumer.
// Push never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	head   int
	notify chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends ev and wakes the consumer.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Pop removes the oldest event, waiting up to timeout for one to arrive.
// It returns false on timeout or when ctx is done.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if ev, ok := q.tryPop(); ok {
			return ev, true
		}
		select {
		case <-q.notify:
		case <-timer.C:
			return Event{}, false
		case <-ctx.Done():
			return Event{}, false
		}
	}
}

func (q *Queue) tryPop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return Event{}, false
	}
	ev := q.items[q.head]
	q.items[q.head] = Event{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return ev, true
}
