package runtime

import (
	"sync/atomic"
	"time"

	"github.com/aretw0/midiroute/pkg/midi"
	"github.com/aretw0/midiroute/pkg/ports"
)

// Ingestor turns provider callbacks into queued events.
// One handler is created per opened input; each tags messages with its origin.
type Ingestor struct {
	queue    *Queue
	seq      atomic.Uint64
	observer Observer
}

// NewIngestor creates an Ingestor feeding q.
func NewIngestor(q *Queue, observer Observer) *Ingestor {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Ingestor{queue: q, observer: observer}
}

// Handler returns the callback to register when opening the input named origin.
func (i *Ingestor) Handler(origin string) ports.MessageHandler {
	return func(msg midi.Message) {
		i.queue.Push(Event{
			Origin:   origin,
			Message:  msg,
			Seq:      i.seq.Add(1),
			Received: time.Now(),
		})
		i.observer.MessageReceived(origin)
	}
}
