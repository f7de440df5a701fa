package backend

import (
	"os"
	"os/signal"
	"sync"
)

// queue is the event channel shared by the backends. Producers run on
// their own goroutines and stop once the queue is shut; the channel is
// closed after the last of them returns.
type queue struct {
	events chan Event
	done   chan struct{}
	notify func()

	producers sync.WaitGroup
	shutOnce  sync.Once
	signals   chan os.Signal
}

func newQueue() *queue {
	return &queue{
		events: make(chan Event, eventQueueSize),
		done:   make(chan struct{}),
		notify: func() {},
	}
}

// send queues ev and wakes the consumer. It reports false once the queue
// is shut.
func (q *queue) send(ev Event) bool {
	select {
	case q.events <- ev:
	case <-q.done:
		return false
	}
	q.notify()
	return true
}

func (q *queue) produce(fn func()) {
	q.producers.Add(1)
	go func() {
		defer q.producers.Done()
		fn()
	}()
}

// start installs notify and the signal watcher. Producers added later
// must be registered before start returns to the caller.
func (q *queue) start(notify func()) {
	if notify != nil {
		q.notify = notify
	}

	q.signals = make(chan os.Signal, 1)
	signal.Notify(q.signals, watchedSignals...)
	q.produce(func() {
		for {
			select {
			case sig := <-q.signals:
				if ev, ok := signalEvent(sig); ok {
					q.send(ev)
				}
			case <-q.done:
				return
			}
		}
	})
}

func (q *queue) stopped() <-chan struct{} {
	return q.done
}

// shut stops the producers and closes the event channel once they are
// gone. It is safe to call more than once.
func (q *queue) shut() {
	q.shutOnce.Do(func() {
		if q.signals != nil {
			signal.Stop(q.signals)
		}
		close(q.done)
		go func() {
			q.producers.Wait()
			close(q.events)
		}()
	})
}
