// Package dispatch provides the execution contexts that feed completions are
// delivered on.
//
// The remote clients perform network I/O on their own goroutines and then hand
// parsing and the caller's completion to a Dispatcher. Using a single Loop for
// every client gives the application one designated context where all parsed
// records are observed, so state built from them needs no extra locking.
package dispatch

import "sync"

// Dispatcher runs functions on an execution context.
type Dispatcher interface {
	Dispatch(fn func())
}

// Inline runs each function immediately on the calling goroutine.
type Inline struct{}

// Dispatch calls fn.
func (Inline) Dispatch(fn func()) { fn() }

// Func adapts an ordinary function to the Dispatcher interface.
type Func func(fn func())

// Dispatch calls f(fn).
func (f Func) Dispatch(fn func()) { f(fn) }

// Loop is a serial execution context: one goroutine runs dispatched functions
// in FIFO order. Dispatch never blocks.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	signal chan struct{}
	done   chan struct{}
}

// NewLoop starts a Loop. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Dispatch queues fn. Once the loop is closed fn runs on the calling
// goroutine instead, so every dispatched function still runs exactly once.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		fn()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.wake()
}

// Close runs everything already queued and then stops the loop. It blocks
// until the loop goroutine has exited and is safe to call more than once.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wake()
	<-l.done
}

func (l *Loop) wake() {
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		closed := l.closed
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-l.signal
	}
}
