package host

import (
	"context"
	"sync"
)

type handleState int32

const (
	handlePending handleState = iota
	handleValue
	handleError
)

// Handle is a one-shot, thread-safe result cell: exactly one of SetValue
// or SetError may be called, ever. Wait blocks until it is settled and is
// safe to call from a different goroutine than the one that created it —
// a handle settled before the waiter arrives returns immediately.
type Handle[O any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state handleState
	value O
	err   error
}

func newHandle[O any]() *Handle[O] {
	h := &Handle[O]{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// SetValue settles the handle with a result. It panics if the handle has
// already been settled — a programming error (HandleAlreadySet), since the
// host never calls it more than once per item on any code path.
func (h *Handle[O]) SetValue(v O) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != handlePending {
		panic(errHandleAlreadySet)
	}
	h.value = v
	h.state = handleValue
	h.cond.Broadcast()
}

// SetError settles the handle with an error. It panics if the handle has
// already been settled.
func (h *Handle[O]) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != handlePending {
		panic(errHandleAlreadySet)
	}
	h.err = err
	h.state = handleError
	h.cond.Broadcast()
}

// Wait blocks until the handle is settled, returning its value or
// re-raising its error faithfully, unwrapped. If ctx is cancelled first,
// Wait returns ctx.Err() — the handle itself is unaffected and remains
// valid for the worker to settle later; abandoning the wait leaks nothing.
func (h *Handle[O]) Wait(ctx context.Context) (O, error) {
	if ctx != nil {
		stop := context.AfterFunc(ctx, func() {
			h.mu.Lock()
			h.cond.Broadcast()
			h.mu.Unlock()
		})
		defer stop()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for h.state == handlePending {
		if ctx != nil && ctx.Err() != nil {
			var zero O
			return zero, ctx.Err()
		}
		h.cond.Wait()
	}

	if h.state == handleError {
		var zero O
		return zero, h.err
	}
	return h.value, nil
}
