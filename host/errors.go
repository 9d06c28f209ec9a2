package host

import (
	"errors"
	"fmt"
)

// ErrHostStopped is returned by Predict when called outside the running
// state, and by push when the queue has already been closed.
var ErrHostStopped = errors.New("batchhost: host is not running")

// ErrInvalidTransition is returned by Start/Stop when the requested state
// transition is not legal from the host's current state.
var ErrInvalidTransition = errors.New("batchhost: invalid state transition")

// errHandleAlreadySet is the panic value raised by a second SetValue or
// SetError call on the same Handle. It is a programming-error class
// (HandleAlreadySet), not a condition callers are expected to recover
// from — the host never triggers it on any of its own code paths.
var errHandleAlreadySet = errors.New("batchhost: handle already set")

// BatchMergeError wraps a failure from Batcher.Merge. Every item in the
// batch that produced it is completed with this same error.
type BatchMergeError struct{ Err error }

func (e *BatchMergeError) Error() string { return fmt.Sprintf("batchhost: merge batch: %v", e.Err) }
func (e *BatchMergeError) Unwrap() error  { return e.Err }

// PredictorError wraps a failure returned by the predictor call itself.
type PredictorError struct{ Err error }

func (e *PredictorError) Error() string { return fmt.Sprintf("batchhost: predict batch: %v", e.Err) }
func (e *PredictorError) Unwrap() error  { return e.Err }

// BatchSplitError wraps a failure from Batcher.Split.
type BatchSplitError struct{ Err error }

func (e *BatchSplitError) Error() string { return fmt.Sprintf("batchhost: split batch: %v", e.Err) }
func (e *BatchSplitError) Unwrap() error  { return e.Err }

// BatchSplitArityError is raised when Batcher.Split returns a different
// number of results than the number of items given to Merge. The host
// cannot attribute individual items in this case, so the whole batch fails.
type BatchSplitArityError struct {
	Expected int
	Got      int
}

func (e *BatchSplitArityError) Error() string {
	return fmt.Sprintf("batchhost: split returned %d results, expected %d", e.Got, e.Expected)
}
