package host

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/batchhost/batchhost/internal/ctxkeys"
	"github.com/batchhost/batchhost/internal/pool"
	"github.com/batchhost/batchhost/internal/telemetry"
)

type hostState int32

const (
	stateNew hostState = iota
	stateRunning
	stateStopped
)

// PredictFunc is the predictor's batch-capable call: it accepts exactly
// the batched arguments Batcher.Merge produced and returns exactly the
// batched result passed to Batcher.Split. It is invoked by the worker
// loop only, never concurrently with itself.
type PredictFunc[B, R any] func(ctx context.Context, args B) (R, error)

// item is a submission carrying a caller's argument value and the
// completion handle the worker settles exactly once.
type item[I, O any] struct {
	args   I
	handle *Handle[O]
}

// BatchObservation describes one worker iteration, successful or not, for
// metrics, tracing, and audit logging hooks registered via WithObserver.
type BatchObservation struct {
	BatchID    string
	Size       int
	MergeDur   time.Duration
	PredictDur time.Duration
	SplitDur   time.Duration
	Err        error
}

// Host is the batching runtime bound to one predictor. Many producer
// goroutines call Predict concurrently; exactly one worker goroutine
// drains the queue and invokes the predictor, so predict is never
// re-entered.
type Host[I, B, C, R, O any] struct {
	mu    sync.Mutex
	state hostState

	maxBatchSize int
	predict      PredictFunc[B, R]
	batcher      Batcher[I, B, C, R, O]
	q            *queue[*item[I, O]]
	argsPool     *pool.Pool[[]I]
	wg           sync.WaitGroup

	logger  *zap.Logger
	onBatch func(BatchObservation)

	submitted atomic.Int64
	batched   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// Option configures a Host at construction time.
type Option[I, B, C, R, O any] func(*Host[I, B, C, R, O])

// WithLogger attaches a structured logger. A nil logger (the default)
// behaves as zap.NewNop().
func WithLogger[I, B, C, R, O any](logger *zap.Logger) Option[I, B, C, R, O] {
	return func(h *Host[I, B, C, R, O]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver registers a hook invoked once per batch, after its items
// are settled, with timing and outcome information. Observers are called
// synchronously on the worker goroutine and must not block.
func WithObserver[I, B, C, R, O any](fn func(BatchObservation)) Option[I, B, C, R, O] {
	return func(h *Host[I, B, C, R, O]) { h.onBatch = fn }
}

// New builds a Host bound to predict and batcher. maxBatchSize caps the
// number of items drawn into a single predictor call; it must be >= 1.
func New[I, B, C, R, O any](predict PredictFunc[B, R], batcher Batcher[I, B, C, R, O], maxBatchSize int, opts ...Option[I, B, C, R, O]) *Host[I, B, C, R, O] {
	if maxBatchSize < 1 {
		panic("batchhost: maxBatchSize must be >= 1")
	}

	h := &Host[I, B, C, R, O]{
		maxBatchSize: maxBatchSize,
		predict:      predict,
		batcher:      batcher,
		q:            newQueue[*item[I, O]](),
		logger:       zap.NewNop(),
	}
	h.argsPool = pool.NewPool(
		func() []I { return make([]I, 0, maxBatchSize) },
		func(s *[]I) { *s = (*s)[:0] },
	)

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start transitions new -> running and launches the worker goroutine. It
// is an error to call Start more than once.
func (h *Host[I, B, C, R, O]) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateNew {
		return fmt.Errorf("batchhost: start: %w", ErrInvalidTransition)
	}
	h.state = stateRunning
	h.wg.Add(1)
	go h.run()
	return nil
}

// Stop transitions running -> stopped, closes the queue, and waits for
// the worker to finish draining items already accepted. Every previously
// accepted item has a settled handle once Stop returns nil. If ctx is
// cancelled before the drain finishes, Stop returns ctx.Err() — the
// worker keeps running and still settles every in-flight item.
func (h *Host[I, B, C, R, O]) Stop(ctx context.Context) error {
	h.mu.Lock()
	if h.state != stateRunning {
		h.mu.Unlock()
		return fmt.Errorf("batchhost: stop: %w", ErrInvalidTransition)
	}
	h.state = stateStopped
	h.mu.Unlock()

	h.q.close()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Predict submits args, blocks until the worker settles its result, and
// returns the value or re-raises the settled error faithfully. It fails
// fast with ErrHostStopped if the host is not running.
func (h *Host[I, B, C, R, O]) Predict(ctx context.Context, args I) (O, error) {
	var zero O

	h.mu.Lock()
	running := h.state == stateRunning
	h.mu.Unlock()

	if !running {
		return zero, ErrHostStopped
	}

	it := &item[I, O]{args: args, handle: newHandle[O]()}
	if err := h.q.push(it); err != nil {
		return zero, err
	}
	h.submitted.Add(1)

	return it.handle.Wait(ctx)
}

func (h *Host[I, B, C, R, O]) run() {
	defer h.wg.Done()

	for {
		batch, ok := h.q.popBatch(h.maxBatchSize)
		if !ok {
			return
		}
		h.processBatch(batch)
	}
}

func (h *Host[I, B, C, R, O]) processBatch(batch []*item[I, O]) {
	n := len(batch)
	h.batched.Add(1)

	args := h.argsPool.Get()
	defer h.argsPool.Put(args)
	for _, it := range batch {
		args = append(args, it.args)
	}

	obs := BatchObservation{BatchID: uuid.NewString(), Size: n}

	spanCtx, span := telemetry.StartBatchSpan(context.Background(), obs.BatchID, n)
	defer span.End()

	mergeStart := time.Now()
	batched, ctxVal, err := h.batcher.Merge(args)
	obs.MergeDur = time.Since(mergeStart)
	if err != nil {
		h.fail(batch, &BatchMergeError{Err: err}, &obs, span)
		return
	}

	predictCtx := ctxkeys.WithBatchID(spanCtx, obs.BatchID)
	predictStart := time.Now()
	result, err := h.predict(predictCtx, batched)
	obs.PredictDur = time.Since(predictStart)
	if err != nil {
		h.fail(batch, &PredictorError{Err: err}, &obs, span)
		return
	}

	splitStart := time.Now()
	outputs, err := h.batcher.Split(result, ctxVal)
	obs.SplitDur = time.Since(splitStart)
	if err != nil {
		h.fail(batch, &BatchSplitError{Err: err}, &obs, span)
		return
	}
	if len(outputs) != n {
		h.fail(batch, &BatchSplitArityError{Expected: n, Got: len(outputs)}, &obs, span)
		return
	}

	for i, it := range batch {
		it.handle.SetValue(outputs[i])
	}
	h.completed.Add(int64(n))
	h.report(obs)
}

func (h *Host[I, B, C, R, O]) fail(batch []*item[I, O], err error, obs *BatchObservation, span trace.Span) {
	for _, it := range batch {
		it.handle.SetError(err)
	}
	h.failed.Add(int64(len(batch)))
	obs.Err = err
	telemetry.RecordSpanError(span, err)
	h.report(*obs)
}

func (h *Host[I, B, C, R, O]) report(obs BatchObservation) {
	if h.onBatch != nil {
		h.onBatch(obs)
	}
	if obs.Err != nil {
		h.logger.Warn("batch failed",
			zap.String("batch_id", obs.BatchID),
			zap.Int("batch_size", obs.Size),
			zap.Error(obs.Err))
		return
	}
	h.logger.Debug("batch completed",
		zap.String("batch_id", obs.BatchID),
		zap.Int("batch_size", obs.Size),
		zap.Duration("merge_dur", obs.MergeDur),
		zap.Duration("predict_dur", obs.PredictDur),
		zap.Duration("split_dur", obs.SplitDur))
}

// Stats is a point-in-time snapshot of the host's counters.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Batched   int64 `json:"batched"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Queued    int   `json:"queued"`
}

// BatchSizeAvg returns the average number of items per batch observed so
// far, or 0 if no batch has completed yet.
func (s Stats) BatchSizeAvg() float64 {
	if s.Batched == 0 {
		return 0
	}
	return float64(s.Completed+s.Failed) / float64(s.Batched)
}

// Stats returns a snapshot of the host's counters.
func (h *Host[I, B, C, R, O]) Stats() Stats {
	return Stats{
		Submitted: h.submitted.Load(),
		Batched:   h.batched.Load(),
		Completed: h.completed.Load(),
		Failed:    h.failed.Load(),
		Queued:    h.q.len(),
	}
}
