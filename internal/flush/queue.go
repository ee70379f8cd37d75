// Package flush persists kanban stage moves in the background without
// blocking the UI. Unlike a detached fire-and-forget call, the queue
// serializes writes per deal, bounds concurrency across deals, coalesces
// rapid successive moves of the same card, and reports every outcome so
// the caller can roll back local state on failure.
package flush

import (
	"context"
	"sync"
	"time"

	"github.com/denifrahman/deni-crm/internal/domain"
	"golang.org/x/sync/semaphore"
)

// Writer persists one deal's current state upstream.
type Writer interface {
	PersistStage(ctx context.Context, deal domain.Deal) error
}

// Outcome reports one completed persistence attempt. Prior is the stage
// the deal held before the first coalesced move, for rollback.
type Outcome struct {
	Deal  domain.Deal
	Prior domain.Stage
	Err   error
}

// Queue schedules stage-persistence writes. Writes for the same deal are
// serialized in enqueue order; writes for different deals run in parallel
// up to the concurrency bound.
type Queue struct {
	writer Writer
	delay  time.Duration
	sem    *semaphore.Weighted
	onDone func(Outcome)

	mu       sync.Mutex
	pending  map[int64]*move // within the coalescing window, keyed by deal id
	inflight map[int64]bool
	waiting  map[int64][]*move
	closed   bool

	wg sync.WaitGroup
}

type move struct {
	deal  domain.Deal
	prior domain.Stage
	timer *time.Timer
}

// DefaultDelay is the coalescing window before a move is persisted.
const DefaultDelay = 500 * time.Millisecond

// New creates a queue with the given coalescing delay and concurrency
// bound. onDone is called once per persisted move, success or failure;
// it may be nil.
func New(writer Writer, delay time.Duration, maxConcurrent int64, onDone func(Outcome)) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if onDone == nil {
		onDone = func(Outcome) {}
	}
	return &Queue{
		writer:   writer,
		delay:    delay,
		sem:      semaphore.NewWeighted(maxConcurrent),
		onDone:   onDone,
		pending:  make(map[int64]*move),
		inflight: make(map[int64]bool),
		waiting:  make(map[int64][]*move),
	}
}

// Enqueue schedules persistence of deal's current stage after the
// coalescing delay. A second move of the same deal inside the window
// replaces the scheduled write with the newest snapshot; the recorded
// prior stage stays at the oldest un-persisted one so a rollback restores
// the last stage the backend confirmed.
func (q *Queue) Enqueue(deal domain.Deal, prior domain.Stage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	if p, ok := q.pending[deal.ID]; ok {
		p.deal = deal
		return
	}

	m := &move{deal: deal, prior: prior}
	q.pending[deal.ID] = m
	q.wg.Add(1)
	m.timer = time.AfterFunc(q.delay, func() { q.dispatch(deal.ID) })
}

// dispatch moves a deal's coalesced write out of the pending window and
// either starts it or parks it behind the deal's in-flight write.
func (q *Queue) dispatch(id int64) {
	q.mu.Lock()
	m, ok := q.pending[id]
	if !ok {
		q.mu.Unlock()
		return
	}
	delete(q.pending, id)

	if q.inflight[id] {
		q.waiting[id] = append(q.waiting[id], m)
		q.mu.Unlock()
		return
	}
	q.inflight[id] = true
	q.mu.Unlock()

	go q.run(m)
}

func (q *Queue) run(m *move) {
	for {
		ctx := context.Background()
		var err error
		if acqErr := q.sem.Acquire(ctx, 1); acqErr != nil {
			err = acqErr
		} else {
			err = q.writer.PersistStage(ctx, m.deal)
			q.sem.Release(1)
		}
		q.onDone(Outcome{Deal: m.deal, Prior: m.prior, Err: err})
		q.wg.Done()

		q.mu.Lock()
		id := m.deal.ID
		if next := q.waiting[id]; len(next) > 0 {
			m = next[0]
			q.waiting[id] = next[1:]
			q.mu.Unlock()
			continue
		}
		delete(q.waiting, id)
		q.inflight[id] = false
		q.mu.Unlock()
		return
	}
}

// Flush fires every pending coalescing timer immediately and waits for
// all scheduled writes to complete or ctx to expire.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	ids := make([]int64, 0, len(q.pending))
	for id, m := range q.pending {
		if m.timer.Stop() {
			ids = append(ids, id)
		}
	}
	q.mu.Unlock()

	for _, id := range ids {
		q.dispatch(id)
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains outstanding writes and rejects further enqueues.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	return q.Flush(ctx)
}
