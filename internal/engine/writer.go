package engine

import (
	"context"
	"sync"
)

type opKind int

const (
	opSet opKind = iota
	opDelete
	opBarrier
)

type writeOp struct {
	kind  opKind
	value string
	done  chan struct{}
}

// writeQueue holds operations the writer has not picked up yet. Every set
// carries the full record, so a set queued right behind another set
// replaces it; deletes and barriers keep their place.
type writeQueue struct {
	mu      sync.Mutex
	pending []writeOp
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (q *writeQueue) push(op writeOp) (coalesced bool) {
	q.mu.Lock()
	if n := len(q.pending); op.kind == opSet && n > 0 && q.pending[n-1].kind == opSet {
		q.pending[n-1] = op
		coalesced = true
	} else {
		q.pending = append(q.pending, op)
	}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return coalesced
}

func (q *writeQueue) take() []writeOp {
	q.mu.Lock()
	defer q.mu.Unlock()
	ops := q.pending
	q.pending = nil
	return ops
}

// enqueue hands op to the writer without blocking. Caller holds e.mu;
// operations issued before Initialize or after Dispose are dropped.
func (e *Engine) enqueue(op writeOp) {
	if !e.running {
		if op.kind != opBarrier {
			e.log.Debug().Msg("engine not running, change kept in memory only")
		}
		return
	}
	if e.writes.push(op) {
		e.log.Debug().Msg("pending save superseded by a newer one")
	}
}

// runWriter applies queued operations one at a time, in issue order, so a
// later write can never be overtaken by an earlier one. After stop it
// drains what is left and exits.
func (e *Engine) runWriter() {
	q := e.writes
	defer close(q.done)

	for {
		select {
		case <-q.wake:
			e.drain()
		case <-q.stop:
			e.drain()
			return
		}
	}
}

func (e *Engine) drain() {
	for {
		ops := e.writes.take()
		if len(ops) == 0 {
			return
		}
		for _, op := range ops {
			e.apply(op)
		}
	}
}

func (e *Engine) apply(op writeOp) {
	switch op.kind {
	case opSet:
		ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
		if err := e.store.Set(ctx, DogKey, op.value); err != nil {
			e.log.Error().Err(err).Str("key", DogKey).Msg("error saving dog to storage")
		}
		cancel()
	case opDelete:
		ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
		if err := e.store.Delete(ctx, DogKey); err != nil {
			e.log.Warn().Err(err).Str("key", DogKey).Msg("error removing dog from storage")
		}
		cancel()
	case opBarrier:
		close(op.done)
	}
}
