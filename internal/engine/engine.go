// Package engine owns the current dog: it restores it on start, applies
// periodic decay and interactions, and persists every change in the
// background.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"puppyparty/internal/dog"
	"puppyparty/internal/store"
)

// DogKey is the store key holding the serialized current dog.
const DogKey = "currentDog"

const (
	DefaultDecayInterval = time.Minute
	DefaultWriteTimeout  = 5 * time.Second
)

// ErrAlreadyInitialized is returned when Initialize is called twice.
var ErrAlreadyInitialized = errors.New("engine: already initialized")

// Engine is the pet state engine. It is safe for concurrent use; the decay
// timer runs on its own goroutine and every operation takes the state lock.
type Engine struct {
	store         store.Store
	now           func() time.Time
	newID         func() string
	decayInterval time.Duration
	writeTimeout  time.Duration
	log           zerolog.Logger

	mu          sync.Mutex
	current     *dog.Dog
	initialized bool
	running     bool

	writes     *writeQueue
	stopTicker context.CancelFunc
	tickerDone chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDecayInterval sets the period of the decay timer.
func WithDecayInterval(d time.Duration) Option {
	return func(e *Engine) { e.decayInterval = d }
}

// WithWriteTimeout bounds each background store call.
func WithWriteTimeout(d time.Duration) Option {
	return func(e *Engine) { e.writeTimeout = d }
}

// WithLogger sets the logger; the engine adds a component field to it.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithIDSource replaces the dog id generator.
func WithIDSource(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New returns an engine bound to st. Nothing runs until Initialize.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:         st,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         newDogID,
		decayInterval: DefaultDecayInterval,
		writeTimeout:  DefaultWriteTimeout,
		log:           log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("component", "engine").Logger()
	return e
}

// newDogID returns a time-ordered UUIDv7, falling back to a random one.
func newDogID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Initialize restores the saved dog, if any, then arms the decay timer and
// starts the background writer. Read and parse failures are logged and leave
// the engine with no dog.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return ErrAlreadyInitialized
	}
	e.initialized = true

	e.current = e.load(ctx)

	e.writes = newWriteQueue()
	go e.runWriter()

	tickerCtx, cancel := context.WithCancel(context.Background())
	e.stopTicker = cancel
	e.tickerDone = make(chan struct{})
	go e.runDecayTimer(tickerCtx)

	e.running = true
	return nil
}

func (e *Engine) load(ctx context.Context) *dog.Dog {
	data, err := e.store.Get(ctx, DogKey)
	if errors.Is(err, store.ErrNotFound) {
		e.log.Info().Msg("no saved dog")
		return nil
	}
	if err != nil {
		e.log.Error().Err(err).Str("key", DogKey).Msg("error loading dog from storage")
		return nil
	}

	var d *dog.Dog
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		e.log.Error().Err(err).Str("key", DogKey).Msg("saved dog is malformed, starting without one")
		return nil
	}
	if d == nil || d.ID == "" {
		e.log.Error().Str("key", DogKey).Msg("saved dog has no id, starting without one")
		return nil
	}
	d.Normalize()

	e.log.Info().Str("id", d.ID).Str("name", d.Name).Msg("restored dog")
	return d
}

// Dispose stops the decay timer, waits for writes issued so far to land and
// stops the writer. Later operations only change memory. Safe to call twice.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.mu.Unlock()

	e.stopTicker()
	<-e.tickerDone

	close(e.writes.stop)
	<-e.writes.done
	e.log.Debug().Msg("engine disposed")
}

func (e *Engine) runDecayTimer(ctx context.Context) {
	defer close(e.tickerDone)

	ticker := time.NewTicker(e.decayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.ApplyDecay()
		}
	}
}

// Current returns a copy of the current dog and whether one exists.
func (e *Engine) Current() (dog.Dog, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return dog.Dog{}, false
	}
	return *e.current, true
}

// Create replaces any existing dog with a new one. The name is expected to
// be validated by the caller.
func (e *Engine) Create(name string, look dog.Appearance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := dog.New(e.newID(), name, look, e.now())
	e.current = &d
	e.log.Info().Str("id", d.ID).Str("name", d.Name).Msg("created dog")
	e.save()
}

// ApplyDecay runs one decay step against the current clock. No-op without a dog.
func (e *Engine) ApplyDecay() {
	e.mutate("decay", func(d *dog.Dog, now time.Time) {
		if d.Decay(now) {
			e.log.Debug().Int("hunger", d.Hunger).Int("energy", d.Energy).Int("happiness", d.Happiness).Msg("stats decayed")
		}
	})
}

// Feed fills the dog's belly and stamps the feeding time.
func (e *Engine) Feed() {
	e.mutate("feed", func(d *dog.Dog, now time.Time) { d.Feed(now) })
}

// Play raises energy and happiness and stamps the play time.
func (e *Engine) Play() {
	e.mutate("play", func(d *dog.Dog, now time.Time) { d.Play(now) })
}

// Pet gives a small happiness boost.
func (e *Engine) Pet() {
	e.mutate("pet", func(d *dog.Dog, _ time.Time) { d.Pet() })
}

// Reset forgets the dog and deletes the saved record.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = nil
	e.log.Info().Msg("dog reset")
	e.enqueue(writeOp{kind: opDelete})
}

// mutate applies f to the current dog and persists the result.
func (e *Engine) mutate(action string, f func(d *dog.Dog, now time.Time)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return
	}
	f(e.current, e.now())
	e.log.Debug().Str("action", action).
		Int("hunger", e.current.Hunger).
		Int("energy", e.current.Energy).
		Int("happiness", e.current.Happiness).
		Msg("dog updated")
	e.save()
}

// save serializes the whole record and queues it. Caller holds e.mu.
func (e *Engine) save() {
	data, err := json.Marshal(e.current)
	if err != nil {
		e.log.Error().Err(err).Msg("error encoding dog")
		return
	}
	e.enqueue(writeOp{kind: opSet, value: string(data)})
}

// Flush blocks until every write issued before the call has been applied,
// or ctx is done.
func (e *Engine) Flush(ctx context.Context) error {
	done := make(chan struct{})

	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.enqueue(writeOp{kind: opBarrier, done: done})
	e.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
