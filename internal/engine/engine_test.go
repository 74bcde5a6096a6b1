package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puppyparty/internal/dog"
	"puppyparty/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var rexLook = dog.Appearance{
	BodyColor:  dog.BodyColorBrown,
	Size:       dog.SizeMedium,
	Tail:       dog.TailSmall,
	Background: dog.BackgroundGrass,
}

// startEngine builds and initializes an engine whose timer never fires
// during the test unless an interval is given.
func startEngine(t *testing.T, st store.Store, clock *fakeClock, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{
		WithClock(clock.Now),
		WithDecayInterval(time.Hour),
		WithLogger(zerolog.Nop()),
	}, opts...)
	e := New(st, opts...)
	require.NoError(t, e.Initialize(context.Background()))
	t.Cleanup(e.Dispose)
	return e
}

func flush(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Flush(ctx))
}

func savedDog(t *testing.T, st store.Store) dog.Dog {
	t.Helper()
	data, err := st.Get(context.Background(), DogKey)
	require.NoError(t, err)
	var d dog.Dog
	require.NoError(t, json.Unmarshal([]byte(data), &d))
	return d
}

func TestInitializeWithoutSavedDog(t *testing.T) {
	e := startEngine(t, store.NewMemory(), newFakeClock())

	_, ok := e.Current()
	assert.False(t, ok)
}

func TestInitializeTwice(t *testing.T) {
	e := startEngine(t, store.NewMemory(), newFakeClock())

	assert.ErrorIs(t, e.Initialize(context.Background()), ErrAlreadyInitialized)
}

func TestCreate(t *testing.T) {
	clock := newFakeClock()
	st := store.NewMemory()
	e := startEngine(t, st, clock, WithIDSource(func() string { return "dog-1" }))

	e.Create("Rex", rexLook)

	d, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "dog-1", d.ID)
	assert.Equal(t, "Rex", d.Name)
	assert.Equal(t, rexLook, d.Appearance)
	assert.Equal(t, 50, d.Happiness)
	assert.Equal(t, 50, d.Energy)
	assert.Equal(t, 50, d.Hunger)
	assert.True(t, d.LastFed.Equal(clock.Now()))
	assert.True(t, d.LastPlayed.Equal(clock.Now()))

	flush(t, e)
	assert.Equal(t, "Rex", savedDog(t, st).Name)
}

func TestCreateReplacesExistingDog(t *testing.T) {
	e := startEngine(t, store.NewMemory(), newFakeClock())

	e.Create("Rex", rexLook)
	e.Feed()
	e.Create("Fido", rexLook)

	d, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "Fido", d.Name)
	assert.Equal(t, 50, d.Hunger)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	e := startEngine(t, store.NewMemory(), newFakeClock())

	e.Create("Rex", rexLook)
	first, _ := e.Current()
	e.Create("Rex", rexLook)
	second, _ := e.Current()

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestInteractions(t *testing.T) {
	clock := newFakeClock()
	st := store.NewMemory()
	e := startEngine(t, st, clock)
	e.Create("Rex", rexLook)

	clock.Advance(5 * time.Minute)
	e.Feed()
	d, _ := e.Current()
	assert.Equal(t, 60, d.Happiness)
	assert.Equal(t, 80, d.Hunger)
	assert.True(t, d.LastFed.Equal(clock.Now()))

	clock.Advance(5 * time.Minute)
	e.Play()
	d, _ = e.Current()
	assert.Equal(t, 70, d.Energy)
	assert.Equal(t, 85, d.Happiness)
	assert.True(t, d.LastPlayed.Equal(clock.Now()))

	e.Pet()
	d, _ = e.Current()
	assert.Equal(t, 90, d.Happiness)

	flush(t, e)
	saved := savedDog(t, st)
	assert.Equal(t, 90, saved.Happiness)
	assert.Equal(t, 70, saved.Energy)
	assert.Equal(t, 80, saved.Hunger)

	sets, _ := st.Writes()
	assert.Equal(t, 4, sets, "create and every interaction each write once")
}

func TestOperationsWithoutDogAreNoOps(t *testing.T) {
	st := store.NewMemory()
	e := startEngine(t, st, newFakeClock())

	e.Feed()
	e.Play()
	e.Pet()
	e.ApplyDecay()
	flush(t, e)

	_, ok := e.Current()
	assert.False(t, ok)
	sets, _ := st.Writes()
	assert.Zero(t, sets)
}

func TestApplyDecay(t *testing.T) {
	clock := newFakeClock()
	st := store.NewMemory()
	e := startEngine(t, st, clock)
	e.Create("Rex", rexLook)

	clock.Advance(45 * time.Minute)
	e.Play()
	clock.Advance(75 * time.Minute) // fed 2h ago, played 75m ago
	e.ApplyDecay()

	d, _ := e.Current()
	assert.Equal(t, 45, d.Hunger)
	assert.Equal(t, 67, d.Energy)
	assert.Equal(t, 73, d.Happiness)

	flush(t, e)
	assert.Equal(t, 45, savedDog(t, st).Hunger)
}

func TestApplyDecayHungerOnly(t *testing.T) {
	clock := newFakeClock()
	e := startEngine(t, store.NewMemory(), clock)
	e.Create("Rex", rexLook)

	clock.Advance(2 * time.Hour)
	e.Play() // lastPlayed = now, lastFed = 2h ago
	before, _ := e.Current()
	e.ApplyDecay()
	after, _ := e.Current()

	assert.Equal(t, before.Hunger-5, after.Hunger)
	assert.Equal(t, before.Energy, after.Energy)
	assert.Equal(t, before.Happiness, after.Happiness)
}

func TestDecayNeverGoesBelowZero(t *testing.T) {
	clock := newFakeClock()
	e := startEngine(t, store.NewMemory(), clock)
	e.Create("Rex", rexLook)
	clock.Advance(100 * time.Hour)

	for i := 0; i < 40; i++ {
		e.ApplyDecay()
		d, _ := e.Current()
		require.GreaterOrEqual(t, d.Hunger, 0)
		require.GreaterOrEqual(t, d.Energy, 0)
		require.GreaterOrEqual(t, d.Happiness, 0)
	}

	d, _ := e.Current()
	assert.Zero(t, d.Hunger)
	assert.Zero(t, d.Energy)
	assert.Zero(t, d.Happiness)
}

func TestDecayTimerFires(t *testing.T) {
	clock := newFakeClock()
	e := startEngine(t, store.NewMemory(), clock, WithDecayInterval(5*time.Millisecond))
	e.Create("Rex", rexLook)
	clock.Advance(3 * time.Hour)

	assert.Eventually(t, func() bool {
		d, _ := e.Current()
		return d.Hunger < 50 && d.Energy < 50
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRestartRestoresDog(t *testing.T) {
	clock := newFakeClock()
	st := store.NewMemory()
	first := startEngine(t, st, clock)
	first.Create("Rex", rexLook)
	first.Feed()
	want, _ := first.Current()
	first.Dispose()

	second := startEngine(t, st, clock)
	got, ok := second.Current()
	require.True(t, ok)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Appearance, got.Appearance)
	assert.Equal(t, want.Happiness, got.Happiness)
	assert.Equal(t, want.Energy, got.Energy)
	assert.Equal(t, want.Hunger, got.Hunger)
	assert.True(t, want.LastFed.Equal(got.LastFed))
	assert.True(t, want.LastPlayed.Equal(got.LastPlayed))
}

func TestResetClearsDog(t *testing.T) {
	clock := newFakeClock()
	st := store.NewMemory()
	first := startEngine(t, st, clock)
	first.Create("Rex", rexLook)
	first.Play()
	first.Reset()

	_, ok := first.Current()
	assert.False(t, ok)
	first.Dispose()

	_, err := st.Get(context.Background(), DogKey)
	assert.ErrorIs(t, err, store.ErrNotFound, "delete lands after the earlier writes")

	second := startEngine(t, st, clock)
	_, ok = second.Current()
	assert.False(t, ok)
}

func TestResetToleratesDeleteFailure(t *testing.T) {
	st := store.NewMemory()
	e := startEngine(t, st, newFakeClock())
	e.Create("Rex", rexLook)
	flush(t, e)

	st.SetFailures(nil, nil, errors.New("disk gone"))
	e.Reset()
	flush(t, e)

	_, ok := e.Current()
	assert.False(t, ok)
}

func TestLoadFailuresStartWithoutDog(t *testing.T) {
	t.Run("read error", func(t *testing.T) {
		st := store.NewMemory()
		st.SetFailures(errors.New("unreadable"), nil, nil)
		e := startEngine(t, st, newFakeClock())

		_, ok := e.Current()
		assert.False(t, ok)
	})

	for name, raw := range map[string]string{
		"malformed record": "{not json",
		"null record":      "null",
		"record without id": `{"name":"Rex","happiness":50,"energy":50,"hunger":50}`,
	} {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemory()
			require.NoError(t, st.Set(context.Background(), DogKey, raw))
			e := startEngine(t, st, newFakeClock())

			_, ok := e.Current()
			assert.False(t, ok)
		})
	}
}

func TestLoadToleratesUnknownFieldsAndClampsStats(t *testing.T) {
	st := store.NewMemory()
	raw := `{"id":"1717243200000","name":"Rex","bodyColor":"Golden","size":"Large","tail":"Long",
		"background":"Beach","happiness":140,"energy":-3,"hunger":42,
		"lastFed":"2024-06-01T10:00:00.000Z","lastPlayed":"2024-06-01T11:30:00.000Z","favoriteToy":"ball"}`
	require.NoError(t, st.Set(context.Background(), DogKey, raw))

	e := startEngine(t, st, newFakeClock())
	d, ok := e.Current()
	require.True(t, ok)

	assert.Equal(t, "1717243200000", d.ID)
	assert.Equal(t, dog.BodyColorGolden, d.BodyColor)
	assert.Equal(t, dog.BackgroundBeach, d.Background)
	assert.Equal(t, 100, d.Happiness)
	assert.Equal(t, 0, d.Energy)
	assert.Equal(t, 42, d.Hunger)
	assert.True(t, d.LastFed.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, d.LastPlayed.Equal(time.Date(2024, 6, 1, 11, 30, 0, 0, time.UTC)))
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	st := store.NewMemory()
	st.SetFailures(nil, errors.New("read-only"), nil)
	e := startEngine(t, st, newFakeClock())

	e.Create("Rex", rexLook)
	e.Feed()
	flush(t, e)

	d, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, 80, d.Hunger)

	_, err := st.Get(context.Background(), DogKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNoWritesAfterDispose(t *testing.T) {
	clock := newFakeClock()
	st := store.NewMemory()
	e := startEngine(t, st, clock, WithDecayInterval(time.Millisecond))
	e.Create("Rex", rexLook)
	clock.Advance(3 * time.Hour)

	e.Dispose()
	sets, _ := st.Writes()
	before, _ := e.Current()

	e.Feed()
	time.Sleep(20 * time.Millisecond)
	after, _ := st.Writes()
	assert.Equal(t, sets, after)

	d, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, min(100, before.Hunger+30), d.Hunger, "in-memory state still updates")
	assert.NoError(t, e.Flush(context.Background()))
}

// stalledStore holds every Set until released or the write times out.
type stalledStore struct {
	*store.Memory
	release chan struct{}
	once    sync.Once
}

func newStalledStore() *stalledStore {
	return &stalledStore{Memory: store.NewMemory(), release: make(chan struct{})}
}

func (s *stalledStore) Release() { s.once.Do(func() { close(s.release) }) }

func (s *stalledStore) Set(ctx context.Context, key, value string) error {
	select {
	case <-s.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.Memory.Set(ctx, key, value)
}

func TestCommandsDoNotWaitForSlowStore(t *testing.T) {
	st := newStalledStore()
	e := startEngine(t, st, newFakeClock(), WithWriteTimeout(time.Minute))
	t.Cleanup(st.Release) // before Dispose drains
	e.Create("Rex", rexLook)

	start := time.Now()
	for i := 0; i < 200; i++ {
		e.Pet()
		e.ApplyDecay()
	}
	assert.Less(t, time.Since(start), time.Second, "commands returned while the store was stuck")

	got := make(chan dog.Dog, 1)
	go func() {
		d, _ := e.Current()
		got <- d
	}()
	select {
	case d := <-got:
		assert.Equal(t, 100, d.Happiness)
	case <-time.After(time.Second):
		t.Fatal("Current blocked behind a slow write")
	}

	st.Release()
	flush(t, e)

	assert.Equal(t, 100, savedDog(t, st.Memory).Happiness, "newest record wins")
	sets, _ := st.Writes()
	assert.LessOrEqual(t, sets, 3, "superseded saves are skipped")
}

func TestSlowStoreKeepsDeleteOrder(t *testing.T) {
	st := newStalledStore()
	e := startEngine(t, st, newFakeClock(), WithWriteTimeout(time.Minute))
	t.Cleanup(st.Release) // before Dispose drains

	e.Create("Rex", rexLook)
	e.Pet()
	e.Pet()
	e.Reset()
	st.Release()
	flush(t, e)

	_, err := st.Get(context.Background(), DogKey)
	assert.ErrorIs(t, err, store.ErrNotFound, "saves queued before the reset do not outlive it")

	e.Create("Max", rexLook)
	e.Play()
	flush(t, e)
	saved := savedDog(t, st.Memory)
	assert.Equal(t, "Max", saved.Name)
	assert.Equal(t, 70, saved.Energy)
}

func TestSnapshotIsACopy(t *testing.T) {
	e := startEngine(t, store.NewMemory(), newFakeClock())
	e.Create("Rex", rexLook)

	d, _ := e.Current()
	d.Happiness = 0
	d.Name = "Changed"

	again, _ := e.Current()
	assert.Equal(t, 50, again.Happiness)
	assert.Equal(t, "Rex", again.Name)
}

func TestConcurrentOperationsStayInRange(t *testing.T) {
	clock := newFakeClock()
	e := startEngine(t, store.NewMemory(), clock, WithDecayInterval(time.Millisecond))
	e.Create("Rex", rexLook)
	clock.Advance(2 * time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 3 {
				case 0:
					e.Feed()
				case 1:
					e.Play()
				default:
					e.Pet()
				}
			}
		}(i)
	}
	wg.Wait()
	flush(t, e)

	d, _ := e.Current()
	for _, v := range []int{d.Happiness, d.Energy, d.Hunger} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}
