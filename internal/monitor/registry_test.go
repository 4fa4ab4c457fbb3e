package monitor_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamcast/roamcast/internal/monitor"
	"github.com/roamcast/roamcast/internal/trigger"
	"github.com/roamcast/roamcast/internal/weather"
)

func newTestRegistry(provider *fakeProvider, cfg monitor.RegistryConfig) *monitor.Registry {
	cfg.Provider = provider
	cfg.Logger = zerolog.Nop()
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewFakeClock()
	}
	return monitor.NewRegistry(cfg)
}

func TestRegistryGetOrCreateIsStable(t *testing.T) {
	r := newTestRegistry(newFakeProvider(), monitor.RegistryConfig{})

	m1, err := r.GetOrCreate("trip_1")
	require.NoError(t, err)
	m2, err := r.GetOrCreate("trip_1")
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	m3, err := r.GetOrCreate("trip_2")
	require.NoError(t, err)
	assert.NotSame(t, m1, m3)

	assert.ElementsMatch(t, []string{"trip_1", "trip_2"}, r.TripIDs())
}

func TestRegistryGet(t *testing.T) {
	r := newTestRegistry(newFakeProvider(), monitor.RegistryConfig{})

	_, ok := r.Get("trip_1")
	assert.False(t, ok)

	created, err := r.GetOrCreate("trip_1")
	require.NoError(t, err)

	got, ok := r.Get("trip_1")
	assert.True(t, ok)
	assert.Same(t, created, got)
}

func TestRegistryRemoveStopsMonitor(t *testing.T) {
	provider := newFakeProvider()
	r := newTestRegistry(provider, monitor.RegistryConfig{})

	m, err := r.GetOrCreate("trip_1")
	require.NoError(t, err)
	require.NoError(t, m.Initialize(context.Background(), "trip_1", "Lisbon", ""))
	require.NoError(t, m.Start(context.Background()))

	r.Remove("trip_1")

	_, ok := r.Get("trip_1")
	assert.False(t, ok)

	state, err := m.State()
	require.NoError(t, err)
	assert.False(t, state.IsMonitoring)
}

func TestRegistryAttachesSharedListeners(t *testing.T) {
	provider := newFakeProvider()

	var mu sync.Mutex
	var events []trigger.Event
	r := newTestRegistry(provider, monitor.RegistryConfig{
		ChangeListeners: []monitor.ChangeListener{
			monitor.ChangeListenerFunc(func(_ context.Context, ev trigger.Event) {
				mu.Lock()
				defer mu.Unlock()
				events = append(events, ev)
			}),
		},
	})

	m, err := r.GetOrCreate("trip_1")
	require.NoError(t, err)
	require.NoError(t, m.Initialize(context.Background(), "trip_1", "Lisbon", ""))

	provider.setSnapshot(weather.Snapshot{Condition: "Thunderstorm", Temperature: 20})
	m.Check(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "trip_1", events[0].TripID)
}

func TestRegistryStopAllRetainsMonitors(t *testing.T) {
	provider := newFakeProvider()
	r := newTestRegistry(provider, monitor.RegistryConfig{})

	ctx := context.Background()
	for _, id := range []string{"trip_1", "trip_2"} {
		m, err := r.GetOrCreate(id)
		require.NoError(t, err)
		require.NoError(t, m.Initialize(ctx, id, "Lisbon", ""))
		require.NoError(t, m.Start(ctx))
	}

	r.StopAll()

	assert.Len(t, r.TripIDs(), 2)
	for _, id := range []string{"trip_1", "trip_2"} {
		m, ok := r.Get(id)
		require.True(t, ok)
		state, err := m.State()
		require.NoError(t, err)
		assert.False(t, state.IsMonitoring)
	}
}

func TestRegistryInvalidDefaultsSurfaceOnCreate(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.RainProbabilityThreshold = 3
	r := newTestRegistry(newFakeProvider(), monitor.RegistryConfig{Defaults: cfg})

	_, err := r.GetOrCreate("trip_1")
	assert.ErrorIs(t, err, monitor.ErrInvalidConfig)
}
