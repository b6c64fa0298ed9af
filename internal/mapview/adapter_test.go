package mapview

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopmatch/internal/config"
	"github.com/hoopmatch/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.MapConfig {
	return &config.MapConfig{
		ReadyPollInterval: 5 * time.Millisecond,
		ReadyTimeout:      time.Second,
	}
}

// fakeSurface records every layer replacement and becomes ready on demand
type fakeSurface struct {
	mu       sync.Mutex
	ready    bool
	replaced map[Layer][][]Marker
	center   []domain.Location
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{replaced: make(map[Layer][][]Marker)}
}

func (s *fakeSurface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *fakeSurface) setReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}

func (s *fakeSurface) ReplaceMarkers(layer Layer, markers []Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced[layer] = append(s.replaced[layer], markers)
}

func (s *fakeSurface) SetCenter(loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = append(s.center, loc)
}

func (s *fakeSurface) batches(layer Layer) [][]Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]Marker(nil), s.replaced[layer]...)
}

func someGames() []domain.Game {
	return []domain.Game{
		{ID: 1, CourtName: "Riverside", LocationLat: 37.5, LocationLng: 127.0},
		{ID: 2, CourtName: "Hilltop", LocationLat: 37.6, LocationLng: 127.1},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never reached")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestAdapterAppliesImmediatelyWhenReady(t *testing.T) {
	surface := newFakeSurface()
	surface.setReady()

	a := NewAdapter(surface, testConfig(), testLogger())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	waitFor(t, a.isReady)

	a.ShowGames(someGames())

	batches := surface.batches(LayerGames)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
	assert.Equal(t, "Riverside", batches[0][0].Label)
}

func TestAdapterDefersUntilReady(t *testing.T) {
	surface := newFakeSurface()

	a := NewAdapter(surface, testConfig(), testLogger())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	a.ShowGames(someGames())
	a.CenterOn(domain.Location{Latitude: 37.5, Longitude: 127.0})

	// Nothing drawn while the surface is down
	assert.Empty(t, surface.batches(LayerGames))

	surface.setReady()

	waitFor(t, func() bool { return len(surface.batches(LayerGames)) == 1 })
	assert.Len(t, surface.batches(LayerGames)[0], 2)

	surface.mu.Lock()
	centers := len(surface.center)
	surface.mu.Unlock()
	assert.Equal(t, 1, centers)
}

func TestAdapterLatestBatchWinsWhileDeferred(t *testing.T) {
	surface := newFakeSurface()

	a := NewAdapter(surface, testConfig(), testLogger())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	a.ShowGames(someGames())
	a.ShowGames([]domain.Game{{ID: 3, CourtName: "Dockside"}})

	surface.setReady()
	waitFor(t, func() bool { return len(surface.batches(LayerGames)) == 1 })

	// Only the newest pending batch was applied
	batch := surface.batches(LayerGames)[0]
	require.Len(t, batch, 1)
	assert.Equal(t, int64(3), batch[0].ID)
}

func TestAdapterLayersAreIndependent(t *testing.T) {
	surface := newFakeSurface()
	surface.setReady()

	a := NewAdapter(surface, testConfig(), testLogger())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()
	waitFor(t, a.isReady)

	a.ShowGames(someGames())
	a.ShowCourts([]domain.Court{{ID: 10, Name: "Riverside", LocationLat: 37.5, LocationLng: 127.0}})
	a.ShowGames(nil)

	gameBatches := surface.batches(LayerGames)
	require.Len(t, gameBatches, 2)
	assert.Empty(t, gameBatches[1], "an empty refresh clears the layer")

	courtBatches := surface.batches(LayerCourts)
	require.Len(t, courtBatches, 1)
	assert.Equal(t, int64(10), courtBatches[0][0].ID)
}

func TestAdapterReadyTimeoutDropsPending(t *testing.T) {
	surface := newFakeSurface()

	cfg := &config.MapConfig{
		ReadyPollInterval: time.Millisecond,
		ReadyTimeout:      20 * time.Millisecond,
	}
	a := NewAdapter(surface, cfg, testLogger())
	require.NoError(t, a.Start(context.Background()))
	defer a.Stop()

	a.ShowGames(someGames())
	time.Sleep(50 * time.Millisecond)

	surface.setReady()
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, surface.batches(LayerGames), "batches must not outlive the ready timeout")
}

func TestAdapterMarkerTapped(t *testing.T) {
	a := NewAdapter(newFakeSurface(), testConfig(), testLogger())

	var gameClicks, courtClicks []int64
	a.OnGameClick(func(id int64) { gameClicks = append(gameClicks, id) })
	a.OnCourtClick(func(id int64) { courtClicks = append(courtClicks, id) })

	a.MarkerTapped(LayerGames, 5)
	a.MarkerTapped(LayerCourts, 10)
	a.MarkerTapped(Layer("unknown"), 99)

	assert.Equal(t, []int64{5}, gameClicks)
	assert.Equal(t, []int64{10}, courtClicks)
}

func TestConsoleSurface(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSurface(&buf)

	assert.True(t, s.Ready())
	s.ReplaceMarkers(LayerGames, []Marker{{ID: 1, Label: "Riverside", Latitude: 37.5, Longitude: 127.0}})
	s.SetCenter(domain.Location{Latitude: 37.5, Longitude: 127.0})

	out := buf.String()
	assert.Contains(t, out, "games: 1 markers")
	assert.Contains(t, out, "Riverside")
	assert.Contains(t, out, "center")
}
