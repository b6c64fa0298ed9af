// Package mapview bridges domain entities onto a map surface. The surface
// (an embedded webview, a TUI grid, a test double) reports its own
// readiness; marker batches pushed before it is ready are held and applied
// once it comes up, so callers never have to sequence themselves against
// map initialization.
package mapview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hoopmatch/internal/config"
	"github.com/hoopmatch/internal/domain"
)

// Layer identifies one independently managed marker set
type Layer string

const (
	LayerGames  Layer = "games"
	LayerCourts Layer = "courts"
)

// Marker is one pin on the surface
type Marker struct {
	ID        int64
	Latitude  float64
	Longitude float64
	Label     string
}

// Surface is the rendering target. ReplaceMarkers swaps a layer's full
// marker set; the surface never sees incremental adds, so stale pins cannot
// survive a refresh.
type Surface interface {
	Ready() bool
	ReplaceMarkers(layer Layer, markers []Marker)
	SetCenter(loc domain.Location)
}

// Adapter manages the game and court layers on a surface, deferring all
// drawing until the surface reports ready.
type Adapter struct {
	surface Surface
	config  *config.MapConfig
	logger  *slog.Logger

	mu      sync.Mutex
	ready   bool
	pending map[Layer][]Marker
	center  *domain.Location

	onGameClick  func(gameID int64)
	onCourtClick func(courtID int64)

	stopCh  chan struct{}
	doneCh  chan struct{}
	runMu   sync.Mutex
	running bool
}

// NewAdapter creates a map adapter for the given surface
func NewAdapter(surface Surface, cfg *config.MapConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		surface: surface,
		config:  cfg,
		logger:  logger,
		pending: make(map[Layer][]Marker),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// OnGameClick registers the handler for game marker taps
func (a *Adapter) OnGameClick(fn func(gameID int64)) {
	a.onGameClick = fn
}

// OnCourtClick registers the handler for court marker taps
func (a *Adapter) OnCourtClick(fn func(courtID int64)) {
	a.onCourtClick = fn
}

// Start begins polling the surface for readiness. Batches pushed before
// readiness are applied the moment the surface comes up; if the surface
// never does within the configured timeout, the pending batches are dropped
// with a warning.
func (a *Adapter) Start(ctx context.Context) error {
	a.runMu.Lock()
	if a.running {
		a.runMu.Unlock()
		return nil
	}
	a.running = true
	a.runMu.Unlock()

	go a.run(ctx)
	return nil
}

// Stop stops the readiness poll
func (a *Adapter) Stop() error {
	a.runMu.Lock()
	if !a.running {
		a.runMu.Unlock()
		return nil
	}
	a.runMu.Unlock()

	close(a.stopCh)
	<-a.doneCh

	a.runMu.Lock()
	a.running = false
	a.runMu.Unlock()
	return nil
}

func (a *Adapter) run(ctx context.Context) {
	defer close(a.doneCh)

	if a.surface.Ready() {
		a.markReady()
		return
	}

	ticker := time.NewTicker(a.config.ReadyPollInterval)
	defer ticker.Stop()

	deadline := time.NewTimer(a.config.ReadyTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stopCh:
			return
		case <-deadline.C:
			a.mu.Lock()
			dropped := len(a.pending)
			a.pending = make(map[Layer][]Marker)
			a.mu.Unlock()
			a.logger.Warn("map surface never became ready",
				"timeout", a.config.ReadyTimeout,
				"dropped_layers", dropped,
			)
			return
		case <-ticker.C:
			if a.surface.Ready() {
				a.markReady()
				return
			}
		}
	}
}

// markReady flushes every held batch in one pass
func (a *Adapter) markReady() {
	a.mu.Lock()
	a.ready = true
	pending := a.pending
	a.pending = make(map[Layer][]Marker)
	center := a.center
	a.center = nil
	a.mu.Unlock()

	for layer, markers := range pending {
		a.surface.ReplaceMarkers(layer, markers)
	}
	if center != nil {
		a.surface.SetCenter(*center)
	}
	a.logger.Info("map surface ready", "flushed_layers", len(pending))
}

func (a *Adapter) isReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// apply replaces one layer's markers, or holds the batch if the surface is
// not up yet. Later batches for the same layer supersede held ones.
func (a *Adapter) apply(layer Layer, markers []Marker) {
	a.mu.Lock()
	if !a.ready {
		a.pending[layer] = markers
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.surface.ReplaceMarkers(layer, markers)
}

// ShowGames replaces the game layer with markers for the given games
func (a *Adapter) ShowGames(games []domain.Game) {
	markers := make([]Marker, 0, len(games))
	for _, g := range games {
		markers = append(markers, Marker{
			ID:        g.ID,
			Latitude:  g.LocationLat,
			Longitude: g.LocationLng,
			Label:     g.CourtName,
		})
	}
	a.apply(LayerGames, markers)
}

// ShowCourts replaces the court layer with markers for the given courts
func (a *Adapter) ShowCourts(courts []domain.Court) {
	markers := make([]Marker, 0, len(courts))
	for _, c := range courts {
		markers = append(markers, Marker{
			ID:        c.ID,
			Latitude:  c.LocationLat,
			Longitude: c.LocationLng,
			Label:     c.Name,
		})
	}
	a.apply(LayerCourts, markers)
}

// CenterOn recenters the surface, deferring like marker batches do
func (a *Adapter) CenterOn(loc domain.Location) {
	a.mu.Lock()
	if !a.ready {
		a.center = &loc
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.surface.SetCenter(loc)
}

// MarkerTapped routes a surface tap to the registered layer handler.
// Surfaces call this from their own event loop.
func (a *Adapter) MarkerTapped(layer Layer, id int64) {
	switch layer {
	case LayerGames:
		if a.onGameClick != nil {
			a.onGameClick(id)
		}
	case LayerCourts:
		if a.onCourtClick != nil {
			a.onCourtClick(id)
		}
	}
}
