// Package geo positions the user on the map. Device positioning is
// abstracted behind a Source so the rest of the client never learns whether
// a coordinate came from hardware or from the configured fallback.
package geo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hoopmatch/internal/config"
	"github.com/hoopmatch/internal/domain"
)

// Source samples the device's current position. Implementations block until
// a fix is available or ctx is done.
type Source interface {
	Sample(ctx context.Context) (domain.Location, error)
}

// Fixed is a Source that always reports one coordinate. Used when the
// position is supplied explicitly rather than sampled from hardware.
type Fixed domain.Location

// Sample returns the fixed coordinate
func (f Fixed) Sample(_ context.Context) (domain.Location, error) {
	return domain.Location(f), nil
}

// Provider answers "where is the user right now", degrading to the
// configured fallback coordinate when the device cannot or will not say.
type Provider struct {
	source Source
	config *config.LocationConfig
	logger *slog.Logger
}

// NewProvider creates a location provider
func NewProvider(source Source, cfg *config.LocationConfig, logger *slog.Logger) *Provider {
	return &Provider{
		source: source,
		config: cfg,
		logger: logger,
	}
}

// Fallback returns the configured default coordinate
func (p *Provider) Fallback() domain.Location {
	return domain.Location{
		Latitude:  p.config.DefaultLat,
		Longitude: p.config.DefaultLng,
	}
}

// Current samples the device position once, bounded by the configured
// sample timeout. Unavailable or denied positioning is not an error from
// the caller's point of view; the fallback coordinate is returned and the
// failure is logged.
func (p *Provider) Current(ctx context.Context) domain.Location {
	if p.source == nil {
		return p.Fallback()
	}

	sampleCtx, cancel := context.WithTimeout(ctx, p.config.SampleTimeout)
	defer cancel()

	loc, err := p.source.Sample(sampleCtx)
	if err != nil {
		p.logger.Warn("device location unavailable, using fallback",
			"error", err,
			"fallback_lat", p.config.DefaultLat,
			"fallback_lng", p.config.DefaultLng,
		)
		return p.Fallback()
	}
	return loc
}

// Watcher periodically resamples the device position and delivers updates
// on a channel until stopped.
type Watcher struct {
	provider *Provider
	interval time.Duration
	logger   *slog.Logger
	updates  chan domain.Location
	stopCh   chan struct{}
	doneCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a position watcher
func NewWatcher(provider *Provider, cfg *config.LocationConfig, logger *slog.Logger) *Watcher {
	return &Watcher{
		provider: provider,
		interval: cfg.WatchInterval,
		logger:   logger,
		updates:  make(chan domain.Location, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Updates returns the channel position updates are delivered on. The
// channel is closed when the watcher stops.
func (w *Watcher) Updates() <-chan domain.Location {
	return w.updates
}

// Start begins the background sampling loop. The first sample is delivered
// immediately rather than one interval in.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("position watcher started", "interval", w.interval)

	go w.run(ctx)
	return nil
}

// Stop stops the background sampling loop
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("position watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.updates)

	w.deliver(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.deliver(ctx)
		}
	}
}

// deliver samples once and pushes the result, dropping the update if the
// consumer has fallen behind. A stale coordinate is worthless once a newer
// one exists.
func (w *Watcher) deliver(ctx context.Context) {
	loc := w.provider.Current(ctx)
	select {
	case w.updates <- loc:
	default:
		select {
		case <-w.updates:
		default:
		}
		select {
		case w.updates <- loc:
		default:
		}
	}
}
