package mapview

import (
	"fmt"
	"io"
	"sync"

	"github.com/hoopmatch/internal/domain"
)

// ConsoleSurface renders marker layers as text. It stands in for a real map
// widget in the terminal client and is ready as soon as it exists.
type ConsoleSurface struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSurface creates a surface writing to w
func NewConsoleSurface(w io.Writer) *ConsoleSurface {
	return &ConsoleSurface{w: w}
}

// Ready always reports true; there is no widget to wait for
func (s *ConsoleSurface) Ready() bool {
	return true
}

// ReplaceMarkers prints the layer's new marker set
func (s *ConsoleSurface) ReplaceMarkers(layer Layer, markers []Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "[map] %s: %d markers\n", layer, len(markers))
	for _, m := range markers {
		fmt.Fprintf(s.w, "  #%d %s (%.4f, %.4f)\n", m.ID, m.Label, m.Latitude, m.Longitude)
	}
}

// SetCenter prints the new map center
func (s *ConsoleSurface) SetCenter(loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "[map] center (%.4f, %.4f)\n", loc.Latitude, loc.Longitude)
}
