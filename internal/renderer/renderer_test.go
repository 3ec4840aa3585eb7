package renderer

import (
	"context"
	"testing"

	"github.com/kiesman99/mapview/pkg/projection"
	"github.com/kiesman99/mapview/pkg/tilesource"
)

func newTestRenderer() *Renderer {
	return New(40, 24, projection.Coords{Lat: 48.8566, Lon: 2.349}, tilesource.DummySource{})
}

func TestNewAtZoomClampsToValidRange(t *testing.T) {
	r := NewAtZoom(40, 24, projection.Coords{}, 99, tilesource.DummySource{})
	if r.Zoom != maxZoom {
		t.Errorf("got zoom=%d, want clamped to %d", r.Zoom, maxZoom)
	}
	r = NewAtZoom(40, 24, projection.Coords{}, -5, tilesource.DummySource{})
	if r.Zoom != minZoom {
		t.Errorf("got zoom=%d, want clamped to %d", r.Zoom, minZoom)
	}
}

func TestZoomInCrossesIntegerBoundary(t *testing.T) {
	r := newTestRenderer()
	r.Subzoom = 1.9
	r.ZoomIn()
	if r.Zoom != 1 || r.Subzoom != subzoomFloor {
		t.Errorf("got zoom=%d subzoom=%.2f, want zoom=1 subzoom=%.2f", r.Zoom, r.Subzoom, subzoomFloor)
	}
}

func TestZoomInCappedAtMaxZoom(t *testing.T) {
	r := newTestRenderer()
	r.Zoom = maxZoom
	r.Subzoom = 1.9
	r.ZoomIn()
	if r.Zoom != maxZoom {
		t.Errorf("zoom exceeded cap: %d", r.Zoom)
	}
}

func TestZoomOutFlooredAtZero(t *testing.T) {
	r := newTestRenderer()
	r.Zoom = 0
	r.Subzoom = 1.0
	r.ZoomOut()
	if r.Zoom != 0 {
		t.Errorf("zoom went negative: %d", r.Zoom)
	}
}

func TestZoomRoundTripAwayFromBoundary(t *testing.T) {
	r := newTestRenderer()
	r.Zoom = 5
	r.Subzoom = 1.5
	r.ZoomIn()
	r.ZoomOut()
	if r.Zoom != 5 || r.Subzoom != 1.5 {
		t.Errorf("round trip changed state: zoom=%d subzoom=%.2f, want zoom=5 subzoom=1.5", r.Zoom, r.Subzoom)
	}
}

func TestPanLeftRightWraps(t *testing.T) {
	r := newTestRenderer()
	r.Center.Lon = 179.9
	r.Zoom = 0
	r.Pan(PanRight)
	if r.Center.Lon > 0 {
		t.Errorf("expected longitude to wrap past 180, got %v", r.Center.Lon)
	}
}

func TestPanUpDownClampsLatitude(t *testing.T) {
	r := newTestRenderer()
	r.Center.Lat = 79.9
	r.Zoom = 0
	r.Pan(PanUp)
	if r.Center.Lat > maxPanLat {
		t.Errorf("expected latitude clamped to %v, got %v", maxPanLat, r.Center.Lat)
	}
}

func TestScaleTolerance(t *testing.T) {
	r := newTestRenderer()
	r.Tolerance = 2.0
	r.ScaleTolerance(1.5)
	if r.Tolerance != 3.0 {
		t.Errorf("got tolerance %v, want 3.0", r.Tolerance)
	}
}

func TestDrawNeverPanicsWithDummySource(t *testing.T) {
	r := newTestRenderer()
	tiles := r.Draw(context.Background())
	if len(tiles) == 0 {
		t.Error("expected at least one tile from a full-screen draw")
	}
}

func TestStatusLineAlwaysPresent(t *testing.T) {
	r := newTestRenderer()
	if r.StatusLine() == "" {
		t.Error("expected non-empty status line")
	}
}
