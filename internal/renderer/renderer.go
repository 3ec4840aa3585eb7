// Package renderer implements the facade that owns viewport state, drives
// pan/zoom, and produces a full frame as Braille text lines.
package renderer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kiesman99/mapview/internal/braille"
	"github.com/kiesman99/mapview/internal/colortable"
	"github.com/kiesman99/mapview/internal/debugserver"
	"github.com/kiesman99/mapview/internal/raster"
	"github.com/kiesman99/mapview/internal/simplify"
	"github.com/kiesman99/mapview/internal/viewport"
	"github.com/kiesman99/mapview/pkg/mvt"
	"github.com/kiesman99/mapview/pkg/projection"
	"github.com/kiesman99/mapview/pkg/tile"
	"github.com/kiesman99/mapview/pkg/tilesource"
)

const (
	minZoom           = 0
	maxZoom           = 14
	subzoomFloor      = 1.0
	subzoomCeil       = 2.0
	zoomStep          = 0.2
	panDegreesAtZoom0 = 5.0
	maxPanLat         = 80.0
	defaultTolerance  = 1.0

	// ToleranceFactor is the per-keypress scale applied by the +/- keys.
	ToleranceFactor = 1.5
)

// Renderer owns the viewport, framebuffer, and tile source, and composes
// projection, decode, simplify, and rasterization into full frames.
type Renderer struct {
	Center      projection.Coords
	Zoom        int
	Subzoom     float64
	Simplify    bool
	Tolerance   float64
	HighQuality bool

	screenW, screenH int
	fb               *raster.Framebuffer
	source           tilesource.Source

	// mu guards the exported view-state fields above against the debug
	// server's concurrent reads; fb and source are used only by the render
	// loop and are not guarded. The render loop itself is single-threaded;
	// this exists only because the optional debug HTTP server runs on its
	// own goroutine.
	mu sync.Mutex
}

// New builds a Renderer at zoom=0, subzoom=2.0, simplify off, centered on
// center, for a screen of the given pixel size. screenW and screenH must
// already satisfy the framebuffer's 2x4 divisibility requirement.
func New(screenW, screenH int, center projection.Coords, source tilesource.Source) *Renderer {
	return NewAtZoom(screenW, screenH, center, minZoom, source)
}

// NewAtZoom builds a Renderer like New, but starting at the given integer
// zoom level (clamped to [0,14]) instead of zoom 0.
func NewAtZoom(screenW, screenH int, center projection.Coords, zoom int, source tilesource.Source) *Renderer {
	return &Renderer{
		Center:      center,
		Zoom:        int(clamp(float64(zoom), minZoom, maxZoom)),
		Subzoom:     subzoomCeil,
		Simplify:    false,
		Tolerance:   defaultTolerance,
		HighQuality: false,
		screenW:     screenW,
		screenH:     screenH,
		fb:          raster.New(screenW, screenH),
		source:      source,
	}
}

// ZoomIn increments subzoom, snapping to the next integer zoom level when
// it crosses the top of the [1.0, 2.0) band.
func (r *Renderer) ZoomIn() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Subzoom += zoomStep
	if r.Subzoom >= subzoomCeil {
		if r.Zoom < maxZoom {
			r.Zoom++
			r.Subzoom = subzoomFloor
		} else {
			r.Subzoom = subzoomCeil - 1e-9
		}
	}
}

// ZoomOut is the symmetric inverse of ZoomIn, per the expanded spec's
// resolution of the zoom_out open question: it decrements subzoom by the
// same step and snaps down to the prior integer zoom's subzoom=2.0 when
// crossing the bottom of the band, floored at zoom 0.
func (r *Renderer) ZoomOut() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Subzoom -= zoomStep
	if r.Subzoom < subzoomFloor {
		if r.Zoom > minZoom {
			r.Zoom--
			r.Subzoom = subzoomCeil
		} else {
			r.Subzoom = subzoomFloor
		}
	}
}

// Direction identifies a pan key.
type Direction int

const (
	PanLeft Direction = iota
	PanRight
	PanUp
	PanDown
)

// Pan moves Center by +-5deg/2^zoom along longitude (wrapping) or
// latitude (clamped to +-80deg).
func (r *Renderer) Pan(dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := panDegreesAtZoom0 / float64(int(1)<<uint(r.Zoom))
	switch dir {
	case PanLeft:
		r.Center.Lon = projection.WrapLon(r.Center.Lon - step)
	case PanRight:
		r.Center.Lon = projection.WrapLon(r.Center.Lon + step)
	case PanUp:
		r.Center.Lat = clamp(r.Center.Lat+step, -maxPanLat, maxPanLat)
	case PanDown:
		r.Center.Lat = clamp(r.Center.Lat-step, -maxPanLat, maxPanLat)
	}
}

// ScaleTolerance multiplies Tolerance by factor, used by the +/- keys.
func (r *Renderer) ScaleTolerance(factor float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tolerance *= factor
}

// ToggleSimplify flips polyline simplification on or off.
func (r *Renderer) ToggleSimplify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Simplify = !r.Simplify
}

// ToggleHighQuality flips the simplifier between its radial-prepass and
// pure Douglas-Peucker modes.
func (r *Renderer) ToggleHighQuality() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.HighQuality = !r.HighQuality
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Draw clears the framebuffer, fetches and paints every visible tile, and
// returns all visible tiles of the frame, including any whose fetch failed
// (their Payload stays nil). No error from a single tile ever aborts the
// frame.
func (r *Renderer) Draw(ctx context.Context) []*tile.Tile {
	r.mu.Lock()
	state := viewport.State{
		Center:  r.Center,
		Zoom:    r.Zoom,
		Subzoom: r.Subzoom,
		ScreenW: r.screenW,
		ScreenH: r.screenH,
	}
	simplifyOn, tolerance, highQuality := r.Simplify, r.Tolerance, r.HighQuality
	r.mu.Unlock()

	r.fb.Clear()
	tiles := viewport.VisibleTiles(state)

	opts := paintOptions{subzoom: state.Subzoom, simplify: simplifyOn, tolerance: tolerance, highQuality: highQuality}

	for _, t := range tiles {
		fetched, err := r.source.Fetch(ctx, t.Z, t.X, t.Y)
		if err != nil {
			log.Printf("renderer: tile (%d/%d/%d): %v", t.Z, t.X, t.Y, err)
			continue
		}
		t.Payload = fetched.Payload
		r.paintTile(t, opts)
	}

	return tiles
}

// paintOptions is the read-once-per-frame slice of viewport state the
// paint helpers need, so they never read Renderer fields directly while
// the debug server's goroutine might be reading them too.
type paintOptions struct {
	subzoom     float64
	simplify    bool
	tolerance   float64
	highQuality bool
}

func (r *Renderer) paintTile(t *tile.Tile, opts paintOptions) {
	if t.Payload == nil {
		return
	}
	tileScreen := raster.Point{X: t.ScreenPos.X, Y: t.ScreenPos.Y}
	ts := int(256.0 * opts.subzoom)
	tileRect := raster.Rect{MinX: tileScreen.X, MinY: tileScreen.Y, MaxX: tileScreen.X + ts, MaxY: tileScreen.Y + ts}

	for _, layer := range t.Payload.Layers {
		_ = colortable.Lookup(layer.Name) // extension point; monochrome renderer collapses to "pixel on"
		for _, feature := range layer.Features {
			r.paintFeature(tileScreen, tileRect, layer.Extent, feature, opts)
		}
	}
}

func (r *Renderer) paintFeature(tileScreen raster.Point, tileRect raster.Rect, extent uint32, f *mvt.Feature, opts paintOptions) {
	switch f.Type {
	case mvt.GeomUnknown:
		return
	case mvt.GeomPoint:
		r.paintPoint(tileScreen, extent, f, opts)
	default:
		r.paintLines(tileScreen, tileRect, extent, f, opts)
	}
}

func (r *Renderer) paintPoint(tileScreen raster.Point, extent uint32, f *mvt.Feature, opts paintOptions) {
	commands, err := mvt.DecodeCommands(f.Geometry)
	if err != nil {
		log.Printf("renderer: feature geometry: %v", err)
		return
	}
	cursor := mvt.Point{}
	for _, cmd := range commands {
		if cmd.Kind != mvt.MoveTo {
			continue
		}
		cursor.X += cmd.Dx
		cursor.Y += cmd.Dy
		p := raster.TilePointToScreen(tileScreen, cursor.X, cursor.Y, extent, opts.subzoom)
		r.fb.Plot(p)
	}
}

func (r *Renderer) paintLines(tileScreen raster.Point, tileRect raster.Rect, extent uint32, f *mvt.Feature, opts paintOptions) {
	commands, err := mvt.DecodeCommands(f.Geometry)
	if err != nil {
		log.Printf("renderer: feature geometry: %v", err)
		return
	}
	for _, polyline := range mvt.CommandsToPolylines(commands) {
		if opts.simplify {
			polyline = simplify.Simplify(polyline, opts.tolerance, opts.highQuality)
		}
		for i := 1; i < len(polyline); i++ {
			p := raster.TilePointToScreen(tileScreen, polyline[i-1].X, polyline[i-1].Y, extent, opts.subzoom)
			q := raster.TilePointToScreen(tileScreen, polyline[i].X, polyline[i].Y, extent, opts.subzoom)
			r.fb.DrawLine(tileRect, p, q)
		}
	}
}

// ToBraille packs the current framebuffer into terminal lines.
func (r *Renderer) ToBraille() []string {
	return braille.Pack(r.fb)
}

// StatusLine reports the renderer's current view state, always written
// regardless of tile fetch outcomes.
func (r *Renderer) StatusLine() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("center=(%.4f,%.4f) zoom=%d subzoom=%.2f simplify=%v tolerance=%.3f highq=%v",
		r.Center.Lat, r.Center.Lon, r.Zoom, r.Subzoom, r.Simplify, r.Tolerance, r.HighQuality)
}

// lenReporter is implemented by tile sources that can report their
// current cache occupancy, such as tilesource.CachedSource.
type lenReporter interface {
	Len() int
}

// Snapshot implements debugserver.StateProvider. It is the only way the
// debug HTTP goroutine observes renderer state.
func (r *Renderer) Snapshot() debugserver.StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cacheSize := 0
	if lr, ok := r.source.(lenReporter); ok {
		cacheSize = lr.Len()
	}

	return debugserver.StateSnapshot{
		Lat:         r.Center.Lat,
		Lon:         r.Center.Lon,
		Zoom:        r.Zoom,
		Subzoom:     r.Subzoom,
		Simplify:    r.Simplify,
		Tolerance:   r.Tolerance,
		HighQuality: r.HighQuality,
		CacheSize:   cacheSize,
	}
}
