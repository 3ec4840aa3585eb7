// Package tile defines the tile model: a (z,x,y) index plus the decoded
// vector payload and the transient screen anchor the viewport selector
// assigns it each frame.
package tile

import (
	"github.com/kiesman99/mapview/pkg/mvt"
	"github.com/kiesman99/mapview/pkg/projection"
)

// ScreenPos is a tile's top-left pixel in the current frame.
type ScreenPos struct {
	X, Y int
}

// Tile is (z,x,y) plus an optional decoded payload and a transient screen
// anchor. Equality is defined on (z,x,y) only, by Equal.
type Tile struct {
	Z, X, Y int

	// Payload is nil until a tile source has successfully decoded it.
	Payload *mvt.Tile

	// ScreenPos is rewritten every frame by the viewport selector; it is
	// meaningless outside of the frame that set it.
	ScreenPos ScreenPos
}

// FromProto constructs a Tile from a decoded MVT payload. payload may be
// nil (an empty-payload tile, e.g. from a dummy source or a failed fetch).
func FromProto(z, x, y int, payload *mvt.Tile) *Tile {
	return &Tile{Z: z, X: x, Y: y, Payload: payload}
}

// Equal compares tiles by (z,x,y) only, per spec.
func (t *Tile) Equal(o *Tile) bool {
	return t.Z == o.Z && t.X == o.X && t.Y == o.Y
}

// Bounds returns the tile's geographic bounding box in degrees.
func (t *Tile) Bounds() (north, south, east, west float64) {
	return projection.TileBounds(t.Z, t.X, t.Y)
}

// Clone returns a shallow copy of t with a fresh ScreenPos. The payload
// pointer is shared (it is immutable once decoded), matching the spec's
// "handed out by value, cloned, per frame" tile-source contract without
// paying to deep-copy layer/feature slices on every cache hit.
func (t *Tile) Clone() *Tile {
	c := *t
	c.ScreenPos = ScreenPos{}
	return &c
}
