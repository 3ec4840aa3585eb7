// Package viewport computes which map tiles are visible for a given
// center/zoom/screen, and where each one anchors on screen.
package viewport

import (
	"math"

	"github.com/kiesman99/mapview/internal/raster"
	"github.com/kiesman99/mapview/pkg/projection"
	"github.com/kiesman99/mapview/pkg/tile"
)

// State is the viewport's geometric configuration: where the map is
// centered, at what zoom/subzoom, and how big the screen is.
type State struct {
	Center  projection.Coords
	Zoom    int
	Subzoom float64
	ScreenW int
	ScreenH int
}

const tileBasePixels = 256.0

// tileScale returns the on-screen pixel size of one tile at the current
// subzoom.
func (s State) tileScale() float64 {
	return tileBasePixels * s.Subzoom
}

// VisibleTiles returns every tile whose screen rectangle intersects the
// screen, each with ScreenPos populated. Paint order is row-major from
// top-left of the sweep rectangle, matching the spec's tie-break rule.
func VisibleTiles(s State) []*tile.Tile {
	n := 1 << uint(s.Zoom)
	ts := s.tileScale()

	xf, yf := projection.CoordsToTile(s.Center, s.Zoom)
	centerX, dx := math.Floor(xf), frac(xf)
	centerY, dy := math.Floor(yf), frac(yf)

	centerScreenX := int(math.Round(float64(s.ScreenW)/2 - ts*dx))
	centerScreenY := int(math.Round(float64(s.ScreenH)/2 - ts*dy))

	hcnt := 1 + int(math.Ceil(float64(s.ScreenW)/ts))
	vcnt := 1 + int(math.Ceil(float64(s.ScreenH)/ts))

	screen := raster.Rect{MinX: 0, MinY: 0, MaxX: s.ScreenW, MaxY: s.ScreenH}

	var out []*tile.Tile
	for i := -vcnt; i <= vcnt; i++ {
		for j := -hcnt; j <= hcnt; j++ {
			y := int(centerY) + i
			if y < 0 || y >= n {
				continue
			}
			x := wrapMod(int(centerX)+j, n)

			sx := centerScreenX + j*int(ts)
			sy := centerScreenY + i*int(ts)
			rect := raster.Rect{MinX: sx, MinY: sy, MaxX: sx + int(ts), MaxY: sy + int(ts)}
			if !screen.Intersects(rect) {
				continue
			}

			t := tile.FromProto(s.Zoom, x, y, nil)
			t.ScreenPos = tile.ScreenPos{X: sx, Y: sy}
			out = append(out, t)
		}
	}
	return out
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

// wrapMod wraps x into [0, n) for positive or negative x, matching the
// horizontal tile-grid wrap.
func wrapMod(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}
	return m
}
