package raster

// TilePointToScreen maps a tile-local coordinate (in the layer's extent
// units) to a screen pixel, given the tile's on-screen anchor and the
// current subzoom scale.
func TilePointToScreen(tileScreenPos Point, tx, ty int32, extent uint32, subzoom float64) Point {
	scale := 256.0 * subzoom / float64(extent)
	return Point{
		X: tileScreenPos.X + int(float64(tx)*scale),
		Y: tileScreenPos.Y + int(float64(ty)*scale),
	}
}
