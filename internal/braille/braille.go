// Package braille packs a monochrome pixel framebuffer into rows of
// Unicode Braille glyphs, 2x4 pixels per glyph.
package braille

import (
	"strings"

	"github.com/kiesman99/mapview/internal/raster"
)

const base rune = 0x2800

// dotBit maps a (col, row) offset within a 2x4 cell to the Braille dot
// bit it sets. Unicode's Braille block orders dots 1,2,3,7 down the left
// column and 4,5,6,8 down the right column, not row-major.
var dotBit = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40}, // left column: dots 1,2,3,7
	{0x08, 0x10, 0x20, 0x80}, // right column: dots 4,5,6,8
}

// Pack converts fb into h/4 strings of w/2 Braille code points each, one
// string per row of cells, top to bottom.
func Pack(fb *raster.Framebuffer) []string {
	w, h := fb.Width(), fb.Height()
	rows := make([]string, 0, h/4)

	for cellY := 0; cellY < h; cellY += 4 {
		var line strings.Builder
		for cellX := 0; cellX < w; cellX += 2 {
			var bits uint8
			for col := 0; col < 2; col++ {
				for row := 0; row < 4; row++ {
					if fb.At(raster.Point{X: cellX + col, Y: cellY + row}) {
						bits |= dotBit[col][row]
					}
				}
			}
			line.WriteRune(base + rune(bits))
		}
		rows = append(rows, line.String())
	}
	return rows
}
