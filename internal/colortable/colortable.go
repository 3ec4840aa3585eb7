// Package colortable assigns a color to an MVT layer by name. The
// terminal renderer is monochrome and collapses every entry to "pixel
// on", but the table is kept as the extension point a future color
// terminal backend would use.
package colortable

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B uint8
}

var (
	white = Color{255, 255, 255}

	table = map[string]Color{
		"aeroway":              {128, 128, 160},
		"boundary":             {200, 120, 120},
		"building":             {180, 170, 150},
		"housenumber":          {150, 150, 150},
		"landcover":            {140, 190, 120},
		"landuse":              {160, 200, 140},
		"mountain_peak":        {120, 100, 90},
		"park":                 {100, 180, 100},
		"place":                {220, 220, 220},
		"poi":                  {230, 180, 90},
		"transportation":       {230, 230, 230},
		"transportation_name":  {210, 210, 210},
		"water":                {80, 140, 210},
		"water_name":           {100, 150, 220},
		"waterway":             {80, 140, 210},
	}
)

// Lookup returns the color assigned to layer, falling back to white for
// any name not in the table.
func Lookup(layer string) Color {
	if c, ok := table[layer]; ok {
		return c
	}
	return white
}
