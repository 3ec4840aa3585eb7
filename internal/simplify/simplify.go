// Package simplify reduces polylines to fewer points within a tolerance,
// using the Douglas-Peucker algorithm with an optional radial-distance
// pre-pass for speed on dense input.
package simplify

import (
	"math"

	"github.com/kiesman99/mapview/pkg/mvt"
)

// Simplify reduces points to a subset within tolerance of the original
// curve. The first and last points are always preserved. If highQuality
// is false, a cheap radial-distance pass first discards points closer
// than tolerance to their predecessor, before the full Douglas-Peucker
// pass runs on what remains; if true, Douglas-Peucker runs directly on
// the full input. A tolerance of zero, or fewer than 3 points, returns
// points unchanged.
func Simplify(points []mvt.Point, tolerance float64, highQuality bool) []mvt.Point {
	if len(points) < 3 || tolerance <= 0 {
		return points
	}

	working := points
	if !highQuality {
		working = radialDistance(points, tolerance)
		if len(working) < 3 {
			return working
		}
	}

	keep := make([]bool, len(working))
	keep[0] = true
	keep[len(working)-1] = true
	douglasPeucker(working, 0, len(working)-1, tolerance, keep)

	out := make([]mvt.Point, 0, len(working))
	for i, k := range keep {
		if k {
			out = append(out, working[i])
		}
	}
	return out
}

func radialDistance(points []mvt.Point, tolerance float64) []mvt.Point {
	out := make([]mvt.Point, 0, len(points))
	out = append(out, points[0])
	last := points[0]
	for i := 1; i < len(points)-1; i++ {
		if distance(points[i], last) >= tolerance {
			out = append(out, points[i])
			last = points[i]
		}
	}
	out = append(out, points[len(points)-1])
	return out
}

func douglasPeucker(points []mvt.Point, start, end int, tolerance float64, keep []bool) {
	if end <= start+1 {
		return
	}

	var maxDist float64
	maxIdx := -1
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[start], points[end])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxIdx == -1 || maxDist <= tolerance {
		return
	}

	keep[maxIdx] = true
	douglasPeucker(points, start, maxIdx, tolerance, keep)
	douglasPeucker(points, maxIdx, end, tolerance, keep)
}

func distance(a, b mvt.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy)
}

func perpendicularDistance(p, a, b mvt.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	if dx == 0 && dy == 0 {
		return distance(p, a)
	}

	num := dy*float64(p.X-a.X) - dx*float64(p.Y-a.Y)
	return math.Abs(num) / math.Hypot(dx, dy)
}
