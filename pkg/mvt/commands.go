package mvt

import "fmt"

// CommandKind is the tag of a decoded geometry command.
type CommandKind int

const (
	MoveTo CommandKind = iota
	LineTo
	ClosePath
)

// Command is one decoded drawing instruction. Dx/Dy are tile-local integer
// deltas and are meaningless for ClosePath.
type Command struct {
	Kind   CommandKind
	Dx, Dy int32
}

const (
	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

// ParseCommandInteger splits a command integer into its command id (low 3
// bits) and repetition count (high 29 bits).
func ParseCommandInteger(ci uint32) (id, count uint32) {
	return ci & 0x7, ci >> 3
}

// DecodeZigZag decodes a zig-zag encoded parameter integer.
func DecodeZigZag(p uint32) int32 {
	return int32(p>>1) ^ -int32(p&1)
}

// DecodeCommands parses a feature's raw geometry stream into an ordered
// sequence of drawing commands, per the MVT command/parameter integer
// encoding. An unrecognized command id is a fatal error for the feature;
// a truncated parameter stream is likewise fatal.
func DecodeCommands(geometry []uint32) ([]Command, error) {
	var out []Command

	i := 0
	for i < len(geometry) {
		id, count := ParseCommandInteger(geometry[i])
		i++

		switch id {
		case cmdMoveTo, cmdLineTo:
			for c := uint32(0); c < count; c++ {
				if i+1 >= len(geometry) {
					return nil, fmt.Errorf("mvt: truncated parameter stream")
				}
				dx := DecodeZigZag(geometry[i])
				dy := DecodeZigZag(geometry[i+1])
				i += 2

				kind := MoveTo
				if id == cmdLineTo {
					kind = LineTo
				}
				out = append(out, Command{Kind: kind, Dx: dx, Dy: dy})
			}
		case cmdClosePath:
			for c := uint32(0); c < count; c++ {
				out = append(out, Command{Kind: ClosePath})
			}
		default:
			return nil, fmt.Errorf("mvt: unknown command id %d", id)
		}
	}
	return out, nil
}

// Point is a cursor position in the tile-local integer grid.
type Point struct {
	X, Y int32
}

// CommandsToPolylines replays a command stream with a stateful cursor
// starting at (0,0), producing one polyline per MoveTo run. ClosePath is a
// no-op here: this renderer is monochrome and outlines polygons, it never
// fills them, so the closing edge carries no extra information.
func CommandsToPolylines(commands []Command) [][]Point {
	var polylines [][]Point
	var current []Point
	cursor := Point{}

	flush := func() {
		if len(current) > 0 {
			polylines = append(polylines, current)
			current = nil
		}
	}

	for _, cmd := range commands {
		switch cmd.Kind {
		case MoveTo:
			flush()
			cursor.X += cmd.Dx
			cursor.Y += cmd.Dy
			current = []Point{cursor}
		case LineTo:
			if len(current) == 0 {
				current = append(current, cursor)
			}
			cursor.X += cmd.Dx
			cursor.Y += cmd.Dy
			current = append(current, cursor)
		case ClosePath:
			// no fill: intentionally ignored
		}
	}
	flush()

	return polylines
}
