package mvt

import (
	"encoding/binary"
	"fmt"
)

// Tile is the decoded envelope of a Mapbox Vector Tile: a flat list of
// named layers, each carrying its own extent and features.
//
// The outer Tile/Layer/Feature protobuf framing is the MVT wire schema the
// spec treats as "assumed available to the implementer" — it is decoded
// here with a small hand-rolled varint/length-delimited reader rather than
// a general protobuf library, because every protobuf library available in
// the retrieval pack (paulmach/orb's encoding/mvt) converts geometry
// straight into orb.Geometry and never exposes the raw per-feature
// command/parameter integer stream that the command decoder in
// commands.go is required to parse bit-exactly.
type Tile struct {
	Layers []*Layer
}

// GeomType mirrors the MVT GeomType enum.
type GeomType int

const (
	GeomUnknown GeomType = iota
	GeomPoint
	GeomLineString
	GeomPolygon
)

// Layer is a named container of features at a fixed tile-local resolution.
type Layer struct {
	Name     string
	Version  uint32
	Extent   uint32
	Features []*Feature
}

// Feature is a single geometry within a layer, still in the raw
// command/parameter integer encoding.
type Feature struct {
	ID       uint64
	Type     GeomType
	Geometry []uint32
	Tags     []uint32
}

const defaultExtent = 4096

// wire types
const (
	wireVarint = 0
	wire64bit  = 1
	wireBytes  = 2
	wire32bit  = 5
)

// Decode parses the body of an MVT protobuf message (the response body of
// a tile server GET) into its layers.
func Decode(data []byte) (*Tile, error) {
	t := &Tile{}

	pos := 0
	for pos < len(data) {
		field, wireType, n, err := readTag(data, pos)
		if err != nil {
			return nil, fmt.Errorf("mvt: truncated tile stream: %w", err)
		}
		pos = n

		switch {
		case field == 3 && wireType == wireBytes:
			payload, next, err := readBytes(data, pos)
			if err != nil {
				return nil, fmt.Errorf("mvt: truncated layer: %w", err)
			}
			pos = next

			layer, err := decodeLayer(payload)
			if err != nil {
				return nil, fmt.Errorf("mvt: layer decode: %w", err)
			}
			t.Layers = append(t.Layers, layer)
		default:
			pos, err = skipField(data, pos, wireType)
			if err != nil {
				return nil, fmt.Errorf("mvt: truncated tile stream: %w", err)
			}
		}
	}
	return t, nil
}

func decodeLayer(data []byte) (*Layer, error) {
	l := &Layer{Extent: defaultExtent, Version: 1}

	pos := 0
	for pos < len(data) {
		field, wireType, n, err := readTag(data, pos)
		if err != nil {
			return nil, err
		}
		pos = n

		switch {
		case field == 1 && wireType == wireBytes: // name
			s, next, err := readString(data, pos)
			if err != nil {
				return nil, err
			}
			l.Name = s
			pos = next
		case field == 2 && wireType == wireBytes: // features
			payload, next, err := readBytes(data, pos)
			if err != nil {
				return nil, err
			}
			pos = next

			feature, err := decodeFeature(payload)
			if err != nil {
				return nil, err
			}
			l.Features = append(l.Features, feature)
		case field == 5 && wireType == wireVarint: // extent
			v, next, err := readVarint(data, pos)
			if err != nil {
				return nil, err
			}
			l.Extent = uint32(v)
			pos = next
		case field == 15 && wireType == wireVarint: // version
			v, next, err := readVarint(data, pos)
			if err != nil {
				return nil, err
			}
			l.Version = uint32(v)
			pos = next
		default:
			pos, err = skipField(data, pos, wireType)
			if err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

func decodeFeature(data []byte) (*Feature, error) {
	f := &Feature{Type: GeomUnknown}

	pos := 0
	for pos < len(data) {
		field, wireType, n, err := readTag(data, pos)
		if err != nil {
			return nil, err
		}
		pos = n

		switch {
		case field == 1 && wireType == wireVarint: // id
			v, next, err := readVarint(data, pos)
			if err != nil {
				return nil, err
			}
			f.ID = v
			pos = next
		case field == 2: // tags, repeated uint32 (packed or unpacked)
			vals, next, err := readUint32s(data, pos, wireType)
			if err != nil {
				return nil, err
			}
			f.Tags = append(f.Tags, vals...)
			pos = next
		case field == 3 && wireType == wireVarint: // type
			v, next, err := readVarint(data, pos)
			if err != nil {
				return nil, err
			}
			f.Type = GeomType(v)
			pos = next
		case field == 4: // geometry, repeated uint32 (packed or unpacked)
			vals, next, err := readUint32s(data, pos, wireType)
			if err != nil {
				return nil, err
			}
			f.Geometry = append(f.Geometry, vals...)
			pos = next
		default:
			pos, err = skipField(data, pos, wireType)
			if err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// readUint32s reads a repeated uint32 field that may be wire-encoded either
// packed (a single length-delimited run of varints) or unpacked (one
// varint per tag). MVT encoders in the wild use the packed form.
func readUint32s(data []byte, pos int, wireType int) ([]uint32, int, error) {
	if wireType == wireBytes {
		payload, next, err := readBytes(data, pos)
		if err != nil {
			return nil, 0, err
		}
		var out []uint32
		p := 0
		for p < len(payload) {
			v, n, err := readVarint(payload, p)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, uint32(v))
			p = n
		}
		return out, next, nil
	}
	if wireType == wireVarint {
		v, next, err := readVarint(data, pos)
		if err != nil {
			return nil, 0, err
		}
		return []uint32{uint32(v)}, next, nil
	}
	return nil, 0, fmt.Errorf("mvt: unexpected wire type %d for repeated uint32", wireType)
}

func readTag(data []byte, pos int) (field, wireType, next int, err error) {
	v, next, err := readVarint(data, pos)
	if err != nil {
		return 0, 0, 0, err
	}
	return int(v >> 3), int(v & 0x7), next, nil
}

func readVarint(data []byte, pos int) (uint64, int, error) {
	var result uint64
	var shift uint
	for {
		if pos >= len(data) {
			return 0, 0, fmt.Errorf("unexpected end of buffer")
		}
		b := data[pos]
		pos++
		result |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return result, pos, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, fmt.Errorf("varint too long")
		}
	}
}

func readBytes(data []byte, pos int) ([]byte, int, error) {
	length, next, err := readVarint(data, pos)
	if err != nil {
		return nil, 0, err
	}
	end := next + int(length)
	if end < next || end > len(data) {
		return nil, 0, fmt.Errorf("length-delimited field overruns buffer")
	}
	return data[next:end], end, nil
}

func readString(data []byte, pos int) (string, int, error) {
	b, next, err := readBytes(data, pos)
	if err != nil {
		return "", 0, err
	}
	return string(b), next, nil
}

func skipField(data []byte, pos int, wireType int) (int, error) {
	switch wireType {
	case wireVarint:
		_, next, err := readVarint(data, pos)
		return next, err
	case wire64bit:
		if pos+8 > len(data) {
			return 0, fmt.Errorf("unexpected end of buffer")
		}
		_ = binary.LittleEndian.Uint64(data[pos : pos+8])
		return pos + 8, nil
	case wireBytes:
		_, next, err := readBytes(data, pos)
		return next, err
	case wire32bit:
		if pos+4 > len(data) {
			return 0, fmt.Errorf("unexpected end of buffer")
		}
		return pos + 4, nil
	default:
		return 0, fmt.Errorf("unknown wire type %d", wireType)
	}
}
