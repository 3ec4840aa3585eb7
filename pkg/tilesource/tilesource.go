// Package tilesource provides pluggable fetchers for vector tiles, plus an
// LRU-caching decorator that wraps any of them.
package tilesource

import (
	"context"
	"fmt"

	"github.com/kiesman99/mapview/pkg/mvt"
	"github.com/kiesman99/mapview/pkg/tile"
)

// ErrKind classifies a tile fetch failure so callers can tell a dead
// network apart from a malformed response.
type ErrKind int

const (
	// ErrNetwork covers transport failures: DNS, connection refused,
	// timeouts, non-2xx responses.
	ErrNetwork ErrKind = iota
	// ErrProtoDecode covers a 2xx response whose body is not a valid MVT
	// tile.
	ErrProtoDecode
	// ErrUnknown covers anything else. CachedSource does not cache
	// failures, so it never replays one under this kind.
	ErrUnknown
)

func (k ErrKind) String() string {
	switch k {
	case ErrNetwork:
		return "network"
	case ErrProtoDecode:
		return "proto-decode"
	default:
		return "unknown"
	}
}

// FetchError is the error type every Source returns on failure.
type FetchError struct {
	Kind    ErrKind
	Z, X, Y int
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("tile (%d/%d/%d): %s: %v", e.Z, e.X, e.Y, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Source fetches a single tile by index. Implementations must be safe to
// call from a single caller goroutine at a time; the renderer calls Fetch
// synchronously from the render loop per spec's single-threaded model.
type Source interface {
	Fetch(ctx context.Context, z, x, y int) (*tile.Tile, error)
}

// DummySource always returns an empty-payload tile at the requested index.
// It never fails and never hits the network, useful for headless testing
// and the --tileserver=dummy development mode.
type DummySource struct{}

func (DummySource) Fetch(ctx context.Context, z, x, y int) (*tile.Tile, error) {
	return tile.FromProto(z, x, y, &mvt.Tile{}), nil
}
