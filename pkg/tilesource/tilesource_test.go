package tilesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kiesman99/mapview/pkg/tile"
)

func TestDummySourceAlwaysSucceeds(t *testing.T) {
	var s DummySource
	tl, err := s.Fetch(context.Background(), 5, 16, 11)
	if err != nil {
		t.Fatalf("DummySource.Fetch: %v", err)
	}
	if tl.Z != 5 || tl.X != 16 || tl.Y != 11 {
		t.Errorf("got tile %+v, want (5,16,11)", tl)
	}
}

// countingSource wraps a Source and counts upstream Fetch calls, used to
// prove the cache actually short-circuits the network.
type countingSource struct {
	inner Source
	calls int32
}

func (c *countingSource) Fetch(ctx context.Context, z, x, y int) (*tile.Tile, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.inner.Fetch(ctx, z, x, y)
}

func TestCachedSourceHitsCacheOnSecondFetch(t *testing.T) {
	inner := &countingSource{inner: DummySource{}}
	cached, err := NewCachedSource(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedSource: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := cached.Fetch(context.Background(), 5, 16, 11); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}

	if got := atomic.LoadInt32(&inner.calls); got != 1 {
		t.Errorf("upstream called %d times, want 1", got)
	}
	if cached.Len() != 1 {
		t.Errorf("cache len = %d, want 1", cached.Len())
	}
}

func TestCachedSourceDistinguishesKeys(t *testing.T) {
	inner := &countingSource{inner: DummySource{}}
	cached, _ := NewCachedSource(inner, 8)

	cached.Fetch(context.Background(), 5, 16, 11)
	cached.Fetch(context.Background(), 5, 16, 12)
	cached.Fetch(context.Background(), 6, 16, 11)

	if got := atomic.LoadInt32(&inner.calls); got != 3 {
		t.Errorf("upstream called %d times, want 3", got)
	}
}

func TestCachedSourceClonesOnHit(t *testing.T) {
	inner := &countingSource{inner: DummySource{}}
	cached, _ := NewCachedSource(inner, 8)

	a, _ := cached.Fetch(context.Background(), 5, 16, 11)
	a.ScreenPos = tile.ScreenPos{X: 99, Y: 99}

	b, _ := cached.Fetch(context.Background(), 5, 16, 11)
	if b.ScreenPos != (tile.ScreenPos{}) {
		t.Errorf("cache hit leaked a caller's mutated ScreenPos: %+v", b.ScreenPos)
	}
}

func TestNewCachedSourceRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := NewCachedSource(DummySource{}, 0); err == nil {
		t.Fatal("expected error for zero capacity")
	}
}

func TestServerSourceFetchesAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/v3/5/16/11.pbf" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(nil) // empty but valid: zero layers
	}))
	defer srv.Close()

	src := NewServerSource(srv.URL)
	tl, err := src.Fetch(context.Background(), 5, 16, 11)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tl.Payload == nil || len(tl.Payload.Layers) != 0 {
		t.Errorf("expected empty-layer payload, got %+v", tl.Payload)
	}
}

func TestServerSourceNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewServerSource(srv.URL)
	_, err := src.Fetch(context.Background(), 5, 16, 11)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	fe, ok := err.(*FetchError)
	if !ok || fe.Kind != ErrNetwork {
		t.Errorf("expected ErrNetwork FetchError, got %v", err)
	}
}

func TestServerSourceProtoDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	}))
	defer srv.Close()

	src := NewServerSource(srv.URL)
	_, err := src.Fetch(context.Background(), 5, 16, 11)
	if err == nil {
		t.Fatal("expected decode error for malformed body")
	}
	fe, ok := err.(*FetchError)
	if !ok || fe.Kind != ErrProtoDecode {
		t.Errorf("expected ErrProtoDecode FetchError, got %v", err)
	}
}
