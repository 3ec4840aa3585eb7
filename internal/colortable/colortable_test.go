package colortable

import "testing"

func TestLookupKnownLayers(t *testing.T) {
	names := []string{
		"aeroway", "boundary", "building", "housenumber", "landcover",
		"landuse", "mountain_peak", "park", "place", "poi",
		"transportation", "transportation_name", "water", "water_name", "waterway",
	}
	for _, n := range names {
		if Lookup(n) == white {
			t.Errorf("expected %q to have a dedicated color, got default white", n)
		}
	}
}

func TestLookupUnknownDefaultsToWhite(t *testing.T) {
	if Lookup("some_future_layer") != white {
		t.Error("expected unknown layer to default to white")
	}
}
