package tile

import (
	"testing"

	"github.com/kiesman99/mapview/pkg/mvt"
)

func TestEqualIgnoresPayloadAndScreenPos(t *testing.T) {
	a := FromProto(5, 16, 11, &mvt.Tile{Layers: []*mvt.Layer{{Name: "water"}}})
	b := FromProto(5, 16, 11, nil)
	b.ScreenPos = ScreenPos{X: 40, Y: 8}

	if !a.Equal(b) {
		t.Fatal("expected tiles with the same (z,x,y) to be equal regardless of payload/screen pos")
	}
}

func TestEqualDistinguishesCoordinates(t *testing.T) {
	a := FromProto(5, 16, 11, nil)
	cases := []*Tile{
		FromProto(6, 16, 11, nil),
		FromProto(5, 17, 11, nil),
		FromProto(5, 16, 12, nil),
	}
	for _, c := range cases {
		if a.Equal(c) {
			t.Errorf("expected %+v to differ from %+v", a, c)
		}
	}
}

func TestBoundsDelegatesToProjection(t *testing.T) {
	tl := FromProto(0, 0, 0, nil)
	north, south, east, west := tl.Bounds()
	if north <= 0 || south >= 0 || east != 180 || west != -180 {
		t.Errorf("root tile bounds = (%v,%v,%v,%v), want symmetric world bounds", north, south, east, west)
	}
}

func TestCloneResetsScreenPos(t *testing.T) {
	orig := FromProto(5, 16, 11, nil)
	orig.ScreenPos = ScreenPos{X: 10, Y: 20}

	c := orig.Clone()
	if !c.Equal(orig) {
		t.Fatal("clone should keep the same (z,x,y)")
	}
	if c.ScreenPos != (ScreenPos{}) {
		t.Errorf("clone should reset ScreenPos, got %+v", c.ScreenPos)
	}
	if orig.ScreenPos != (ScreenPos{X: 10, Y: 20}) {
		t.Error("clone must not mutate the original's ScreenPos")
	}
}
