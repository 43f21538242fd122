package mapmesh

import (
	"context"
	"math"
	"testing"

	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/geometry"
)

func TestLabels(t *testing.T) {
	cfg := config.Default()
	cfg.Name = "Delft"

	title, subtitle := Labels(cfg, geometry.GeoPoint{Lat: 52.01158, Lon: 4.35916})
	if title != "D E L F T" || subtitle != "52.0116 N / 4.3592 E" {
		t.Fatalf("labels %q, %q", title, subtitle)
	}

	cfg.Text, cfg.Subtitle = "Old town", "est. 1246"
	title, subtitle = Labels(cfg, geometry.GeoPoint{})
	if title != "OLD TOWN" || subtitle != "EST. 1246" {
		t.Fatalf("overridden labels %q, %q", title, subtitle)
	}

	if got := Coordinates(geometry.GeoPoint{Lat: -33.8688, Lon: -151.2093}); got != "33.8688 S / 151.2093 W" {
		t.Errorf("southern, western coordinates %q", got)
	}
}

func TestTextLayerNeedsMargin(t *testing.T) {
	cfg := config.Default()
	cfg.Name = "Delft"
	if m := textLayer(cfg, geometry.GeoPoint{}); !m.IsEmpty() {
		t.Fatalf("no margin, yet %d text triangles", m.Len())
	}
}

func TestBuildTextInMargin(t *testing.T) {
	cfg := config.Default()
	cfg.Name = "Delft"
	cfg.BottomMargin = 30

	res, err := Build(context.Background(), dataset(t, road(Motorway, 0)), cfg)
	if err != nil {
		t.Fatal(err)
	}
	n := res.Layers[LayerText]
	if n == 0 || res.Mesh.Len() != 24+n {
		t.Fatalf("%d text triangles in a mesh of %d", n, res.Mesh.Len())
	}
	if res.Mesh.OpenEdges() != 0 {
		t.Error("text strokes should be closed solids")
	}

	lo, hi := part(res.Mesh, 24, 24+n).BoundingBox()
	if lo[0] < 0 || hi[0] > 220 || lo[1] < 0 || hi[1] > 30 {
		t.Errorf("text spans %v to %v, outside the margin", lo, hi)
	}
	if lo[2] != 0 || hi[2] != float32(4.4) {
		t.Errorf("text stands from %v to %v", lo[2], hi[2])
	}
	if mid := (lo[0] + hi[0]) / 2; math.Abs(float64(mid)-110) > 5 {
		t.Errorf("text is not centered: %v", mid)
	}

	roads := part(res.Mesh, 12, 24)
	if rlo, _ := roads.BoundingBox(); rlo[1] < 30 {
		t.Errorf("road reaches into the margin at y %v", rlo[1])
	}
}

func TestLongLabelIsShrunk(t *testing.T) {
	cfg := config.Default()
	cfg.Size = 100
	cfg.BottomMargin = 40
	cfg.Text = "A VERY LONG NAME FOR SUCH A SMALL PRINT"

	m := textLayer(cfg, geometry.GeoPoint{Lat: 1, Lon: 1})
	lo, hi := m.BoundingBox()
	if lo[0] < 0 || hi[0] > 100 || hi[1] > 40 {
		t.Fatalf("text spans %v to %v", lo, hi)
	}
	if w := hi[0] - lo[0]; w > 100*labelWidth+2 {
		t.Errorf("label is %v wide", w)
	}
}
