package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Size != 220 || c.BaseHeight != 2 || c.Workers != 50 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
name: lisbon
size: 150
simplify: 2
roads:
  motorway:
    width: 4
layers:
  water:
    top: 2.4
text: AMSTERDAM
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "lisbon" || c.Size != 150 || c.Simplify != 2 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.Roads.Motorway.Width != 4 || c.Roads.Motorway.Height != 2 {
		t.Fatalf("motorway %+v, want width 4 height 2", c.Roads.Motorway)
	}
	if c.Roads.Primary.Width != 2.5 {
		t.Fatalf("primary default lost: %+v", c.Roads.Primary)
	}
	if c.Layers.Water.Top != 2.4 || c.Layers.Parks.Top != 3.2 || c.Layers.Text.Top != 4.4 {
		t.Fatalf("layers %+v", c.Layers)
	}
	if c.Text != "AMSTERDAM" || c.Subtitle != "" {
		t.Fatalf("labels %q, %q", c.Text, c.Subtitle)
	}
	if c.BaseHeight != 2 || c.Workers != 50 {
		t.Fatalf("unset fields should keep defaults: %+v", c)
	}
}

func TestParseRejects(t *testing.T) {
	var tests = []struct {
		name string
		yaml string
	}{
		{"size", "size: 0"},
		{"base height", "base_height: -1"},
		{"margin", "bottom_margin: 300"},
		{"simplify", "simplify: 4"},
		{"shape", "base_shape: circle"},
		{"depth", "road_depth: footway"},
		{"workers", "workers: 0"},
		{"road", "roads:\n  tertiary:\n    width: 0"},
		{"water", "layers:\n  water:\n    top: 0"},
		{"text", "layers:\n  text:\n    bottom: 5"},
		{"syntax", "size: [1"},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected an error for %q", tt.name, tt.yaml)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yml")
	if err := os.WriteFile(path, []byte("radius: 3000\nbase_shape: hull\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Radius != 3000 || c.BaseShape != ShapeHull {
		t.Fatalf("loaded %+v", c)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestMapScaleFactor(t *testing.T) {
	var tests = []struct {
		radius, size, want float64
	}{
		{3000, 220, 1.0},
		{7000, 220, 1.2},
		{15000, 220, 1.75},
		{30000, 220, 3.0},
		{4000, 20, 1.5},
	}
	for _, tt := range tests {
		if got := MapScaleFactor(tt.radius, tt.size); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MapScaleFactor(%v, %v) = %v, want %v", tt.radius, tt.size, got, tt.want)
		}
	}
}

func TestRoadDimensions(t *testing.T) {
	c := Default()

	d, ok := c.RoadDimensions(Motorway, 3000)
	if !ok || d.Width != 3 || d.Height != 2 {
		t.Fatalf("motorway %+v", d)
	}

	c.RoadScale = 1.5
	d, _ = c.RoadDimensions(Motorway, 3000)
	if d.Width != 3 || d.Height != 3 {
		t.Fatalf("road_scale should lift height only: %+v", d)
	}

	c = Default()
	c.Roads.Residential = RoadDims{Width: 0.1, Height: 0.1}
	d, _ = c.RoadDimensions(Residential, 1000)
	if d.Width != MinRoadWidth || d.Height != MinRoadHeight {
		t.Fatalf("minimums not applied: %+v", d)
	}

	if _, ok := c.RoadDimensions("footway", 1000); ok {
		t.Fatal("unknown class should not resolve")
	}
}

func TestIncludesRoad(t *testing.T) {
	c := Default()
	for _, class := range RoadClasses {
		if !c.IncludesRoad(class) {
			t.Errorf("depth all should include %s", class)
		}
	}

	c.RoadDepth = Secondary
	want := map[string]bool{Motorway: true, Primary: true, Secondary: true, Tertiary: false, Residential: false}
	for class, in := range want {
		if c.IncludesRoad(class) != in {
			t.Errorf("depth secondary, %s included = %v", class, !in)
		}
	}
	if c.IncludesRoad("water") {
		t.Error("non-road class included")
	}
}

func TestSimplifyEpsilon(t *testing.T) {
	c := Default()
	if eps := c.SimplifyEpsilon(Motorway); eps != 0 {
		t.Fatalf("simplify 0 should disable, got %v", eps)
	}
	var tests = []struct {
		level int
		class string
		want  float64
	}{
		{1, Motorway, 15},
		{2, Primary, 24},
		{3, Residential, 20},
		{3, "water", 0},
	}
	for _, tt := range tests {
		c.Simplify = tt.level
		if got := c.SimplifyEpsilon(tt.class); got != tt.want {
			t.Errorf("level %d %s: %v, want %v", tt.level, tt.class, got, tt.want)
		}
	}
}

func TestRoadBaseZ(t *testing.T) {
	c := Default()
	if z := c.RoadBaseZ(2); z != 1 {
		t.Fatalf("layer 2 -> %v", z)
	}
	if z := c.RoadBaseZ(-1); z != 0 {
		t.Fatalf("tunnels clamp to the bed, got %v", z)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m := NewManifest("porto")
	if m.ID == "" {
		t.Fatal("manifest without id")
	}
	m.Triangles = 120
	m.Layers = []LayerCount{{Name: "base", Triangles: 12}, {Name: "roads", Triangles: 108}}
	m.S2 = []string{"0d1"}
	m.Areas = []Area{{Feature: "w7", Kind: "water", Center: Center{X: 4.9, Y: 52.37}, Size: 1e-6}}

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := DecodeManifest(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != m.ID || back.Triangles != 120 || len(back.Layers) != 2 || back.Layers[1].Name != "roads" || len(back.Areas) != 1 || back.Areas[0] != m.Areas[0] {
		t.Fatalf("decoded %+v", back)
	}
	if !back.Updated.Equal(m.Updated) {
		t.Fatalf("time %v != %v", back.Updated, m.Updated)
	}
}
