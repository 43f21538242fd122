// Package config holds the run configuration of a map build. A Config is
// decoded once from YAML and then only read: every extrusion receives plain
// numbers derived from it.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"
)

// Road class names, widest first. Feature classes render to these strings.
const (
	Motorway    = "motorway"
	Primary     = "primary"
	Secondary   = "secondary"
	Tertiary    = "tertiary"
	Residential = "residential"
)

// RoadClasses lists the road tiers in rendering priority.
var RoadClasses = []string{Motorway, Primary, Secondary, Tertiary, Residential}

const (
	// MinRoadWidth and MinRoadHeight keep thin roads printable, in millimeters.
	MinRoadWidth  = 0.6
	MinRoadHeight = 0.4

	// DepthAll keeps every road class.
	DepthAll = "all"

	ShapeSquare = "square"
	ShapeHull   = "hull"
)

// RoadDims is a road cross-section in millimeters.
type RoadDims struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Roads holds the base cross-section of each road class.
type Roads struct {
	Motorway    RoadDims `yaml:"motorway"`
	Primary     RoadDims `yaml:"primary"`
	Secondary   RoadDims `yaml:"secondary"`
	Tertiary    RoadDims `yaml:"tertiary"`
	Residential RoadDims `yaml:"residential"`
}

// Get returns the dimensions configured for class.
func (r Roads) Get(class string) (RoadDims, bool) {
	switch class {
	case Motorway:
		return r.Motorway, true
	case Primary:
		return r.Primary, true
	case Secondary:
		return r.Secondary, true
	case Tertiary:
		return r.Tertiary, true
	case Residential:
		return r.Residential, true
	}
	return RoadDims{}, false
}

// Interval is a z range above the print bed in millimeters.
type Interval struct {
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

// Layers sets where water, parks and the margin labels sit and how far
// each bridge layer lifts a road.
type Layers struct {
	Water    Interval `yaml:"water"`
	Parks    Interval `yaml:"parks"`
	Text     Interval `yaml:"text"`
	RoadLift float64  `yaml:"road_lift"`
}

// Config is one map build.
type Config struct {
	Name         string  `yaml:"name"`
	Size         float64 `yaml:"size"`
	BaseHeight   float64 `yaml:"base_height"`
	BottomMargin float64 `yaml:"bottom_margin"`
	Radius       float64 `yaml:"radius"`
	RoadScale    float64 `yaml:"road_scale"`
	RoadDepth    string  `yaml:"road_depth"`
	Simplify     int     `yaml:"simplify"`
	BaseShape    string  `yaml:"base_shape"`
	Roads        Roads   `yaml:"roads"`
	Layers       Layers  `yaml:"layers"`
	Workers      int     `yaml:"workers"`

	// Text and Subtitle replace the labels printed in the bottom margin:
	// the spaced out name and the center coordinates.
	Text     string `yaml:"text"`
	Subtitle string `yaml:"subtitle"`
}

// Default returns the settings of a 220 mm square print.
func Default() Config {
	return Config{
		Size:       220,
		BaseHeight: 2.0,
		RoadScale:  1.0,
		RoadDepth:  DepthAll,
		BaseShape:  ShapeSquare,
		Roads: Roads{
			Motorway:    RoadDims{Width: 3.0, Height: 2.0},
			Primary:     RoadDims{Width: 2.5, Height: 1.5},
			Secondary:   RoadDims{Width: 2.0, Height: 1.0},
			Tertiary:    RoadDims{Width: 1.5, Height: 0.7},
			Residential: RoadDims{Width: 0.8, Height: 0.5},
		},
		Layers: Layers{
			Water:    Interval{Bottom: 0, Top: 2.6},
			Parks:    Interval{Bottom: 0, Top: 3.2},
			Text:     Interval{Bottom: 0, Top: 4.4},
			RoadLift: 0.5,
		},
		Workers: 50,
	}
}

// Parse overlays YAML onto the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("[yaml.Unmarshal] in pkg [config] encountered: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("[os.ReadFile] in pkg [config] encountered: %w", err)
	}
	return Parse(data)
}

// Validate rejects settings no print can be built from.
func (c Config) Validate() error {
	switch {
	case !(c.Size > 0):
		return fmt.Errorf("config: size must be positive, got %v", c.Size)
	case !(c.BaseHeight > 0):
		return fmt.Errorf("config: base_height must be positive, got %v", c.BaseHeight)
	case c.BottomMargin < 0 || c.BottomMargin >= c.Size:
		return fmt.Errorf("config: bottom_margin must be in [0, size), got %v", c.BottomMargin)
	case c.Radius < 0:
		return fmt.Errorf("config: radius must not be negative, got %v", c.Radius)
	case !(c.RoadScale > 0):
		return fmt.Errorf("config: road_scale must be positive, got %v", c.RoadScale)
	case c.Simplify < 0 || c.Simplify > 3:
		return fmt.Errorf("config: simplify must be 0-3, got %d", c.Simplify)
	case c.BaseShape != ShapeSquare && c.BaseShape != ShapeHull:
		return fmt.Errorf("config: unknown base_shape %q", c.BaseShape)
	case c.Workers < 1:
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	case c.Layers.RoadLift < 0:
		return fmt.Errorf("config: road_lift must not be negative, got %v", c.Layers.RoadLift)
	}
	if c.RoadDepth != DepthAll && tier(c.RoadDepth) < 0 {
		return fmt.Errorf("config: unknown road_depth %q", c.RoadDepth)
	}
	for _, class := range RoadClasses {
		d, _ := c.Roads.Get(class)
		if !(d.Width > 0) || !(d.Height > 0) {
			return fmt.Errorf("config: %s road needs positive width and height", class)
		}
	}
	for name, iv := range map[string]Interval{"water": c.Layers.Water, "parks": c.Layers.Parks, "text": c.Layers.Text} {
		if !(iv.Top > iv.Bottom) {
			return fmt.Errorf("config: %s layer top %v must be above bottom %v", name, iv.Top, iv.Bottom)
		}
	}
	return nil
}

// IncludesRoad reports whether class is at or above the configured road depth.
func (c Config) IncludesRoad(class string) bool {
	t := tier(class)
	if t < 0 {
		return false
	}
	if c.RoadDepth == DepthAll {
		return true
	}
	return t <= tier(c.RoadDepth)
}

// RoadDimensions returns the printed cross-section of class for a map of the
// given radius in meters. The height excludes the base plate.
func (c Config) RoadDimensions(class string, radius float64) (RoadDims, bool) {
	base, ok := c.Roads.Get(class)
	if !ok {
		return RoadDims{}, false
	}
	f := MapScaleFactor(radius, c.Size)
	return RoadDims{
		Width:  math.Max(base.Width*f, MinRoadWidth),
		Height: math.Max(base.Height*c.RoadScale*f, MinRoadHeight),
	}, true
}

// RoadBaseZ is the bottom of a road on the given bridge layer.
func (c Config) RoadBaseZ(layer int) float64 {
	return math.Max(float64(layer)*c.Layers.RoadLift, 0)
}

// SimplifyEpsilon is the Douglas-Peucker tolerance in meters for class, 0
// when simplification is off.
func (c Config) SimplifyEpsilon(class string) float64 {
	if c.Simplify <= 0 {
		return 0
	}
	var eps float64
	switch class {
	case Motorway:
		eps = 15
	case Primary:
		eps = 12
	case Secondary:
		eps = 10
	case Tertiary:
		eps = 8
	case Residential:
		eps = 5
	default:
		return 0
	}
	return eps * float64(int(1)<<(c.Simplify-1))
}

// MapScaleFactor widens roads on maps covering a large radius so they stay
// visible. radius is in meters, size in millimeters.
func MapScaleFactor(radius, size float64) float64 {
	km := radius / 1000
	var f float64
	switch {
	case km < 5:
		f = 1.0
	case km < 10:
		f = 1.0 + (km-5)*0.1
	case km < 20:
		f = 1.5 + (km-10)*0.05
	default:
		f = 2.0
	}
	if km > 0 && size/(2*km) < 5 {
		f *= 1.5
	}
	return f
}

func tier(class string) int {
	for i, c := range RoadClasses {
		if c == class {
			return i
		}
	}
	return -1
}
