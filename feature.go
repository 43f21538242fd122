// Package mapmesh turns geographic map features into a printable solid. It
// reads roads, water and parks from GeoJSON or shapefiles, projects them onto
// the print bed and builds one watertight mesh per map, layer by layer.
package mapmesh

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/geometry"
)

// FeatureClass is the closed set of things a map is built from.
type FeatureClass int

const (
	Motorway FeatureClass = iota
	Primary
	Secondary
	Tertiary
	Residential
	Water
	Park
	Base
)

var classNames = [...]string{
	Motorway:    config.Motorway,
	Primary:     config.Primary,
	Secondary:   config.Secondary,
	Tertiary:    config.Tertiary,
	Residential: config.Residential,
	Water:       "water",
	Park:        "park",
	Base:        "base",
}

func (c FeatureClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "FeatureClass(" + strconv.Itoa(int(c)) + ")"
	}
	return classNames[c]
}

// IsRoad reports the five road tiers.
func (c FeatureClass) IsRoad() bool {
	return c >= Motorway && c <= Residential
}

// Kind groups classes: road, water, park or base.
func (c FeatureClass) Kind() string {
	switch {
	case c.IsRoad():
		return "road"
	case c == Water:
		return "water"
	case c == Park:
		return "park"
	}
	return "base"
}

// ParseClass resolves a class name as written in a class property.
func ParseClass(s string) (FeatureClass, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range classNames {
		if name == s && FeatureClass(i) != Base {
			return FeatureClass(i), true
		}
	}
	return 0, false
}

// Feature is one road line or one area polygon in geographic coordinates.
// Rings are stored open: the closing point is not repeated.
type Feature struct {
	ID    string
	Name  string
	Class FeatureClass
	Layer int
	Line  []geometry.GeoPoint
	Outer []geometry.GeoPoint
	Holes [][]geometry.GeoPoint
}

// IsPolygon reports whether the feature is an area rather than a line.
func (f Feature) IsPolygon() bool {
	return len(f.Outer) > 0
}

// Polygon returns the area with closed rings, X longitude and Y latitude.
func (f Feature) Polygon() orb.Polygon {
	if !f.IsPolygon() {
		return nil
	}
	p := orb.Polygon{lonLatRing(f.Outer)}
	for _, h := range f.Holes {
		p = append(p, lonLatRing(h))
	}
	return p
}

// Centroid returns the area weighted center of a polygon feature and its
// area in square degrees. Holes are subtracted.
func (f Feature) Centroid() (geometry.GeoPoint, float64) {
	c, area := planar.CentroidArea(f.Polygon())
	return geometry.GeoPoint{Lat: c[1], Lon: c[0]}, area
}

// Dataset is everything read from one input, in input order.
type Dataset struct {
	Features []Feature
	// Bbox is the geographic extent, X longitude and Y latitude.
	Bbox     orb.Bound
	Center   geometry.GeoPoint
	S2       []string
	Warnings []Warning
}

// Count returns how many features have class c.
func (d *Dataset) Count(c FeatureClass) int {
	n := 0
	for _, f := range d.Features {
		if f.Class == c {
			n++
		}
	}
	return n
}

var (
	waterTags = map[string][]string{
		"natural":  {"water"},
		"waterway": {"riverbank"},
		"landuse":  {"reservoir", "basin"},
	}
	parkTags = map[string][]string{
		"leisure": {"park", "garden", "nature_reserve", "pitch", "playground"},
		"landuse": {"grass", "forest", "meadow", "recreation_ground", "village_green"},
		"natural": {"wood", "scrub"},
	}
)

// Classify picks a class from feature properties. An explicit class
// property wins; otherwise OSM style tags decide. Unknown features report
// false.
func Classify(props map[string]interface{}) (FeatureClass, bool) {
	if c, ok := ParseClass(propString(props, "class")); ok {
		return c, true
	}
	if c, ok := roadClass(propString(props, "highway")); ok {
		return c, true
	}
	if propString(props, "water") != "" || hasTag(props, waterTags) {
		return Water, true
	}
	if hasTag(props, parkTags) {
		return Park, true
	}
	return 0, false
}

func roadClass(highway string) (FeatureClass, bool) {
	switch highway {
	case "motorway", "motorway_link":
		return Motorway, true
	case "trunk", "trunk_link", "primary", "primary_link":
		return Primary, true
	case "secondary", "secondary_link":
		return Secondary, true
	case "tertiary", "tertiary_link":
		return Tertiary, true
	case "residential", "living_street", "unclassified", "service":
		return Residential, true
	}
	return 0, false
}

func hasTag(props map[string]interface{}, tags map[string][]string) bool {
	for key, values := range tags {
		v := propString(props, key)
		for _, want := range values {
			if v == want {
				return true
			}
		}
	}
	return false
}

// layerOf reads the bridge/tunnel layer, 0 when absent or unreadable.
func layerOf(props map[string]interface{}) int {
	switch v := props["layer"].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// featureInfo pulls the id and name out of the properties.
func featureInfo(props map[string]interface{}, index int) (id, name string) {
	for _, k := range []string{"id", "fid", "osm_id", "uid", "uuid"} {
		if v := propString(props, k); v != "" {
			id = v
			break
		}
	}
	if id == "" {
		id = strconv.Itoa(index)
	}
	return id, propString(props, "name")
}

func propString(props map[string]interface{}, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// openRing drops a repeated closing point.
func openRing(pts []geometry.GeoPoint) []geometry.GeoPoint {
	if len(pts) > 1 && samePoint(pts[0], pts[len(pts)-1]) {
		return pts[:len(pts)-1]
	}
	return pts
}

func lonLatRing(ring []geometry.GeoPoint) orb.Ring {
	r := make(orb.Ring, 0, len(ring)+1)
	for _, g := range ring {
		r = append(r, orb.Point{g.Lon, g.Lat})
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

func isClosed(pts []geometry.GeoPoint) bool {
	return len(pts) >= 4 && samePoint(pts[0], pts[len(pts)-1])
}

func samePoint(a, b geometry.GeoPoint) bool {
	return math.Abs(a.Lat-b.Lat) < 1e-9 && math.Abs(a.Lon-b.Lon) < 1e-9
}
