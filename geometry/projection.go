// Package geometry converts geographic coordinates into the planar frames the
// mesh builders work in: local meters first, then millimeters on the print bed.
package geometry

import (
	"math"

	geo "github.com/paulmach/go.geo"
	"github.com/paulmach/orb"
)

// WGS84 ellipsoid constants
const (
	SemiMajorAxis = 6378137.0
	SemiMinorAxis = 6356752.314245
	Eccentricity2 = 0.00669437999014
)

// GeoPoint is a WGS84 latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Projector maps geographic points to meters east/north of a fixed reference
// point using an equirectangular approximation. It is accurate to a fraction
// of a percent at city scale and must not be used near the poles or across
// the antimeridian.
type Projector struct {
	ref  GeoPoint
	mLat float64
	mLon float64
}

// NewProjector fixes the reference point, normally the center of the map.
func NewProjector(ref GeoPoint) Projector {
	return Projector{
		ref:  ref,
		mLat: MetersPerDegreeLat(ref.Lat),
		mLon: MetersPerDegreeLon(ref.Lat),
	}
}

// Reference returns the point that projects to the origin.
func (p Projector) Reference() GeoPoint {
	return p.ref
}

// Project maps a geographic point to planar meters relative to the reference.
func (p Projector) Project(g GeoPoint) orb.Point {
	return orb.Point{
		(g.Lon - p.ref.Lon) * p.mLon,
		(g.Lat - p.ref.Lat) * p.mLat,
	}
}

// ProjectAll projects a sequence, keeping its order.
func (p Projector) ProjectAll(pts []GeoPoint) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, g := range pts {
		ls[i] = p.Project(g)
	}
	return ls
}

// Unproject is the inverse of Project.
func (p Projector) Unproject(pt orb.Point) GeoPoint {
	return GeoPoint{
		Lat: p.ref.Lat + pt[1]/p.mLat,
		Lon: p.ref.Lon + pt[0]/p.mLon,
	}
}

// Distortion reports the relative difference between the planar distance of g
// from the reference point and its great circle distance.
func (p Projector) Distortion(g GeoPoint) float64 {
	a := geo.NewPoint(p.ref.Lon, p.ref.Lat)
	b := geo.NewPoint(g.Lon, g.Lat)

	geodesic := a.GeoDistanceFrom(b, true)
	if geodesic == 0 {
		return 0
	}

	pt := p.Project(g)
	return math.Abs(math.Hypot(pt[0], pt[1])-geodesic) / geodesic
}

// MetersPerDegreeLat is the meridional arc length of one degree at lat.
func MetersPerDegreeLat(lat float64) float64 {
	s := math.Sin(lat * math.Pi / 180)
	m := SemiMajorAxis * (1 - Eccentricity2) / math.Pow(1-Eccentricity2*s*s, 1.5)
	return m * math.Pi / 180
}

// MetersPerDegreeLon is the length of one degree of longitude along the parallel at lat.
func MetersPerDegreeLon(lat float64) float64 {
	rad := lat * math.Pi / 180
	s := math.Sin(rad)
	n := SemiMajorAxis / math.Sqrt(1-Eccentricity2*s*s)
	return n * math.Cos(rad) * math.Pi / 180
}

// UTMZone returns the 1..60 UTM zone number containing lon.
func UTMZone(lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone < 1 {
		return 1
	}
	if zone > 60 {
		return 60
	}
	return zone
}

// EstimateError approximates the worst planar error in meters of the flat
// projection at the given radius from the reference point.
func EstimateError(radius float64) float64 {
	meanRadius := (SemiMajorAxis + SemiMinorAxis) / 2
	return radius * radius / (2 * meanRadius)
}

// FromMercator converts an EPSG:3857 coordinate to WGS84.
func FromMercator(x, y float64) GeoPoint {
	p := geo.NewPoint(x, y)
	geo.Mercator.Inverse(p)
	return GeoPoint{Lat: p.Lat(), Lon: p.Lng()}
}

// IsMercator guesses whether an x/y pair is EPSG:3857 rather than degrees.
func IsMercator(x, y float64) bool {
	return x > 180 || x < -180 || y > 90 || y < -90
}
