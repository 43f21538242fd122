package mapmesh

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"

	"github.com/godeepar/mapmesh/geometry"
)

// FeaturesFromGEOJSON reads a GeoJSON FeatureCollection. Lines become roads,
// polygons become water or parks, and closed lines tagged as areas become
// polygons. Coordinates are [lon, lat]; EPSG:3857 pairs are detected and
// converted. Features that cannot be used are skipped with a warning.
func FeaturesFromGEOJSON(contents io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(contents)
	if err != nil {
		return nil, fmt.Errorf("[io.ReadAll] in pkg [mapmesh] encountered: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNoFeatures)
	}

	collection, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("[geojson.UnmarshalFeatureCollection] in pkg [mapmesh] encountered: %w", err)
	}

	container := initExtentContainer()
	dataset := parseGEOJSONCollection(collection, container)
	bbox, ok := container.close()

	if err := finish(dataset, bbox, ok); err != nil {
		return nil, err
	}
	return dataset, nil
}

// finish fills in the extent derived values, failing when nothing was kept.
func finish(dataset *Dataset, bbox orb.Bound, ok bool) error {
	if len(dataset.Features) == 0 || !ok {
		return ErrNoFeatures
	}
	dataset.Bbox = bbox
	dataset.Center = getCenter(bbox)
	dataset.S2 = s2covering(bbox)
	return nil
}

// parseGEOJSONCollection parses every feature on its own goroutine and joins
// the results back in input order.
func parseGEOJSONCollection(collection *geojson.FeatureCollection, container *extentContainer) *Dataset {
	features := make([][]Feature, len(collection.Features))
	warnings := make([][]Warning, len(collection.Features))

	var wg sync.WaitGroup
	for i, item := range collection.Features {
		wg.Add(1)
		go func(i int, item *geojson.Feature) {
			defer wg.Done()
			features[i], warnings[i] = parseGEOJSONFeature(i, item, container)
		}(i, item)
	}
	wg.Wait()

	var dataset Dataset
	for i := range features {
		dataset.Features = append(dataset.Features, features[i]...)
		dataset.Warnings = append(dataset.Warnings, warnings[i]...)
	}
	return &dataset
}

// parseGEOJSONFeature converts one GeoJSON feature, which may yield several
// features for multi geometries. Only coordinates of kept features are
// reported to the container, when it is not nil.
func parseGEOJSONFeature(index int, item *geojson.Feature, container *extentContainer) ([]Feature, []Warning) {
	out, warns := geojsonFeatures(index, item)
	if container != nil {
		container.add(out...)
	}
	return out, warns
}

func geojsonFeatures(index int, item *geojson.Feature) ([]Feature, []Warning) {
	skip := func(format string, args ...interface{}) ([]Feature, []Warning) {
		return nil, []Warning{{Layer: "input", Feature: index, Message: fmt.Sprintf(format, args...)}}
	}

	if item == nil || item.Geometry == nil {
		return skip("feature has no geometry")
	}
	class, ok := Classify(item.Properties)
	if !ok {
		return skip("feature is neither road, water nor park")
	}

	id, name := featureInfo(item.Properties, index)
	base := Feature{ID: id, Name: name, Class: class, Layer: layerOf(item.Properties)}

	var lines [][][]float64
	var polygons [][][][]float64

	g := item.Geometry
	switch g.Type {
	case geojson.GeometryLineString:
		lines = [][][]float64{g.LineString}
	case geojson.GeometryMultiLineString:
		lines = g.MultiLineString
	case geojson.GeometryPolygon:
		polygons = [][][][]float64{g.Polygon}
	case geojson.GeometryMultiPolygon:
		polygons = g.MultiPolygon
	default:
		return skip("unsupported geometry of type %v", g.Type)
	}

	var out []Feature
	var warns []Warning
	warn := func(err error) {
		warns = append(warns, Warning{Layer: "input", Feature: index, Message: err.Error()})
	}

	for _, coords := range lines {
		pts, err := parseGEOJSONGeom(coords)
		if err != nil {
			warn(err)
			continue
		}
		f := base
		switch {
		case class.IsRoad():
			if len(pts) < 2 {
				warn(errors.New("road with fewer than 2 points"))
				continue
			}
			f.Line = pts
		case isClosed(pts):
			f.Outer = openRing(pts)
		default:
			warn(fmt.Errorf("%s outline is not closed", class))
			continue
		}
		out = append(out, f)
	}

	for _, rings := range polygons {
		if class.IsRoad() {
			warn(fmt.Errorf("%s road given as polygon", class))
			continue
		}
		f, err := polygonFeature(base, rings)
		if err != nil {
			warn(err)
			continue
		}
		out = append(out, f)
	}
	return out, warns
}

func polygonFeature(base Feature, rings [][][]float64) (Feature, error) {
	if len(rings) == 0 {
		return base, errors.New("polygon without rings")
	}
	outer, err := parseGEOJSONGeom(rings[0])
	if err != nil {
		return base, err
	}
	outer = openRing(outer)
	if len(outer) < 3 {
		return base, errors.New("outer ring with fewer than 3 points")
	}
	base.Outer = outer
	for _, r := range rings[1:] {
		hole, err := parseGEOJSONGeom(r)
		if err != nil {
			return base, err
		}
		base.Holes = append(base.Holes, openRing(hole))
	}
	return base, nil
}

// parseGEOJSONGeom converts a coordinate sequence.
func parseGEOJSONGeom(coords [][]float64) ([]geometry.GeoPoint, error) {
	pts := make([]geometry.GeoPoint, 0, len(coords))
	for _, c := range coords {
		g, err := CheckCoords(c)
		if err != nil {
			return nil, err
		}
		pts = append(pts, g)
	}
	return pts, nil
}

// CheckCoords turns a [lon, lat(, z)] or EPSG:3857 [x, y(, z)] coordinate
// into a GeoPoint. Elevation is ignored.
func CheckCoords(coord []float64) (geometry.GeoPoint, error) {
	switch len(coord) {
	case 0, 1:
		return geometry.GeoPoint{}, errors.New("missing x, y")
	case 2, 3:
		x, y := coord[0], coord[1]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return geometry.GeoPoint{}, errors.New("non-finite coordinate")
		}
		if geometry.IsMercator(x, y) {
			return geometry.FromMercator(x, y), nil
		}
		return geometry.GeoPoint{Lat: y, Lon: x}, nil
	default:
		return geometry.GeoPoint{}, errors.New("too many coords")
	}
}
