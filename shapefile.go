package mapmesh

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/godeepar/mapmesh/geometry"
)

// FeaturesFromSHP reads an ESRI shapefile and its DBF table. Polylines
// become roads, one feature per part. Polygon parts are grouped into
// polygons: a ring wound opposite to the current outer ring is a hole of it,
// a ring wound the same way starts a new polygon. Attributes feed the same
// classifier as GeoJSON properties.
func FeaturesFromSHP(path string) (*Dataset, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[shp.Open] in pkg [mapmesh] encountered: %w", err)
	}
	defer reader.Close()

	fields := reader.Fields()
	container := initExtentContainer()

	var dataset Dataset
	for reader.Next() {
		n, shape := reader.Shape()
		props := make(map[string]interface{}, len(fields))
		for i, f := range fields {
			props[strings.ToLower(f.String())] = strings.TrimSpace(strings.Trim(reader.ReadAttribute(n, i), "\x00"))
		}

		features, warnings := parseShape(n, shape, props)
		container.add(features...)
		dataset.Features = append(dataset.Features, features...)
		dataset.Warnings = append(dataset.Warnings, warnings...)
	}
	readErr := reader.Err()
	bbox, ok := container.close()

	if readErr != nil {
		return nil, fmt.Errorf("[shp.Next] in pkg [mapmesh] encountered: %w", readErr)
	}
	if err := finish(&dataset, bbox, ok); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func parseShape(index int, shape shp.Shape, props map[string]interface{}) ([]Feature, []Warning) {
	warn := func(format string, args ...interface{}) []Warning {
		return []Warning{{Layer: "input", Feature: index, Message: fmt.Sprintf(format, args...)}}
	}

	class, ok := Classify(props)
	if !ok {
		return nil, warn("record is neither road, water nor park")
	}
	id, name := featureInfo(props, index)
	base := Feature{ID: id, Name: name, Class: class, Layer: layerOf(props)}

	var parts [][]geometry.GeoPoint
	var polygon bool
	switch s := shape.(type) {
	case *shp.PolyLine:
		parts = splitParts(s.Parts, s.Points)
	case *shp.PolyLineZ:
		parts = splitParts(s.Parts, s.Points)
	case *shp.Polygon:
		parts, polygon = splitParts(s.Parts, s.Points), true
	case *shp.PolygonZ:
		parts, polygon = splitParts(s.Parts, s.Points), true
	default:
		return nil, warn("unsupported shape %T", shape)
	}

	if !polygon {
		if !class.IsRoad() {
			return nil, warn("%s given as polyline", class)
		}
		var out []Feature
		for _, part := range parts {
			if len(part) < 2 {
				continue
			}
			f := base
			f.Line = part
			out = append(out, f)
		}
		return out, nil
	}

	if class.IsRoad() {
		return nil, warn("%s road given as polygon", class)
	}
	return groupRings(base, parts), nil
}

// groupRings assembles outer rings and their holes from shapefile parts.
func groupRings(base Feature, parts [][]geometry.GeoPoint) []Feature {
	var out []Feature
	var outerWinding orb.Orientation
	for _, part := range parts {
		ring := openRing(part)
		if len(ring) < 3 {
			continue
		}
		w := winding(ring)
		if len(out) == 0 || w == outerWinding {
			f := base
			f.Outer = ring
			out = append(out, f)
			outerWinding = w
			continue
		}
		last := &out[len(out)-1]
		last.Holes = append(last.Holes, ring)
	}
	return out
}

func winding(ring []geometry.GeoPoint) orb.Orientation {
	return lonLatRing(ring).Orientation()
}

func splitParts(parts []int32, points []shp.Point) [][]geometry.GeoPoint {
	var out [][]geometry.GeoPoint
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || start >= end {
			continue
		}
		part := make([]geometry.GeoPoint, 0, end-start)
		for _, p := range points[start:end] {
			g, err := CheckCoords([]float64{p.X, p.Y})
			if err != nil {
				continue
			}
			part = append(part, g)
		}
		out = append(out, part)
	}
	return out
}
