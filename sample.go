package mapmesh

import (
	geojson "github.com/paulmach/go.geojson"
)

// SampleCollection is a small made-up neighborhood with every feature class:
// a ring of roads, a bridge, a lake with an island and an L-shaped park.
func SampleCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	roads := []struct {
		highway string
		name    string
		layer   int
		coords  [][]float64
	}{
		{"motorway", "A10", 0, [][]float64{{4.880, 52.362}, {4.890, 52.3615}, {4.900, 52.362}}},
		{"primary", "Stadhouderskade", 0, [][]float64{{4.880, 52.365}, {4.890, 52.370}, {4.900, 52.378}}},
		{"secondary", "Vijzelstraat", 0, [][]float64{{4.885, 52.362}, {4.885, 52.378}}},
		{"tertiary", "Amstelbrug", 1, [][]float64{{4.892, 52.362}, {4.892, 52.378}}},
		{"residential", "Keizersgracht", 0, [][]float64{{4.880, 52.374}, {4.890, 52.3745}, {4.900, 52.374}}},
	}
	for _, r := range roads {
		f := geojson.NewLineStringFeature(r.coords)
		f.SetProperty("highway", r.highway)
		f.SetProperty("name", r.name)
		if r.layer != 0 {
			f.SetProperty("layer", r.layer)
		}
		fc.AddFeature(f)
	}

	lake := geojson.NewPolygonFeature([][][]float64{
		{{4.886, 52.363}, {4.894, 52.363}, {4.894, 52.368}, {4.886, 52.368}, {4.886, 52.363}},
		{{4.889, 52.365}, {4.889, 52.366}, {4.891, 52.366}, {4.891, 52.365}, {4.889, 52.365}},
	})
	lake.SetProperty("natural", "water")
	lake.SetProperty("name", "Amstelmeer")
	fc.AddFeature(lake)

	park := geojson.NewPolygonFeature([][][]float64{
		{{4.881, 52.375}, {4.884, 52.375}, {4.884, 52.376}, {4.8825, 52.376}, {4.8825, 52.378}, {4.881, 52.378}, {4.881, 52.375}},
	})
	park.SetProperty("leisure", "park")
	park.SetProperty("name", "Vondelpark")
	fc.AddFeature(park)

	return fc
}

// SampleGEOJSON is SampleCollection encoded as GeoJSON.
func SampleGEOJSON() ([]byte, error) {
	return SampleCollection().MarshalJSON()
}
