package mapmesh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/geometry"
	"github.com/godeepar/mapmesh/logger"
	"github.com/godeepar/mapmesh/mesh"
	"github.com/godeepar/mapmesh/stl"
)

// Layer names.
const (
	LayerBase  = "base"
	LayerWater = "water"
	LayerParks = "parks"
	LayerRoads = "roads"
	LayerText  = "text"
)

// LayerOrder is the order layers are concatenated in. Every layer is a solid
// column standing on the print bed, so later layers overlap earlier ones
// where they cover the same ground and rise above them. Text stands in the
// bottom margin, clear of the features.
var LayerOrder = []string{LayerBase, LayerWater, LayerParks, LayerRoads, LayerText}

// maxDistortion is the relative projection error that draws a warning.
const maxDistortion = 0.01

// Report gathers everything non-fatal found during a build.
type Report struct {
	Validation mesh.Report
	Warnings   []Warning
	// Extruded counts features that contributed triangles.
	Extruded int
	// Filtered counts roads left out by the configured road depth.
	Filtered int
}

// Result is a finished map.
type Result struct {
	Mesh    mesh.Mesh
	Report  Report
	Layers  map[string]int
	Center  geometry.GeoPoint
	S2Token string
	// Radius is the map radius in meters the road widths were derived from.
	Radius float64
	// Scale is millimeters per meter.
	Scale float64
}

// Header is the STL header for the result.
func (r *Result) Header() string {
	return stl.DefaultHeader + " " + r.S2Token
}

// Manifest describes the result for the given dataset.
func (r *Result) Manifest(name string, ds *Dataset, cfg config.Config) *config.Manifest {
	m := config.NewManifest(name)
	m.Center = config.Center{X: r.Center.Lon, Y: r.Center.Lat}
	m.S2 = append([]string{r.S2Token}, ds.S2...)
	m.Bbox = [4]float64{ds.Bbox.Min[0], ds.Bbox.Min[1], ds.Bbox.Max[0], ds.Bbox.Max[1]}
	m.Size = cfg.Size
	m.Triangles = r.Mesh.Len()
	m.Volume = r.Mesh.Volume()
	for _, layer := range LayerOrder {
		m.Layers = append(m.Layers, config.LayerCount{Name: layer, Triangles: r.Layers[layer]})
	}
	for _, f := range ds.Features {
		if !f.IsPolygon() {
			continue
		}
		c, size := f.Centroid()
		m.Areas = append(m.Areas, config.Area{
			Feature: f.ID,
			Kind:    f.Class.Kind(),
			Center:  config.Center{X: c.Lon, Y: c.Lat},
			Size:    size,
		})
	}
	for _, w := range r.Report.Warnings {
		m.Warnings = append(m.Warnings, w.String())
	}
	return m
}

// planned is a feature projected to meters, ready to extrude.
type planned struct {
	index int
	f     Feature
	line  orb.LineString
	outer orb.Ring
	holes []orb.Ring
}

// Build turns a dataset into one mesh. Features are projected around the
// dataset center, scaled onto the print square and extruded independently
// on a bounded worker pool. Layers are joined in LayerOrder with each
// layer's features in input order, then the mesh is validated and repaired.
//
// A class without features contributes nothing. Features that cannot be
// extruded are skipped with a warning. Only an empty or unrepresentable
// final mesh fails the build.
func Build(ctx context.Context, ds *Dataset, cfg config.Config) (*Result, error) {
	start := time.Now()
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		return nil, stageErr("Validate config", -1, err)
	}
	if ds == nil {
		return nil, stageErr("Bounds", -1, ErrNoFeatures)
	}

	projector := geometry.NewProjector(ds.Center)
	report := Report{Warnings: append([]Warning(nil), ds.Warnings...)}
	warn := func(w Warning) {
		report.Warnings = append(report.Warnings, w)
	}

	plans := make([]planned, 0, len(ds.Features))
	var extent geometry.Bounds
	for i, f := range ds.Features {
		p := planned{index: i, f: f}
		if f.IsPolygon() {
			p.outer = orb.Ring(projector.ProjectAll(f.Outer))
			for _, h := range f.Holes {
				p.holes = append(p.holes, orb.Ring(projector.ProjectAll(h)))
			}
			extent = extent.Union(geometry.BoundsOf(orb.LineString(p.outer)))
		} else {
			p.line = projector.ProjectAll(f.Line)
			extent = extent.Union(geometry.BoundsOf(p.line))
		}
		plans = append(plans, p)
	}

	radius := cfg.Radius
	bounds := extent
	if radius > 0 {
		bounds = geometry.BoundsOf(orb.LineString{{-radius, -radius}, {radius, radius}})
	} else {
		if extent.IsEmpty() {
			return nil, stageErr("Bounds", -1, ErrNoFeatures)
		}
		radius = extent.MaxDimension() / 2
	}

	corner := projector.Unproject(bounds.Max)
	if d := projector.Distortion(corner); d > maxDistortion {
		warn(Warning{Layer: "input", Feature: -1, Message: fmt.Sprintf("projection distortion %.2f%% at the map corner", d*100)})
	}

	scaler := geometry.NewScalerWithMargin(bounds, cfg.Size, cfg.BottomMargin)

	parts := make([]mesh.Mesh, len(plans))
	partWarnings := make([][]Warning, len(plans))
	filtered := make([]bool, len(plans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range plans {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := plans[i]
			if p.f.Class.IsRoad() && !cfg.IncludesRoad(p.f.Class.String()) {
				filtered[i] = true
				return nil
			}
			parts[i], partWarnings[i] = extrude(p, scaler, cfg, radius)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stageErr("Extrude", -1, err)
	}

	layers := make(map[string]mesh.Mesh, len(LayerOrder))
	counts := make(map[string]int, len(LayerOrder))

	base, err := basePlate(plans, scaler, cfg)
	if err != nil {
		warn(Warning{Layer: LayerBase, Feature: -1, Message: err.Error() + ", using a square plate"})
		base = mesh.BasePlate(float32(cfg.Size), 0, float32(cfg.BaseHeight))
	}
	layers[LayerBase] = base
	layers[LayerText] = textLayer(cfg, ds.Center)

	for i, p := range plans {
		report.Warnings = append(report.Warnings, partWarnings[i]...)
		if filtered[i] {
			report.Filtered++
			continue
		}
		if parts[i].IsEmpty() {
			continue
		}
		report.Extruded++
		name := layerName(p.f.Class)
		m := layers[name]
		m.Append(parts[i])
		layers[name] = m
	}

	ordered := make([]mesh.Mesh, 0, len(LayerOrder))
	total := 0
	for _, name := range LayerOrder {
		ordered = append(ordered, layers[name])
		total += layers[name].Len()
	}
	if uint64(total) > stl.MaxTriangles {
		return nil, stageErr("Concatenate", -1, fmt.Errorf("%w: %d triangles", stl.ErrTooManyTriangles, total))
	}
	joined := mesh.Concat(ordered...)

	fixed, validation, err := mesh.ValidateAndFix(joined)
	report.Validation = validation
	if err != nil {
		return nil, stageErr("ValidateAndFix", -1, err)
	}
	// removed triangles are attributed back to the layers they came from
	if fixed.Len() != joined.Len() {
		counts = layerCounts(ordered)
	} else {
		for _, name := range LayerOrder {
			counts[name] = layers[name].Len()
		}
	}

	for _, w := range report.Warnings {
		log.Warn("feature skipped or trimmed",
			zap.String("layer", w.Layer),
			zap.Int("feature", w.Feature),
			zap.String("reason", w.Message))
	}
	for _, w := range validation.Warnings {
		log.Warn("mesh repaired", zap.String("reason", w))
	}
	log.Info("map built",
		zap.Int("features", len(ds.Features)),
		zap.Int("extruded", report.Extruded),
		zap.Int("triangles", fixed.Len()),
		zap.String("validation", validation.Summary()),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{
		Mesh:    fixed,
		Report:  report,
		Layers:  counts,
		Center:  ds.Center,
		S2Token: S2Token(ds.Center),
		Radius:  radius,
		Scale:   scaler.Scale,
	}, nil
}

// extrude builds the solid of one feature. It never fails: problems come
// back as warnings next to an empty mesh.
func extrude(p planned, scaler geometry.Scaler, cfg config.Config, radius float64) (mesh.Mesh, []Warning) {
	layer := layerName(p.f.Class)
	var warnings []Warning
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, Warning{Layer: layer, Feature: p.index, Message: fmt.Sprintf(format, args...)})
	}

	if p.f.Class.IsRoad() {
		class := p.f.Class.String()
		dims, _ := cfg.RoadDimensions(class, radius)
		line := geometry.Simplify(p.line, cfg.SimplifyEpsilon(class))
		m := mesh.ExtrudeRibbon(
			scaler.ApplyAll(line),
			float32(dims.Width),
			float32(cfg.BaseHeight+dims.Height),
			float32(cfg.RoadBaseZ(p.f.Layer)))
		if m.IsEmpty() {
			warn("%s road is degenerate", class)
		}
		return m, warnings
	}

	var eps float64
	if cfg.Simplify > 0 {
		eps = geometry.Epsilon(radius)
	}
	outer := geometry.SimplifyRing(p.outer, eps)
	if outer == nil {
		warn("outer ring has fewer than 3 points after simplification")
		return mesh.Mesh{}, warnings
	}

	var holes [][]mgl32.Vec2
	var holeIndex []int
	for i, h := range p.holes {
		r := geometry.SimplifyRing(h, eps)
		if r == nil {
			warn("hole %d dropped, fewer than 3 points", i)
			continue
		}
		holes = append(holes, scaler.ApplyAll(r))
		holeIndex = append(holeIndex, i)
	}

	iv := cfg.Layers.Parks
	if p.f.Class == Water {
		iv = cfg.Layers.Water
	}

	m, skipped, err := mesh.ExtrudePolygon(scaler.ApplyAll(outer), holes, float32(iv.Bottom), float32(iv.Top))
	if err != nil {
		if errors.Is(err, mesh.ErrTriangulation) {
			warn("polygon skipped: %v", err)
		} else {
			warn("polygon skipped: unexpected error: %v", err)
		}
		return mesh.Mesh{}, warnings
	}
	for _, s := range skipped {
		warn("hole %d skipped, outside the outer ring or not bridgeable", holeIndex[s])
	}
	if m.IsEmpty() {
		warn("%s polygon is degenerate", p.f.Class)
	}
	return m, warnings
}

// basePlate builds the foundation in the configured shape.
func basePlate(plans []planned, scaler geometry.Scaler, cfg config.Config) (mesh.Mesh, error) {
	size, top := float32(cfg.Size), float32(cfg.BaseHeight)
	if cfg.BaseShape != config.ShapeHull {
		return mesh.BasePlate(size, 0, top), nil
	}

	var pts []mgl32.Vec2
	for _, p := range plans {
		pts = append(pts, scaler.ApplyAll(p.line)...)
		pts = append(pts, scaler.ApplyAll(p.outer)...)
	}
	m, err := mesh.HullPlate(pts, 0, top)
	if err != nil {
		return mesh.Mesh{}, err
	}
	if m.IsEmpty() {
		return mesh.Mesh{}, errors.New("feature hull is degenerate")
	}
	return m, nil
}

func layerName(c FeatureClass) string {
	switch c.Kind() {
	case "road":
		return LayerRoads
	case "water":
		return LayerWater
	case "park":
		return LayerParks
	}
	return LayerBase
}

// layerCounts counts the triangles of each layer that survive repair.
func layerCounts(ordered []mesh.Mesh) map[string]int {
	counts := make(map[string]int, len(LayerOrder))
	for i, name := range LayerOrder {
		counts[name] = mesh.RemoveDegenerate(ordered[i]).Len()
	}
	return counts
}
