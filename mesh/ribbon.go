package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// RibbonOptions tweaks ribbon extrusion.
type RibbonOptions struct {
	// OpenBottom omits the bottom face for ribbons resting on another solid.
	OpenBottom bool
}

// ExtrudeRibbon turns a polyline into a closed solid of the given width and
// height whose bottom face lies at baseZ. Fewer than two distinct points or a
// non-positive width or height yield an empty mesh.
//
// Rails are offset along the perpendicular of the averaged neighbouring
// segment directions with no miter length correction, so sharp turns pinch
// slightly. Both rails stay continuous, which keeps the solid closed.
func ExtrudeRibbon(points []mgl32.Vec2, width, height, baseZ float32) Mesh {
	return ExtrudeRibbonWith(points, width, height, baseZ, RibbonOptions{})
}

// ExtrudeRibbonWith is ExtrudeRibbon with explicit options.
func ExtrudeRibbonWith(points []mgl32.Vec2, width, height, baseZ float32, opts RibbonOptions) Mesh {
	if width <= 0 || height <= 0 {
		return Mesh{}
	}

	pts := dedupe(points)
	n := len(pts)
	if n < 2 {
		return Mesh{}
	}

	left, right := rails(pts, float64(width)/2)

	z0, z1 := baseZ, baseZ+height
	at := func(p mgl32.Vec2, z float32) mgl32.Vec3 { return mgl32.Vec3{p[0], p[1], z} }

	tris := 6*(n-1) + 4
	if !opts.OpenBottom {
		tris += 2 * (n - 1)
	}
	m := New(tris)

	for i := 0; i < n-1; i++ {
		l0, l1 := left[i], left[i+1]
		r0, r1 := right[i], right[i+1]

		// top
		m.AddQuad(at(r0, z1), at(r1, z1), at(l1, z1), at(l0, z1))
		if !opts.OpenBottom {
			m.AddQuad(at(r0, z0), at(l0, z0), at(l1, z0), at(r1, z0))
		}
		// left wall
		m.AddQuad(at(l1, z0), at(l0, z0), at(l0, z1), at(l1, z1))
		// right wall
		m.AddQuad(at(r0, z0), at(r1, z0), at(r1, z1), at(r0, z1))
	}

	// end caps
	m.AddQuad(at(left[0], z0), at(right[0], z0), at(right[0], z1), at(left[0], z1))
	m.AddQuad(at(right[n-1], z0), at(left[n-1], z0), at(left[n-1], z1), at(right[n-1], z1))

	return m
}

// rails offsets each point by half along the left-hand perpendicular of its
// averaged direction.
func rails(pts []mgl32.Vec2, half float64) (left, right []mgl32.Vec2) {
	n := len(pts)
	left = make([]mgl32.Vec2, n)
	right = make([]mgl32.Vec2, n)

	for i := range pts {
		var dir mgl64.Vec2
		switch i {
		case 0:
			dir = direction(pts[0], pts[1])
		case n - 1:
			dir = direction(pts[n-2], pts[n-1])
		default:
			in := direction(pts[i-1], pts[i])
			dir = in.Add(direction(pts[i], pts[i+1]))
			if dir.Len() < 1e-9 {
				// the path doubles back on itself
				dir = in
			} else {
				dir = dir.Normalize()
			}
		}

		perp := mgl64.Vec2{-dir[1], dir[0]}.Mul(half)
		p := mgl64.Vec2{float64(pts[i][0]), float64(pts[i][1])}
		l, r := p.Add(perp), p.Sub(perp)
		left[i] = mgl32.Vec2{float32(l[0]), float32(l[1])}
		right[i] = mgl32.Vec2{float32(r[0]), float32(r[1])}
	}
	return left, right
}

func direction(a, b mgl32.Vec2) mgl64.Vec2 {
	d := mgl64.Vec2{float64(b[0]) - float64(a[0]), float64(b[1]) - float64(a[1])}
	return d.Normalize()
}

// dedupe drops consecutive repeated points, which have no direction.
func dedupe(points []mgl32.Vec2) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, 0, len(points))
	for i, p := range points {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
