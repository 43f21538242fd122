// Package mesh builds closed triangle solids from planar geometry: ribbons
// for polylines and stroke text, extruded polygons with holes, base plates,
// plus the validation and repair run before a mesh is serialized.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// MinTriangleArea is the area below which a triangle counts as degenerate.
const MinTriangleArea = 1e-10

// DefaultNormal is stored for triangles whose winding yields no direction.
func DefaultNormal() mgl32.Vec3 {
	return mgl32.Vec3{0, 0, 1}
}

// Triangle owns its three vertices and one unit normal. The vertices are
// counter-clockwise when seen from the side the normal points to.
type Triangle struct {
	Normal   mgl32.Vec3
	Vertices [3]mgl32.Vec3
}

// NewTriangle builds a triangle with its normal derived from the winding.
func NewTriangle(a, b, c mgl32.Vec3) Triangle {
	return Triangle{
		Normal:   ComputeNormal(a, b, c),
		Vertices: [3]mgl32.Vec3{a, b, c},
	}
}

// ComputeNormal returns the normalized cross product (b-a) x (c-a), evaluated
// in double precision. Degenerate input yields DefaultNormal().
func ComputeNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := cross64(a, b, c)
	l := n.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return DefaultNormal()
	}
	n = n.Mul(1 / l)
	return mgl32.Vec3{float32(n[0]), float32(n[1]), float32(n[2])}
}

// Area of the triangle in squared output units.
func (t Triangle) Area() float64 {
	return cross64(t.Vertices[0], t.Vertices[1], t.Vertices[2]).Len() / 2
}

// IsFinite reports whether every vertex coordinate is a real number. The
// stored normal is not considered; FixNormals recomputes it.
func (t Triangle) IsFinite() bool {
	for _, v := range t.Vertices {
		if !finite(v) {
			return false
		}
	}
	return true
}

// IsDegenerate reports a triangle that must not reach the output.
func (t Triangle) IsDegenerate() bool {
	if !t.IsFinite() {
		return true
	}
	a := t.Area()
	return math.IsNaN(a) || a < MinTriangleArea
}

// Flip reverses the winding and the normal.
func (t Triangle) Flip() Triangle {
	return Triangle{
		Normal:   t.Normal.Mul(-1),
		Vertices: [3]mgl32.Vec3{t.Vertices[0], t.Vertices[2], t.Vertices[1]},
	}
}

func cross64(a, b, c mgl32.Vec3) mgl64.Vec3 {
	a64, b64, c64 := vec64(a), vec64(b), vec64(c)
	return b64.Sub(a64).Cross(c64.Sub(a64))
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
