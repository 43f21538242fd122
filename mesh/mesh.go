package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an ordered triangle soup. Each triangle owns its vertices; no
// adjacency is kept. Order is preserved so output bytes are deterministic.
type Mesh struct {
	Triangles []Triangle
}

// New returns an empty mesh with room for n triangles.
func New(n int) Mesh {
	return Mesh{Triangles: make([]Triangle, 0, n)}
}

// Add appends the triangle a, b, c with its normal computed from the winding.
func (m *Mesh) Add(a, b, c mgl32.Vec3) {
	m.Triangles = append(m.Triangles, NewTriangle(a, b, c))
}

// AddTriangle appends t as is.
func (m *Mesh) AddTriangle(t Triangle) {
	m.Triangles = append(m.Triangles, t)
}

// AddQuad appends the planar quad a, b, c, d (counter-clockwise from the
// outside) as two triangles, always split along the a-c diagonal.
func (m *Mesh) AddQuad(a, b, c, d mgl32.Vec3) {
	m.Add(a, b, c)
	m.Add(a, c, d)
}

// Append concatenates o after the triangles already held.
func (m *Mesh) Append(o Mesh) {
	m.Triangles = append(m.Triangles, o.Triangles...)
}

// Len returns the triangle count.
func (m Mesh) Len() int {
	return len(m.Triangles)
}

// IsEmpty reports whether the mesh holds no triangles.
func (m Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Concat joins meshes in the given order.
func Concat(parts ...Mesh) Mesh {
	n := 0
	for _, p := range parts {
		n += p.Len()
	}
	out := New(n)
	for _, p := range parts {
		out.Append(p)
	}
	return out
}

// Volume sums signed tetrahedra against the origin. For a closed solid with
// outward normals the result is its positive enclosed volume.
func (m Mesh) Volume() float64 {
	volume := 0.0
	for _, t := range m.Triangles {
		a, b, c := vec64(t.Vertices[0]), vec64(t.Vertices[1]), vec64(t.Vertices[2])
		volume += a.Dot(b.Cross(c))
	}
	return volume / 6
}

// SurfaceArea is the sum of all triangle areas.
func (m Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		total += t.Area()
	}
	return total
}

// BoundingBox returns the component-wise minimum and maximum vertex. Both are
// zero for an empty mesh.
func (m Mesh) BoundingBox() (lo, hi mgl32.Vec3) {
	if m.IsEmpty() {
		return lo, hi
	}
	inf := float32(math.Inf(1))
	lo = mgl32.Vec3{inf, inf, inf}
	hi = mgl32.Vec3{-inf, -inf, -inf}
	for _, t := range m.Triangles {
		for _, v := range t.Vertices {
			for i := 0; i < 3; i++ {
				if v[i] < lo[i] {
					lo[i] = v[i]
				}
				if v[i] > hi[i] {
					hi[i] = v[i]
				}
			}
		}
	}
	return lo, hi
}

// OpenEdges counts directed edges without a matching reversed edge. A closed,
// consistently wound solid has none.
func (m Mesh) OpenEdges() int {
	type edge [2]mgl32.Vec3
	count := make(map[edge]int, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		for i := 0; i < 3; i++ {
			count[edge{t.Vertices[i], t.Vertices[(i+1)%3]}]++
		}
	}

	open := 0
	for e, n := range count {
		back := count[edge{e[1], e[0]}]
		if n > back {
			open += n - back
		}
	}
	return open
}
