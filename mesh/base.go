package mesh

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/go-gl/mathgl/mgl32"
)

// Box returns the closed axis-aligned box spanning lo to hi, twelve
// triangles. An empty mesh comes back when any extent is not positive.
func Box(lo, hi mgl32.Vec3) Mesh {
	if !(hi[0] > lo[0] && hi[1] > lo[1] && hi[2] > lo[2]) {
		return Mesh{}
	}
	x0, y0, z0 := lo[0], lo[1], lo[2]
	x1, y1, z1 := hi[0], hi[1], hi[2]
	v := func(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x, y, z} }

	m := New(12)
	m.AddQuad(v(x0, y0, z0), v(x0, y1, z0), v(x1, y1, z0), v(x1, y0, z0))
	m.AddQuad(v(x0, y0, z1), v(x1, y0, z1), v(x1, y1, z1), v(x0, y1, z1))
	m.AddQuad(v(x0, y0, z0), v(x1, y0, z0), v(x1, y0, z1), v(x0, y0, z1))
	m.AddQuad(v(x1, y1, z0), v(x0, y1, z0), v(x0, y1, z1), v(x1, y1, z1))
	m.AddQuad(v(x0, y1, z0), v(x0, y0, z0), v(x0, y0, z1), v(x0, y1, z1))
	m.AddQuad(v(x1, y0, z0), v(x1, y1, z0), v(x1, y1, z1), v(x1, y0, z1))
	return m
}

// BasePlate is the square foundation under the map, size x size millimeters
// from zBottom up to zTop.
func BasePlate(size, zBottom, zTop float32) Mesh {
	return Box(mgl32.Vec3{0, 0, zBottom}, mgl32.Vec3{size, size, zTop})
}

// HullPlate builds a foundation shaped like the convex hull of points. The
// hull is found and its faces triangulated with a Delaunay triangulation;
// the walls follow the hull counter-clockwise.
func HullPlate(points []mgl32.Vec2, zBottom, zTop float32) (Mesh, error) {
	if len(points) < 3 || !(zTop > zBottom) {
		return Mesh{}, nil
	}

	input := make([]delaunay.Point, len(points))
	for i, p := range points {
		input[i] = delaunay.Point{X: float64(p[0]), Y: float64(p[1])}
	}
	all, err := delaunay.Triangulate(input)
	if err != nil {
		return Mesh{}, fmt.Errorf("[delaunay.Triangulate] in pkg [mesh] encountered: %w", err)
	}

	hull := strictHull(all.ConvexHull)
	if len(hull) < 3 {
		return Mesh{}, nil
	}
	faces, err := delaunay.Triangulate(hull)
	if err != nil {
		return Mesh{}, fmt.Errorf("[delaunay.Triangulate] in pkg [mesh] encountered: %w", err)
	}

	at := func(p delaunay.Point, z float32) mgl32.Vec3 {
		return mgl32.Vec3{float32(p.X), float32(p.Y), z}
	}

	m := New(2*len(faces.Triangles)/3 + 2*len(hull))
	for i := 0; i+2 < len(faces.Triangles); i += 3 {
		a := faces.Points[faces.Triangles[i]]
		b := faces.Points[faces.Triangles[i+1]]
		c := faces.Points[faces.Triangles[i+2]]
		if turn(a, b, c) < 0 {
			b, c = c, b
		}
		m.Add(at(a, zTop), at(b, zTop), at(c, zTop))
		m.Add(at(a, zBottom), at(c, zBottom), at(b, zBottom))
	}
	for i := range hull {
		p, q := hull[i], hull[(i+1)%len(hull)]
		m.AddQuad(at(p, zBottom), at(q, zBottom), at(q, zTop), at(p, zTop))
	}
	return m, nil
}

// strictHull returns the hull counter-clockwise with collinear points
// removed, so the face triangulation shares every boundary edge with a wall.
func strictHull(hull []delaunay.Point) []delaunay.Point {
	var area float64
	for i := range hull {
		p, q := hull[i], hull[(i+1)%len(hull)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area < 0 {
		rev := make([]delaunay.Point, len(hull))
		for i, p := range hull {
			rev[len(hull)-1-i] = p
		}
		hull = rev
	}

	out := make([]delaunay.Point, 0, len(hull))
	for i := range hull {
		prev := hull[(i+len(hull)-1)%len(hull)]
		next := hull[(i+1)%len(hull)]
		if math.Abs(turn(prev, hull[i], next)) > collinearEps {
			out = append(out, hull[i])
		}
	}
	return out
}

func turn(o, a, b delaunay.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
