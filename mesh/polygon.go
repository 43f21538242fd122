package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ExtrudePolygon lifts a polygon with holes into a closed solid between
// zBottom and zTop. The triangulation appears at zTop facing up and at
// zBottom with reversed winding facing down; every boundary edge of every
// kept ring gets an outward facing wall.
//
// Fewer than three outer points or zTop <= zBottom give an empty mesh. The
// returned slice lists input hole positions that were left out. A non-nil
// error means the rings could not be triangulated at all.
func ExtrudePolygon(outer []mgl32.Vec2, holes [][]mgl32.Vec2, zBottom, zTop float32) (Mesh, []int, error) {
	if len(outer) < 3 || !(zTop > zBottom) {
		return Mesh{}, nil, nil
	}

	tr, err := Triangulate(outer, holes)
	if err != nil {
		return Mesh{}, nil, err
	}
	if len(tr.Indices) == 0 {
		return Mesh{}, tr.Skipped, nil
	}

	at := func(i int, z float32) mgl32.Vec3 {
		p := tr.Points[i]
		return mgl32.Vec3{p[0], p[1], z}
	}

	walls := 0
	for _, r := range tr.Rings {
		walls += 2 * len(r)
	}
	m := New(2*len(tr.Indices)/3 + walls)

	for i := 0; i+2 < len(tr.Indices); i += 3 {
		a, b, c := tr.Indices[i], tr.Indices[i+1], tr.Indices[i+2]
		m.Add(at(a, zTop), at(b, zTop), at(c, zTop))
		m.Add(at(a, zBottom), at(c, zBottom), at(b, zBottom))
	}

	// the outer ring runs counter-clockwise and holes clockwise, so the
	// material is always on the left of each edge
	for _, r := range tr.Rings {
		for i := range r {
			p, q := r[i], r[(i+1)%len(r)]
			m.AddQuad(at(p, zBottom), at(q, zBottom), at(q, zTop), at(p, zTop))
		}
	}

	return m, tr.Skipped, nil
}
