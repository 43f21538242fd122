package mesh

import (
	"errors"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrTriangulation is returned when ear clipping runs out of ears, which
// happens for self-intersecting or otherwise unorderable rings.
var ErrTriangulation = errors.New("no ear found, ring is not simple")

const collinearEps = 1e-12

// Triangulation is the result of ear clipping one polygon.
type Triangulation struct {
	// Points is the outer ring followed by every hole, in input order.
	Points []mgl32.Vec2
	// Indices holds counter-clockwise triples into Points.
	Indices []int
	// Rings lists the boundaries that were triangulated as indices into
	// Points: the outer ring counter-clockwise, then holes clockwise.
	Rings [][]int
	// Skipped holds input hole positions left out because they were
	// degenerate, outside the outer ring or could not be bridged.
	Skipped []int
}

// Triangulate splits a polygon with holes into triangles by ear clipping.
// Holes are first merged into the outer ring through bridge edges to their
// closest visible outer vertex. An outer ring with fewer than three points or
// no area gives an empty result.
func Triangulate(outer []mgl32.Vec2, holes [][]mgl32.Vec2) (Triangulation, error) {
	var tr Triangulation
	if len(outer) < 3 {
		return tr, nil
	}

	tr.Points = append(tr.Points, outer...)
	for _, h := range holes {
		tr.Points = append(tr.Points, h...)
	}
	pts := make([]orb.Point, len(tr.Points))
	for i, p := range tr.Points {
		pts[i] = orb.Point{float64(p[0]), float64(p[1])}
	}

	outerIdx, ok := orient(pts, seq(0, len(outer)), orb.CCW)
	if !ok {
		return Triangulation{}, nil
	}
	tr.Rings = append(tr.Rings, outerIdx)
	outerRing := ringOf(pts, outerIdx)

	type hole struct {
		pos  int
		idx  []int
		maxX float64
	}
	var pending []hole
	offset := len(outer)
	for pos, h := range holes {
		idx := seq(offset, len(h))
		offset += len(h)

		if len(h) < 3 {
			tr.Skipped = append(tr.Skipped, pos)
			continue
		}
		idx, ok := orient(pts, idx, orb.CW)
		if !ok || !ringInside(pts, idx, outerRing) {
			tr.Skipped = append(tr.Skipped, pos)
			continue
		}

		hl := hole{pos: pos, idx: idx, maxX: math.Inf(-1)}
		for _, i := range idx {
			hl.maxX = math.Max(hl.maxX, pts[i][0])
		}
		pending = append(pending, hl)
	}

	// rightmost holes first, so later bridges never cross earlier ones
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].maxX > pending[j].maxX })

	poly := append([]int(nil), outerIdx...)
	for k, h := range pending {
		rings := [][]int{poly, h.idx}
		for _, o := range pending[k+1:] {
			rings = append(rings, o.idx)
		}
		merged, ok := bridge(pts, poly, h.idx, rings)
		if !ok {
			tr.Skipped = append(tr.Skipped, h.pos)
			continue
		}
		poly = merged
		tr.Rings = append(tr.Rings, h.idx)
	}
	sort.Ints(tr.Skipped)

	indices, err := earClip(pts, poly)
	if err != nil {
		return Triangulation{}, err
	}
	tr.Indices = indices
	return tr, nil
}

// orient returns idx wound in the wanted direction, reversing a copy when
// needed. Rings without area report false.
func orient(pts []orb.Point, idx []int, want orb.Orientation) ([]int, bool) {
	o := ringOf(pts, idx).Orientation()
	if o == 0 {
		return nil, false
	}
	if o == want {
		return idx, true
	}
	rev := make([]int, len(idx))
	for i, v := range idx {
		rev[len(idx)-1-i] = v
	}
	return rev, true
}

func ringOf(pts []orb.Point, idx []int) orb.Ring {
	r := make(orb.Ring, len(idx))
	for i, v := range idx {
		r[i] = pts[v]
	}
	return r
}

func ringInside(pts []orb.Point, idx []int, outer orb.Ring) bool {
	for _, i := range idx {
		if !planar.RingContains(outer, pts[i]) {
			return false
		}
	}
	return true
}

func seq(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// bridge splices hole into poly through a zero-area cut from the hole's
// rightmost vertex to the closest polygon vertex it can see.
func bridge(pts []orb.Point, poly, hole []int, rings [][]int) ([]int, bool) {
	m := 0
	for i, v := range hole {
		if pts[v][0] > pts[hole[m]][0] {
			m = i
		}
	}
	mp := pts[hole[m]]

	cands := make([]int, len(poly))
	for i := range cands {
		cands[i] = i
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return dist2(pts[poly[cands[i]]], mp) < dist2(pts[poly[cands[j]]], mp)
	})

	for _, k := range cands {
		v := poly[k]
		n := len(poly)
		prev, next := pts[poly[(k+n-1)%n]], pts[poly[(k+1)%n]]
		if !inCone(prev, pts[v], next, mp) {
			continue
		}
		if !visible(pts, mp, pts[v], rings) {
			continue
		}

		merged := make([]int, 0, len(poly)+len(hole)+2)
		merged = append(merged, poly[:k+1]...)
		for i := 0; i <= len(hole); i++ {
			merged = append(merged, hole[(m+i)%len(hole)])
		}
		merged = append(merged, v)
		merged = append(merged, poly[k+1:]...)
		return merged, true
	}
	return nil, false
}

// inCone reports whether x lies inside the interior angle at v of a
// counter-clockwise polygon.
func inCone(prev, v, next, x orb.Point) bool {
	if cross(prev, v, next) >= 0 {
		return cross(prev, v, x) > 0 && cross(v, next, x) > 0
	}
	return cross(prev, v, x) > 0 || cross(v, next, x) > 0
}

// visible reports whether segment a-b touches no ring edge or vertex other
// than at its own endpoints.
func visible(pts []orb.Point, a, b orb.Point, rings [][]int) bool {
	for _, ring := range rings {
		for i := range ring {
			p, q := pts[ring[i]], pts[ring[(i+1)%len(ring)]]
			if p != a && p != b && onSegment(a, b, p) {
				return false
			}
			if p == a || p == b || q == a || q == b {
				continue
			}
			if segmentsCross(a, b, p, q) {
				return false
			}
		}
	}
	return true
}

// earClip triangulates a simple counter-clockwise polygon given as indices,
// which may repeat vertices along bridge cuts.
func earClip(pts []orb.Point, poly []int) ([]int, error) {
	ring := append([]int(nil), poly...)
	out := make([]int, 0, 3*(len(ring)-2))

	for len(ring) > 3 {
		n := len(ring)
		clipped := false
		for i := 0; i < n; i++ {
			a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			if !isEar(pts, ring, a, b, c) {
				continue
			}
			out = append(out, a, b, c)
			ring = append(ring[:i], ring[i+1:]...)
			clipped = true
			break
		}
		if clipped {
			continue
		}

		// collinear vertices contribute no area and can be dropped
		for i := 0; i < n; i++ {
			a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
			if math.Abs(cross(pts[a], pts[b], pts[c])) <= collinearEps {
				ring = append(ring[:i], ring[i+1:]...)
				clipped = true
				break
			}
		}
		if !clipped {
			return nil, ErrTriangulation
		}
	}

	if len(ring) == 3 && cross(pts[ring[0]], pts[ring[1]], pts[ring[2]]) > collinearEps {
		out = append(out, ring[0], ring[1], ring[2])
	}
	return out, nil
}

func isEar(pts []orb.Point, ring []int, a, b, c int) bool {
	pa, pb, pc := pts[a], pts[b], pts[c]
	if cross(pa, pb, pc) <= collinearEps {
		return false
	}
	for _, v := range ring {
		p := pts[v]
		if p == pa || p == pb || p == pc {
			continue
		}
		if inTriangle(pa, pb, pc, p) {
			return false
		}
	}
	return true
}

// cross is (a-o) x (b-o); positive when b lies left of o->a.
func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func inTriangle(a, b, c, p orb.Point) bool {
	return cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0
}

func onSegment(a, b, p orb.Point) bool {
	if math.Abs(cross(a, b, p)) > collinearEps {
		return false
	}
	return p[0] >= math.Min(a[0], b[0]) && p[0] <= math.Max(a[0], b[0]) &&
		p[1] >= math.Min(a[1], b[1]) && p[1] <= math.Max(a[1], b[1])
}

func segmentsCross(a, b, c, d orb.Point) bool {
	d1, d2 := cross(a, b, c), cross(a, b, d)
	d3, d4 := cross(c, d, a), cross(c, d, b)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func dist2(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}
