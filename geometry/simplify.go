package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify runs Douglas-Peucker over ls with a tolerance in the same units as
// the points. The first and last points are kept and the result is a
// subsequence of the input. Inputs shorter than three points come back as a
// copy.
func Simplify(ls orb.LineString, epsilon float64) orb.LineString {
	if len(ls) < 3 || epsilon <= 0 {
		return ls.Clone()
	}
	return simplify.DouglasPeucker(epsilon).LineString(ls.Clone())
}

// SimplifyRing simplifies a ring stored without its closing point. The ring is
// treated as an open path from its first to its last stored point, so the
// implicit closing edge is never collapsed. A nil result means fewer than
// three points survived and the ring must be dropped.
func SimplifyRing(r orb.Ring, epsilon float64) orb.Ring {
	out := orb.Ring(Simplify(orb.LineString(r), epsilon))
	if len(out) < 3 {
		return nil
	}
	return out
}

// Epsilon picks a simplification tolerance in meters from the map radius.
func Epsilon(radius float64) float64 {
	switch {
	case radius < 3000:
		return 2
	case radius < 5000:
		return 5
	case radius < 10000:
		return 8
	case radius < 20000:
		return 15
	default:
		return 25
	}
}
