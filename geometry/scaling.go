package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb"
)

// Bounds is the planar extent of projected features in meters. The zero
// value is empty.
type Bounds struct {
	orb.Bound
	ok bool
}

// BoundsOf collects the extent of every point in the given sequences.
func BoundsOf(lines ...orb.LineString) Bounds {
	var b Bounds
	for _, ls := range lines {
		for _, p := range ls {
			b = b.Extend(p)
		}
	}
	return b
}

// Extend grows the bounds to include p.
func (b Bounds) Extend(p orb.Point) Bounds {
	if !b.ok {
		return Bounds{Bound: orb.Bound{Min: p, Max: p}, ok: true}
	}
	return Bounds{Bound: b.Bound.Extend(p), ok: true}
}

// Union grows the bounds to include o.
func (b Bounds) Union(o Bounds) Bounds {
	if !o.ok {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// IsEmpty reports whether no point was ever added.
func (b Bounds) IsEmpty() bool {
	return !b.ok
}

// Width in meters.
func (b Bounds) Width() float64 {
	return b.Max[0] - b.Min[0]
}

// Height in meters.
func (b Bounds) Height() float64 {
	return b.Max[1] - b.Min[1]
}

// MaxDimension is the larger of width and height.
func (b Bounds) MaxDimension() float64 {
	if w, h := b.Width(), b.Height(); w > h {
		return w
	}
	return b.Height()
}

// Scaler maps planar meters onto the output square in millimeters with one
// isotropic scale factor and a translation.
type Scaler struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Target  float64
}

// NewScaler centers b inside a target x target square.
func NewScaler(b Bounds, target float64) Scaler {
	return NewScalerWithMargin(b, target, 0)
}

// NewScalerWithMargin reserves bottomMargin millimeters along the lower edge
// and centers b in the remaining area.
func NewScalerWithMargin(b Bounds, target, bottomMargin float64) Scaler {
	usable := target - bottomMargin

	scale := 1.0
	if d := b.MaxDimension(); d > 0 {
		scale = usable / d
	}

	w := b.Width() * scale
	h := b.Height() * scale
	return Scaler{
		Scale:   scale,
		OffsetX: (target-w)/2 - b.Min[0]*scale,
		OffsetY: bottomMargin + (usable-h)/2 - b.Min[1]*scale,
		Target:  target,
	}
}

// Apply converts to millimeters, narrowing to single precision only here.
func (s Scaler) Apply(p orb.Point) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(p[0]*s.Scale + s.OffsetX),
		float32(p[1]*s.Scale + s.OffsetY),
	}
}

// ApplyAll converts a sequence, keeping its order.
func (s Scaler) ApplyAll(ls []orb.Point) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, len(ls))
	for i, p := range ls {
		out[i] = s.Apply(p)
	}
	return out
}

// Length converts a distance in meters to millimeters.
func (s Scaler) Length(meters float64) float64 {
	return meters * s.Scale
}

// MillimetersPerKm is the printed length of one kilometer.
func (s Scaler) MillimetersPerKm() float64 {
	return s.Scale * 1000
}
