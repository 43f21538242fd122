package mesh

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyMesh is returned when nothing survives repair.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// NormalTolerance is the largest angle in radians a stored normal may deviate
// from the winding normal.
const NormalTolerance = 1e-3

// Report counts what Validate found. It is never persisted.
type Report struct {
	Total      int
	Degenerate int
	NonFinite  int
	BadNormals int
	Warnings   []string
}

// Valid reports a mesh with nothing to fix.
func (r Report) Valid() bool {
	return r.Degenerate == 0 && r.NonFinite == 0 && r.BadNormals == 0
}

// Summary renders the report as one line.
func (r Report) Summary() string {
	if r.Valid() {
		return fmt.Sprintf("Mesh valid: %d triangles, no issues", r.Total)
	}
	var parts []string
	if r.Degenerate > 0 {
		parts = append(parts, fmt.Sprintf("%d degenerate", r.Degenerate))
	}
	if r.NonFinite > 0 {
		parts = append(parts, fmt.Sprintf("%d non-finite", r.NonFinite))
	}
	if r.BadNormals > 0 {
		parts = append(parts, fmt.Sprintf("%d bad normals", r.BadNormals))
	}
	return fmt.Sprintf("Mesh issues: %s (of %d triangles)", strings.Join(parts, ", "), r.Total)
}

// Validate scans every triangle and reports degenerate area, non-finite
// coordinates and normals that disagree with the winding. It never mutates m.
func Validate(m Mesh) Report {
	r := Report{Total: m.Len()}
	for i, t := range m.Triangles {
		if !t.IsFinite() {
			r.NonFinite++
			r.Warnings = append(r.Warnings, fmt.Sprintf("triangle %d has non-finite coordinates", i))
			continue
		}
		if t.Area() < MinTriangleArea {
			r.Degenerate++
			continue
		}
		if !normalAgrees(t) {
			r.BadNormals++
		}
	}
	if r.Degenerate > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d degenerate triangles below area %g", r.Degenerate, MinTriangleArea))
	}
	if r.BadNormals > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d normals disagree with vertex winding", r.BadNormals))
	}
	return r
}

// FixNormals overwrites every stored normal with the one derived from the
// vertex winding.
func FixNormals(m *Mesh) {
	for i := range m.Triangles {
		v := m.Triangles[i].Vertices
		m.Triangles[i].Normal = ComputeNormal(v[0], v[1], v[2])
	}
}

// RemoveDegenerate returns a new mesh without degenerate or non-finite
// triangles, keeping the order of the rest.
func RemoveDegenerate(m Mesh) Mesh {
	out := New(m.Len())
	for _, t := range m.Triangles {
		if !t.IsDegenerate() {
			out.AddTriangle(t)
		}
	}
	return out
}

// ValidateAndFix validates m, repairs normals, drops degenerate triangles and
// fails with ErrEmptyMesh when nothing is left. The report describes the
// input mesh.
func ValidateAndFix(m Mesh) (Mesh, Report, error) {
	r := Validate(m)

	fixed := Mesh{Triangles: append([]Triangle(nil), m.Triangles...)}
	FixNormals(&fixed)
	fixed = RemoveDegenerate(fixed)

	if fixed.IsEmpty() {
		return fixed, r, ErrEmptyMesh
	}
	return fixed, r, nil
}

func normalAgrees(t Triangle) bool {
	want := cross64(t.Vertices[0], t.Vertices[1], t.Vertices[2])
	got := vec64(t.Normal)

	// stored normals must be unit length
	if l2 := got.Dot(got); l2 < 0.99 || l2 > 1.01 {
		return false
	}
	wl, gl := want.Len(), got.Len()
	if wl == 0 {
		return false
	}
	cos := want.Dot(got) / (wl * gl)
	if cos > 1 {
		cos = 1
	}
	return math.Acos(cos) <= NormalTolerance
}
