package mesh

import (
	"testing"
)

func TestStrokeFontWidth(t *testing.T) {
	f := NewStrokeFont(7)
	if f.CharWidth != 5 || f.Spacing != 1.5 || !near(float64(f.Stroke), 0.8, 1e-6) {
		t.Fatalf("font %+v", f)
	}
	if w := f.Width("AB"); !near(float64(w), 11.5, 1e-6) {
		t.Errorf("width of AB = %v, want 11.5", w)
	}
	if f.Width("") != 0 {
		t.Error("empty text has a width")
	}
	if f.Width("°°") != f.Width("AB") {
		t.Error("width must count characters, not bytes")
	}

	if got := f.Fit("AB", 100); got != f {
		t.Errorf("fitting text was resized to %+v", got)
	}
	small := f.Fit("AB", 5.75)
	if !near(float64(small.CharHeight), 3.5, 1e-6) || !near(float64(small.Width("AB")), 5.75, 1e-5) {
		t.Errorf("fit font %+v", small)
	}
}

func TestGlyphsAreClosed(t *testing.T) {
	f := NewStrokeFont(7)
	for r := range glyphs {
		m := f.Render(string(r), 0, 0, 0, 2.4)
		if r == ' ' {
			if !m.IsEmpty() {
				t.Errorf("space drew %d triangles", m.Len())
			}
			continue
		}
		if m.IsEmpty() {
			t.Errorf("%q drew nothing", r)
			continue
		}
		if open := m.OpenEdges(); open != 0 {
			t.Errorf("%q has %d open edges", r, open)
		}
		if v := m.Volume(); !(v > 0) {
			t.Errorf("%q has volume %v", r, v)
		}
	}
}

func TestRenderPlacement(t *testing.T) {
	f := NewStrokeFont(7)
	m := f.Render("H", 10, 20, 1, 2)

	lo, hi := m.BoundingBox()
	half := float64(f.Stroke) / 2
	if !near(float64(lo.X()), 10-half, 1e-4) || !near(float64(hi.X()), 15+half, 1e-4) {
		t.Errorf("x span %v..%v", lo.X(), hi.X())
	}
	if !near(float64(lo.Y()), 20, 1e-4) || !near(float64(hi.Y()), 27, 1e-4) {
		t.Errorf("y span %v..%v", lo.Y(), hi.Y())
	}
	if lo.Z() != 1 || hi.Z() != 3 {
		t.Errorf("z span %v..%v", lo.Z(), hi.Z())
	}

	c := f.RenderCentered("H", 100, 0, 0, 1)
	lo, hi = c.BoundingBox()
	if !near(float64(lo.X()+hi.X())/2, 100, 1e-4) {
		t.Errorf("centered H spans %v..%v", lo.X(), hi.X())
	}
}

func TestRenderUnknownCharacters(t *testing.T) {
	f := NewStrokeFont(7)
	if HasGlyph('~') || !HasGlyph('a') || !HasGlyph('°') {
		t.Fatal("HasGlyph")
	}
	if got, want := f.Render("~", 0, 0, 0, 1).Len(), f.Render("#", 0, 0, 0, 1).Len(); got != want || got == 0 {
		t.Errorf("unknown characters drew %d and %d triangles", got, want)
	}

	lower, upper := f.Render("amsterdam", 0, 0, 0, 1), f.Render("AMSTERDAM", 0, 0, 0, 1)
	if lower.Len() != upper.Len() || lower.Triangles[0] != upper.Triangles[0] {
		t.Error("lower case should draw capitals")
	}
}
