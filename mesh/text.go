package mesh

import (
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	glyphCols = 5
	glyphRows = 7
)

// StrokeFont draws text as ribbons along glyph strokes. All sizes are in
// millimeters.
type StrokeFont struct {
	CharWidth  float32
	CharHeight float32
	Spacing    float32
	Stroke     float32
}

// NewStrokeFont returns a font whose capitals are height tall.
func NewStrokeFont(height float32) StrokeFont {
	u := height / glyphRows
	return StrokeFont{
		CharWidth:  glyphCols * u,
		CharHeight: height,
		Spacing:    1.5 * u,
		Stroke:     0.8 * u,
	}
}

// Width is the advance of text: every character cell plus the gaps between
// them.
func (f StrokeFont) Width(text string) float32 {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return float32(n)*f.CharWidth + float32(n-1)*f.Spacing
}

// Fit returns f shrunk so text is at most width wide, or f when it already
// fits.
func (f StrokeFont) Fit(text string, width float32) StrokeFont {
	w := f.Width(text)
	if w <= width || w == 0 {
		return f
	}
	return NewStrokeFont(f.CharHeight * width / w)
}

// Render draws text with the lower left corner of its first cell at x, y.
// Each stroke is its own closed solid standing from zBottom to
// zBottom+height.
func (f StrokeFont) Render(text string, x, y, zBottom, height float32) Mesh {
	sx, sy := f.CharWidth/glyphCols, f.CharHeight/glyphRows

	var m Mesh
	cursor := x
	for _, r := range text {
		for _, stroke := range glyph(r) {
			pts := make([]mgl32.Vec2, len(stroke))
			for i, p := range stroke {
				pts[i] = mgl32.Vec2{cursor + p[0]*sx, y + p[1]*sy}
			}
			m.Append(ExtrudeRibbon(pts, f.Stroke, height, zBottom))
		}
		cursor += f.CharWidth + f.Spacing
	}
	return m
}

// RenderCentered is Render with the text centered on centerX.
func (f StrokeFont) RenderCentered(text string, centerX, y, zBottom, height float32) Mesh {
	return f.Render(text, centerX-f.Width(text)/2, y, zBottom, height)
}
