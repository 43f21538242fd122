package mesh

import (
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
)

// Glyph strokes on a grid 5 units wide and 7 tall, origin at the lower left.
// A few marks reach slightly outside the cell.
var glyphs = map[rune][][]mgl32.Vec2{
	'A': {
		{{0, 0}, {2.5, 7}, {5, 0}},
		{{1, 3}, {4, 3}},
	},
	'B': {
		{{0, 0}, {0, 7}, {3.5, 7}, {5, 6}, {5, 4.5}, {3.5, 3.5}, {0, 3.5}},
		{{3.5, 3.5}, {5, 2.5}, {5, 1}, {3.5, 0}, {0, 0}},
	},
	'C': {{{5, 1}, {4, 0}, {1, 0}, {0, 1}, {0, 6}, {1, 7}, {4, 7}, {5, 6}}},
	'D': {{{0, 0}, {0, 7}, {3, 7}, {5, 5.5}, {5, 1.5}, {3, 0}, {0, 0}}},
	'E': {
		{{5, 0}, {0, 0}, {0, 7}, {5, 7}},
		{{0, 3.5}, {4, 3.5}},
	},
	'F': {
		{{0, 0}, {0, 7}, {5, 7}},
		{{0, 3.5}, {4, 3.5}},
	},
	'G': {{{5, 6}, {4, 7}, {1, 7}, {0, 6}, {0, 1}, {1, 0}, {4, 0}, {5, 1}, {5, 3.5}, {2.5, 3.5}}},
	'H': {
		{{0, 0}, {0, 7}},
		{{5, 0}, {5, 7}},
		{{0, 3.5}, {5, 3.5}},
	},
	'I': {
		{{1, 0}, {4, 0}},
		{{2.5, 0}, {2.5, 7}},
		{{1, 7}, {4, 7}},
	},
	'J': {
		{{0, 1}, {1, 0}, {3, 0}, {4, 1}, {4, 7}},
		{{2, 7}, {5, 7}},
	},
	'K': {
		{{0, 0}, {0, 7}},
		{{5, 7}, {0, 3.5}, {5, 0}},
	},
	'L': {{{0, 7}, {0, 0}, {5, 0}}},
	'M': {{{0, 0}, {0, 7}, {2.5, 4}, {5, 7}, {5, 0}}},
	'N': {{{0, 0}, {0, 7}, {5, 0}, {5, 7}}},
	'O': {{{1, 0}, {0, 1}, {0, 6}, {1, 7}, {4, 7}, {5, 6}, {5, 1}, {4, 0}, {1, 0}}},
	'P': {{{0, 0}, {0, 7}, {4, 7}, {5, 6}, {5, 4}, {4, 3}, {0, 3}}},
	'Q': {
		{{1, 0}, {0, 1}, {0, 6}, {1, 7}, {4, 7}, {5, 6}, {5, 1}, {4, 0}, {1, 0}},
		{{3, 2}, {5.5, -0.5}},
	},
	'R': {
		{{0, 0}, {0, 7}, {4, 7}, {5, 6}, {5, 4}, {4, 3}, {0, 3}},
		{{2.5, 3}, {5, 0}},
	},
	'S': {{{5, 6}, {4, 7}, {1, 7}, {0, 6}, {0, 4.5}, {1, 3.5}, {4, 3.5}, {5, 2.5}, {5, 1}, {4, 0}, {1, 0}, {0, 1}}},
	'T': {
		{{0, 7}, {5, 7}},
		{{2.5, 7}, {2.5, 0}},
	},
	'U': {{{0, 7}, {0, 1}, {1, 0}, {4, 0}, {5, 1}, {5, 7}}},
	'V': {{{0, 7}, {2.5, 0}, {5, 7}}},
	'W': {{{0, 7}, {1, 0}, {2.5, 4}, {4, 0}, {5, 7}}},
	'X': {
		{{0, 0}, {5, 7}},
		{{0, 7}, {5, 0}},
	},
	'Y': {
		{{0, 7}, {2.5, 3.5}, {5, 7}},
		{{2.5, 3.5}, {2.5, 0}},
	},
	'Z': {{{0, 7}, {5, 7}, {0, 0}, {5, 0}}},
	'0': {
		{{1, 0}, {0, 1}, {0, 6}, {1, 7}, {4, 7}, {5, 6}, {5, 1}, {4, 0}, {1, 0}},
		{{1, 1}, {4, 6}},
	},
	'1': {
		{{1, 5}, {2.5, 7}, {2.5, 0}},
		{{1, 0}, {4, 0}},
	},
	'2': {{{0, 6}, {1, 7}, {4, 7}, {5, 6}, {5, 4.5}, {0, 0}, {5, 0}}},
	'3': {
		{{0, 6}, {1, 7}, {4, 7}, {5, 6}, {5, 4.5}, {4, 3.5}, {2, 3.5}},
		{{4, 3.5}, {5, 2.5}, {5, 1}, {4, 0}, {1, 0}, {0, 1}},
	},
	'4': {{{4, 0}, {4, 7}, {0, 2.5}, {5, 2.5}}},
	'5': {{{5, 7}, {0, 7}, {0, 4}, {4, 4}, {5, 3}, {5, 1}, {4, 0}, {1, 0}, {0, 1}}},
	'6': {{{4, 7}, {1, 7}, {0, 6}, {0, 1}, {1, 0}, {4, 0}, {5, 1}, {5, 3}, {4, 4}, {0, 4}}},
	'7': {{{0, 7}, {5, 7}, {2, 0}}},
	'8': {
		{{1, 3.5}, {0, 4.5}, {0, 6}, {1, 7}, {4, 7}, {5, 6}, {5, 4.5}, {4, 3.5}, {1, 3.5}},
		{{1, 3.5}, {0, 2.5}, {0, 1}, {1, 0}, {4, 0}, {5, 1}, {5, 2.5}, {4, 3.5}},
	},
	'9': {{{1, 0}, {4, 0}, {5, 1}, {5, 6}, {4, 7}, {1, 7}, {0, 6}, {0, 4}, {1, 3}, {5, 3}}},
	'.': {{{2, 0}, {3, 0}, {3, 1}, {2, 1}, {2, 0}}},
	',': {{{2.5, 1}, {2.5, 0}, {1.5, -1}}},
	'-': {{{1, 3.5}, {4, 3.5}}},
	'/': {{{0, 0}, {5, 7}}},
	':': {
		{{2, 2}, {3, 2}, {3, 3}, {2, 3}, {2, 2}},
		{{2, 5}, {3, 5}, {3, 6}, {2, 6}, {2, 5}},
	},
	'°': {{{1.5, 6}, {1, 6.5}, {1, 7}, {1.5, 7.5}, {2.5, 7.5}, {3, 7}, {3, 6.5}, {2.5, 6}, {1.5, 6}}},
	' ': nil,
}

// unknownGlyph is drawn for characters without strokes of their own.
var unknownGlyph = [][]mgl32.Vec2{{{0, 0}, {5, 0}, {5, 7}, {0, 7}, {0, 0}}}

// glyph returns the strokes of r. Letters are drawn as capitals.
func glyph(r rune) [][]mgl32.Vec2 {
	if s, ok := glyphs[unicode.ToUpper(r)]; ok {
		return s
	}
	return unknownGlyph
}

// HasGlyph reports whether r is drawn with its own strokes rather than the
// placeholder box.
func HasGlyph(r rune) bool {
	_, ok := glyphs[unicode.ToUpper(r)]
	return ok
}
