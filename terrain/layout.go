package terrain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Layout glyphs, one rune per tile
var glyphs = [KindCount]rune{
	Normal:       '.',
	Rough:        ',',
	Water:        '~',
	Mud:          '%',
	Ice:          '=',
	Lava:         '^',
	Toxic:        '!',
	Steep:        '/',
	Narrow:       '|',
	Destructible: '#',
}

// Glyph returns the layout rune for k
func Glyph(k Kind) rune {
	if k >= KindCount {
		return '?'
	}
	return glyphs[k]
}

// KindOfGlyph is the inverse of Glyph, space reads as Normal
func KindOfGlyph(r rune) (Kind, bool) {
	if r == ' ' {
		return Normal, true
	}
	for i, g := range glyphs {
		if g == r {
			return Kind(i), true
		}
	}
	return Normal, false
}

// ParseLayout builds a grid from text rows
// Width is the longest row, shorter rows are padded with Normal
func ParseLayout(lines []string, tileSize float64) (*Grid, error) {
	// Trailing blank rows are dropped
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	width := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
	}

	g, err := NewGrid(width, len(lines), tileSize)
	if err != nil {
		return nil, err
	}

	for ty, line := range lines {
		tx := 0
		for _, r := range line {
			k, ok := KindOfGlyph(r)
			if !ok {
				return nil, fmt.Errorf("%w: unknown glyph %q at line %d col %d", ErrInvalidGrid, r, ty+1, tx+1)
			}
			g.Set(tx, ty, k)
			tx++
		}
	}
	return g, nil
}

// ParseLayoutString splits s on newlines and parses it
func ParseLayoutString(s string, tileSize float64) (*Grid, error) {
	s = strings.TrimLeft(s, "\n")
	return ParseLayout(strings.Split(s, "\n"), tileSize)
}

// Layout renders the grid back to text rows
func (g *Grid) Layout() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for ty := 0; ty < g.height; ty++ {
		sb.Reset()
		for tx := 0; tx < g.width; tx++ {
			sb.WriteRune(Glyph(g.At(tx, ty)))
		}
		rows[ty] = sb.String()
	}
	return rows
}
