package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/npc-locomotion/parameter"
)

var ErrInvalidGrid = errors.New("invalid terrain grid")

// Source is what a level loader hands over when a room is built
type Source interface {
	Dimensions() (width, height int)
	TileSize() float64
	KindAt(tx, ty int) Kind
}

// Grid is a row-major terrain store
// Built once per level and read-only while movers tick
type Grid struct {
	width    int
	height   int
	tileSize float64
	tiles    []Kind
}

func NewGrid(width, height int, tileSize float64) (*Grid, error) {
	if width <= 0 || height <= 0 || width > parameter.TerrainMaxGridDimension || height > parameter.TerrainMaxGridDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, width, height)
	}
	if !(tileSize > 0) || math.IsInf(tileSize, 0) {
		return nil, fmt.Errorf("%w: tile size %v", ErrInvalidGrid, tileSize)
	}
	return &Grid{
		width:    width,
		height:   height,
		tileSize: tileSize,
		tiles:    make([]Kind, width*height),
	}, nil
}

// FromSource copies a Source into a new grid, undefined kinds are stored as Normal
func FromSource(src Source) (*Grid, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidGrid)
	}
	w, h := src.Dimensions()
	g, err := NewGrid(w, h, src.TileSize())
	if err != nil {
		return nil, err
	}
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			g.Set(tx, ty, src.KindAt(tx, ty))
		}
	}
	return g, nil
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Height() int       { return g.height }
func (g *Grid) TileSize() float64 { return g.tileSize }

// Dimensions and KindAt let a Grid act as its own Source
func (g *Grid) Dimensions() (int, int) { return g.width, g.height }
func (g *Grid) KindAt(tx, ty int) Kind { return g.At(tx, ty) }

// Set writes a tile, out of bounds writes are ignored
func (g *Grid) Set(tx, ty int, k Kind) {
	if !g.InBounds(tx, ty) {
		return
	}
	if k >= KindCount {
		k = Normal
	}
	g.tiles[ty*g.width+tx] = k
}

func (g *Grid) InBounds(tx, ty int) bool {
	return tx >= 0 && ty >= 0 && tx < g.width && ty < g.height
}

// At returns the tile kind, Normal outside the grid
func (g *Grid) At(tx, ty int) Kind {
	if !g.InBounds(tx, ty) {
		return Normal
	}
	return g.tiles[ty*g.width+tx]
}

// TileOf converts a world position to tile coordinates
// ok is false for non-finite input
func (g *Grid) TileOf(x, y float64) (tx, ty int, ok bool) {
	fx := math.Floor(x / g.tileSize)
	fy := math.Floor(y / g.tileSize)
	if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
		return 0, 0, false
	}
	// Clamp far-away positions before int conversion
	lim := float64(parameter.TerrainMaxGridDimension + 1)
	fx = math.Max(-lim, math.Min(lim, fx))
	fy = math.Max(-lim, math.Min(lim, fy))
	return int(fx), int(fy), true
}

// Sample returns the kind under a world position, Normal when outside or invalid
func (g *Grid) Sample(x, y float64) Kind {
	tx, ty, ok := g.TileOf(x, y)
	if !ok {
		return Normal
	}
	return g.At(tx, ty)
}

// Count returns the number of tiles of kind k
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, t := range g.tiles {
		if t == k {
			n++
		}
	}
	return n
}
