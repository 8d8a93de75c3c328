package sim

import "github.com/vovakirdan/trapcrawl/internal/core"

// Map glyphs.
const (
	WallGlyph  = '#'
	FloorGlyph = '.'
)

// Tile is one immutable cell of the map.
type Tile struct {
	Pos    core.Point
	Glyph  rune
	Blocks bool
}

// Map is a fixed rectangular grid with exactly one tile per cell.
type Map struct {
	width  int
	height int
	tiles  []Tile // Row-major: index = y*width + x
}

// Generate builds a width x height map whose outer ring is wall and whose
// interior is open floor.
func Generate(width, height int) *Map {
	m := &Map{
		width:  width,
		height: height,
		tiles:  make([]Tile, 0, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tile := Tile{Pos: core.Pt(x, y), Glyph: FloorGlyph}
			if x == 0 || x == width-1 || y == 0 || y == height-1 {
				tile.Glyph = WallGlyph
				tile.Blocks = true
			}
			m.tiles = append(m.tiles, tile)
		}
	}
	return m
}

// Width returns the number of columns.
func (m *Map) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Map) Height() int {
	return m.height
}

// InBounds reports whether p is a cell of the map.
func (m *Map) InBounds(p core.Point) bool {
	return core.NewRect(0, 0, m.width, m.height).Contains(p.X, p.Y)
}

// Tile returns the tile at p.
func (m *Map) Tile(p core.Point) (Tile, bool) {
	if !m.InBounds(p) {
		return Tile{}, false
	}
	return m.tiles[p.Y*m.width+p.X], true
}

// IsBlocked reports whether p cannot be entered.
// Cells outside the grid count as blocked.
func (m *Map) IsBlocked(p core.Point) bool {
	tile, ok := m.Tile(p)
	if !ok {
		return true
	}
	return tile.Blocks
}

// Tiles returns a copy of all tiles in row-major order.
func (m *Map) Tiles() []Tile {
	out := make([]Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}
