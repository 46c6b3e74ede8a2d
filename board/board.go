// Package board is the 13x13 cell arena. Cells own the tiles placed on
// them; moving a tile between cells transfers the same *tile.Tile.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/qxword/tile"
)

// DefaultDim is the width and height of the board.
const DefaultDim = 13

// Center is the cell the opening tile must be placed on.
var Center = Coord{Row: 6, Col: 6}

var (
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrEmptyCell        = errors.New("cell holds no tile")
	ErrOffBoard         = errors.New("coordinate is off the board")
)

type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Cell is a single square. Tile is nil when the cell is empty.
type Cell struct {
	Row  int
	Col  int
	Zone Zone
	Tile *tile.Tile
}

func (c *Cell) Coord() Coord {
	return Coord{Row: c.Row, Col: c.Col}
}

func (c *Cell) IsEmpty() bool {
	return c.Tile == nil
}

// Letter returns the collapsed letter held by the cell, if any.
func (c *Cell) Letter() (rune, bool) {
	if c.Tile == nil {
		return 0, false
	}
	return c.Tile.Letter()
}

func (c *Cell) displayString() string {
	if c.Tile == nil {
		return c.Zone.displayString()
	}
	if l, ok := c.Tile.Letter(); ok {
		return string(l)
	}
	return "?"
}

// Query is the read-only grid view the rules engine consumes.
type Query interface {
	Cell(row, col int) (*Cell, bool)
	Adjacent(row, col int) []*Cell
	PortalPartner(row, col int) (*Cell, bool)
	HasAdjacentTile(row, col int) bool
}

type Board struct {
	cells   [][]*Cell
	portals map[Coord]Coord
	tiles   int
}

// NewBoard creates an empty DefaultDim board with the given zone layout.
func NewBoard(layout Layout) *Board {
	b := &Board{}
	b.cells = make([][]*Cell, DefaultDim)
	for r := range b.cells {
		b.cells[r] = make([]*Cell, DefaultDim)
		for c := range b.cells[r] {
			b.cells[r][c] = &Cell{Row: r, Col: c}
		}
	}
	b.ApplyLayout(layout)
	return b
}

// ApplyLayout replaces every zone and portal pair. Tiles stay where they are.
func (b *Board) ApplyLayout(layout Layout) {
	for _, row := range b.cells {
		for _, c := range row {
			c.Zone = Plain
		}
	}
	for coord, z := range layout.Zones {
		if c, ok := b.Cell(coord.Row, coord.Col); ok {
			c.Zone = z
		}
	}
	b.portals = make(map[Coord]Coord, 2*len(layout.Portals))
	for _, p := range layout.Portals {
		b.portals[p[0]] = p[1]
		b.portals[p[1]] = p[0]
	}
}

// Dim is the dimension of the board. It assumes the board is square.
func (b *Board) Dim() int {
	return len(b.cells)
}

func (b *Board) posExists(row, col int) bool {
	return row >= 0 && row < b.Dim() && col >= 0 && col < b.Dim()
}

func (b *Board) Cell(row, col int) (*Cell, bool) {
	if !b.posExists(row, col) {
		return nil, false
	}
	return b.cells[row][col], true
}

// At is Cell for callers that have already checked the coordinate.
func (b *Board) At(c Coord) *Cell {
	return b.cells[c.Row][c.Col]
}

var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Adjacent returns the orthogonal neighbours that exist, in the order up,
// down, left, right.
func (b *Board) Adjacent(row, col int) []*Cell {
	adj := make([]*Cell, 0, 4)
	for _, o := range neighborOffsets {
		if c, ok := b.Cell(row+o[0], col+o[1]); ok {
			adj = append(adj, c)
		}
	}
	return adj
}

func (b *Board) HasAdjacentTile(row, col int) bool {
	for _, c := range b.Adjacent(row, col) {
		if c.Tile != nil {
			return true
		}
	}
	return false
}

func (b *Board) PortalPartner(row, col int) (*Cell, bool) {
	p, ok := b.portals[Coord{Row: row, Col: col}]
	if !ok {
		return nil, false
	}
	return b.Cell(p.Row, p.Col)
}

// LetterAt returns the collapsed letter at a coordinate. Off-board, empty and
// uncollapsed cells have no letter.
func (b *Board) LetterAt(row, col int) (rune, bool) {
	c, ok := b.Cell(row, col)
	if !ok {
		return 0, false
	}
	return c.Letter()
}

// IsEmpty returns if the board is empty.
func (b *Board) IsEmpty() bool {
	return b.tiles == 0
}

func (b *Board) NumTiles() int {
	return b.tiles
}

// ValidatePlacement reports ErrInvalidPlacement if a tile cannot go at
// (row, col): off the board, occupied, anywhere but the centre on an empty
// board, or not adjacent to an existing tile otherwise.
func (b *Board) ValidatePlacement(row, col int) error {
	c, ok := b.Cell(row, col)
	if !ok {
		return fmt.Errorf("%w: %d,%d is off the board", ErrInvalidPlacement, row, col)
	}
	if c.Tile != nil {
		return fmt.Errorf("%w: %d,%d is occupied", ErrInvalidPlacement, row, col)
	}
	if b.IsEmpty() {
		if c.Coord() != Center {
			return fmt.Errorf("%w: the first tile must go on the centre %v",
				ErrInvalidPlacement, Center)
		}
		return nil
	}
	if !b.HasAdjacentTile(row, col) {
		return fmt.Errorf("%w: %d,%d is not next to a tile", ErrInvalidPlacement, row, col)
	}
	return nil
}

// Place puts t on an empty cell. It does not check adjacency; see
// ValidatePlacement.
func (b *Board) Place(c Coord, t *tile.Tile) error {
	cell, ok := b.Cell(c.Row, c.Col)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffBoard, c)
	}
	if cell.Tile != nil {
		return fmt.Errorf("%w: %v is occupied", ErrInvalidPlacement, c)
	}
	cell.Tile = t
	b.tiles++
	return nil
}

// Remove detaches and returns the tile at c.
func (b *Board) Remove(c Coord) (*tile.Tile, error) {
	cell, ok := b.Cell(c.Row, c.Col)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrOffBoard, c)
	}
	if cell.Tile == nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyCell, c)
	}
	t := cell.Tile
	cell.Tile = nil
	b.tiles--
	return t, nil
}

// Move transfers the tile at from to the empty cell to.
func (b *Board) Move(from, to Coord) error {
	dst, ok := b.Cell(to.Row, to.Col)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffBoard, to)
	}
	if dst.Tile != nil {
		return fmt.Errorf("%w: %v is occupied", ErrInvalidPlacement, to)
	}
	t, err := b.Remove(from)
	if err != nil {
		return err
	}
	dst.Tile = t
	b.tiles++
	return nil
}

// Swap exchanges the tiles of two occupied cells.
func (b *Board) Swap(x, y Coord) error {
	cx, ok := b.Cell(x.Row, x.Col)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffBoard, x)
	}
	cy, ok := b.Cell(y.Row, y.Col)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffBoard, y)
	}
	if cx.Tile == nil || cy.Tile == nil {
		return fmt.Errorf("%w: both %v and %v must hold tiles", ErrEmptyCell, x, y)
	}
	cx.Tile, cy.Tile = cy.Tile, cx.Tile
	return nil
}

// Find returns the cell holding the tile with the given id.
func (b *Board) Find(id tile.ID) (*Cell, bool) {
	for _, row := range b.cells {
		for _, c := range row {
			if c.Tile != nil && c.Tile.ID == id {
				return c, true
			}
		}
	}
	return nil, false
}

// Occupied returns every cell holding a tile, in row-major order.
func (b *Board) Occupied() []*Cell {
	cells := make([]*Cell, 0, b.tiles)
	for _, row := range b.cells {
		for _, c := range row {
			if c.Tile != nil {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// NewlyPlaced returns the cells whose tiles were placed this turn.
func (b *Board) NewlyPlaced() []*Cell {
	cells := []*Cell{}
	for _, c := range b.Occupied() {
		if c.Tile.PlacedThisTurn {
			cells = append(cells, c)
		}
	}
	return cells
}

func (b *Board) ClearTurnMarkers() {
	for _, c := range b.Occupied() {
		c.Tile.PlacedThisTurn = false
	}
}

// Clear removes every tile. Zones are kept.
func (b *Board) Clear() {
	for _, row := range b.cells {
		for _, c := range row {
			c.Tile = nil
		}
	}
	b.tiles = 0
}

func (b *Board) String() string {
	var sb strings.Builder
	n := b.Dim()
	sb.WriteString("\n   ")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%c ", 'A'+i)
	}
	sb.WriteString("\n   " + strings.Repeat("-", n*2) + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%2d|", i+1)
		for j := 0; j < n; j++ {
			sb.WriteString(b.cells[i][j].displayString() + " ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", n*2) + "\n")
	return sb.String()
}
