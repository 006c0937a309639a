package tictactoe

import "github.com/rocketscienceinc/tictactoe-series/internal/entity"

// Board is a fixed N×N grid of cells.
type Board struct {
	size  int
	cells [][]Cell
}

func NewBoard(size int) *Board {
	board := &Board{size: size}
	board.Initialize()

	return board
}

// Initialize allocates a fresh grid. Safe to call repeatedly to reset.
func (that *Board) Initialize() {
	that.cells = make([][]Cell, that.size)
	for row := range that.cells {
		that.cells[row] = make([]Cell, that.size)
	}
}

func (that *Board) Size() int {
	return that.size
}

// Place writes the marker if the cell is empty. Coordinates must be in bounds.
func (that *Board) Place(row, col int, marker entity.Marker) bool {
	cell := &that.cells[row][col]
	if !cell.IsEmpty() {
		return false
	}

	cell.SetValue(marker)

	return true
}

func (that *Board) At(row, col int) entity.Marker {
	return that.cells[row][col].Value()
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// Values returns the markers in row-major order.
func (that *Board) Values() []entity.Marker {
	values := make([]entity.Marker, 0, that.size*that.size)
	for _, row := range that.cells {
		for _, cell := range row {
			values = append(values, cell.Value())
		}
	}

	return values
}

// EmptyPositions lists unoccupied cells in row-major order.
func (that *Board) EmptyPositions() []entity.Position {
	positions := make([]entity.Position, 0, that.size*that.size)
	for r, row := range that.cells {
		for c, cell := range row {
			if cell.IsEmpty() {
				positions = append(positions, entity.Position{Row: r, Col: c})
			}
		}
	}

	return positions
}

func (that *Board) IsFull() bool {
	for _, row := range that.cells {
		for _, cell := range row {
			if cell.IsEmpty() {
				return false
			}
		}
	}

	return true
}
