package game

import "fmt"

// Board is a width x height Connect-4 grid. Cells are stored column-major in
// a flat slice so that Clone is a single allocation.
type Board struct {
	width  int
	height int
	cells  []Piece
}

// NewBoard returns an empty board.
func NewBoard(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Piece, width*height),
	}, nil
}

// NewDefaultBoard returns an empty 7x6 board.
func NewDefaultBoard() *Board {
	b, _ := NewBoard(DefaultWidth, DefaultHeight)
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) index(column, row int) int {
	return column*b.height + row
}

func (b *Board) inBounds(column, row int) bool {
	return column >= 0 && column < b.width && row >= 0 && row < b.height
}

// At returns the piece at (column, row), or Empty outside the board.
func (b *Board) At(column, row int) Piece {
	if !b.inBounds(column, row) {
		return Empty
	}
	return b.cells[b.index(column, row)]
}

// Drop places piece in the lowest empty row of column and returns that row.
// The board is left untouched on error.
func (b *Board) Drop(column int, piece Piece) (int, error) {
	if piece != Player && piece != Ai {
		return -1, ErrInvalidPiece
	}
	row, ok, err := b.lowestEmptyRow(column)
	if err != nil {
		return -1, err
	}
	if !ok {
		return -1, fmt.Errorf("%w: column %d", ErrColumnFull, column)
	}
	b.cells[b.index(column, row)] = piece
	return row, nil
}

// LowestEmptyRow returns the row a piece dropped in column would land in.
// ok is false when the column is full or out of range.
func (b *Board) LowestEmptyRow(column int) (row int, ok bool) {
	row, ok, err := b.lowestEmptyRow(column)
	if err != nil {
		return -1, false
	}
	return row, ok
}

func (b *Board) lowestEmptyRow(column int) (int, bool, error) {
	if column < 0 || column >= b.width {
		return -1, false, fmt.Errorf("%w: column %d", ErrOutOfRange, column)
	}
	for row := 0; row < b.height; row++ {
		if b.cells[b.index(column, row)] == Empty {
			return row, true, nil
		}
	}
	return -1, false, nil
}

// OpenColumns returns the columns that still have room, in ascending order.
func (b *Board) OpenColumns() []int {
	columns := make([]int, 0, b.width)
	for column := 0; column < b.width; column++ {
		if b.cells[b.index(column, b.height-1)] == Empty {
			columns = append(columns, column)
		}
	}
	return columns
}

// OpenRows returns the lowest empty row of every open column, in column order.
func (b *Board) OpenRows() []int {
	rows := make([]int, 0, b.width)
	for column := 0; column < b.width; column++ {
		if row, ok := b.LowestEmptyRow(column); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (b *Board) IsFull() bool {
	for column := 0; column < b.width; column++ {
		if b.cells[b.index(column, b.height-1)] == Empty {
			return false
		}
	}
	return true
}

// Count returns how many cells hold piece.
func (b *Board) Count(piece Piece) int {
	n := 0
	for _, p := range b.cells {
		if p == piece {
			n++
		}
	}
	return n
}

// CountInLine counts contiguous cells holding piece outward from
// (column, row) along both directions of axis. The origin is not counted and
// does not need to hold piece.
func (b *Board) CountInLine(column, row int, piece Piece, axis int) int {
	count := 0
	for _, dir := range axes[axis] {
		for step := 1; ; step++ {
			c, r := column+dir[0]*step, row+dir[1]*step
			if !b.inBounds(c, r) || b.cells[b.index(c, r)] != piece {
				break
			}
			count++
		}
	}
	return count
}

// NumAxes is the number of line directions checked by CheckConnect.
const NumAxes = len(axes)

// CheckConnect reports whether the piece at (column, row) is part of a run of
// at least ConnectLength along any axis. The winning run is returned with the
// origin first. The cell must already hold piece.
func (b *Board) CheckConnect(column, row int, piece Piece) ([]Coord, bool, error) {
	if !b.inBounds(column, row) {
		return nil, false, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, column, row)
	}
	if piece == Empty || b.cells[b.index(column, row)] != piece {
		return nil, false, fmt.Errorf("%w: (%d, %d) holds %s, want %s",
			ErrPrecondition, column, row, b.cells[b.index(column, row)], piece)
	}

	for _, axis := range axes {
		run := []Coord{{Column: column, Row: row}}
		for _, dir := range axis {
			for step := 1; ; step++ {
				c, r := column+dir[0]*step, row+dir[1]*step
				if !b.inBounds(c, r) || b.cells[b.index(c, r)] != piece {
					break
				}
				run = append(run, Coord{Column: c, Row: r})
			}
		}
		if len(run) >= ConnectLength {
			return run, true, nil
		}
	}
	return nil, false, nil
}

// Clone returns an independent deep copy.
func (b *Board) Clone() *Board {
	cells := make([]Piece, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		width:  b.width,
		height: b.height,
		cells:  cells,
	}
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Swapped returns a copy with Player and Ai pieces exchanged, so that a
// search written for Ai can play the Player side.
func (b *Board) Swapped() *Board {
	c := b.Clone()
	for i, p := range c.cells {
		if p != Empty {
			c.cells[i] = p.Opponent()
		}
	}
	return c
}
