package game

import "errors"

// Piece is the content of a single cell.
type Piece uint8

const (
	Empty Piece = iota
	Player
	Ai
)

func (p Piece) String() string {
	switch p {
	case Empty:
		return "empty"
	case Player:
		return "player"
	case Ai:
		return "ai"
	default:
		return "unknown"
	}
}

// Opponent returns the other side. Empty has no opponent.
func (p Piece) Opponent() Piece {
	switch p {
	case Player:
		return Ai
	case Ai:
		return Player
	default:
		return Empty
	}
}

// Coord addresses a cell. Row 0 is the bottom row.
type Coord struct {
	Column int
	Row    int
}

const (
	DefaultWidth  = 7
	DefaultHeight = 6
	ConnectLength = 4
)

var (
	ErrInvalidSize   = errors.New("board dimensions must be positive")
	ErrOutOfRange    = errors.New("coordinate out of range")
	ErrColumnFull    = errors.New("column is full")
	ErrInvalidPiece  = errors.New("cannot drop an empty piece")
	ErrPrecondition  = errors.New("cell does not hold the queried piece")
	ErrInvalidGlyph  = errors.New("unknown board glyph")
	ErrFloatingPiece = errors.New("piece has an empty cell below it")
)

// axes are the four line directions. Each pair holds two opposite unit
// vectors (dColumn, dRow) that are walked independently and summed.
var axes = [4][2][2]int{
	{{1, 0}, {-1, 0}},  // Horizontal
	{{0, 1}, {0, -1}},  // Vertical
	{{1, 1}, {-1, -1}}, // Diagonal /
	{{1, -1}, {-1, 1}}, // Diagonal \
}
