package game

import (
	"fmt"
	"strings"
)

const (
	EmptyGlyph  = '.'
	PlayerGlyph = 'x'
	AiGlyph     = 'o'
)

func glyph(p Piece) byte {
	switch p {
	case Player:
		return PlayerGlyph
	case Ai:
		return AiGlyph
	default:
		return EmptyGlyph
	}
}

// ParseBoard builds a board from text rows listed top to bottom, e.g.
//
//	.......
//	.......
//	.......
//	.......
//	...o...
//	..xox..
//
// '.' is empty, 'x' is the player and 'o' is the AI.
func ParseBoard(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSize)
	}
	height := len(rows)
	width := len(strings.TrimSpace(rows[0]))
	b, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}

	for i, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSize, i, len(line), width)
		}
		row := height - 1 - i
		for column := 0; column < width; column++ {
			var p Piece
			switch line[column] {
			case EmptyGlyph:
				p = Empty
			case PlayerGlyph:
				p = Player
			case AiGlyph:
				p = Ai
			default:
				return nil, fmt.Errorf("%w: %q at row %d column %d", ErrInvalidGlyph, line[column], i, column)
			}
			b.cells[b.index(column, row)] = p
		}
	}

	for column := 0; column < width; column++ {
		for row := 1; row < height; row++ {
			if b.At(column, row) != Empty && b.At(column, row-1) == Empty {
				return nil, fmt.Errorf("%w: column %d row %d", ErrFloatingPiece, column, row)
			}
		}
	}
	return b, nil
}

// MustParseBoard is ParseBoard for fixed positions known to be valid.
func MustParseBoard(rows ...string) *Board {
	b, err := ParseBoard(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// Rows is the inverse of ParseBoard.
func (b *Board) Rows() []string {
	rows := make([]string, 0, b.height)
	line := make([]byte, b.width)
	for row := b.height - 1; row >= 0; row-- {
		for column := 0; column < b.width; column++ {
			line[column] = glyph(b.At(column, row))
		}
		rows = append(rows, string(line))
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}
