package engine

import (
	"fmt"
	"io"
	"strings"

	"connect4/game"
)

// Render draws board as a plain-text grid, top row first, with 1-based column
// numbers above and below. Cells in highlight are bracketed.
func Render(w io.Writer, board *game.Board, highlight []game.Coord) error {
	marked := make(map[game.Coord]bool, len(highlight))
	for _, c := range highlight {
		marked[c] = true
	}

	var sb strings.Builder
	header := columnHeader(board.Width())
	sb.WriteString(header)
	for row := board.Height() - 1; row >= 0; row-- {
		sb.WriteByte('|')
		for column := 0; column < board.Width(); column++ {
			g := glyph(board.At(column, row))
			if marked[game.Coord{Column: column, Row: row}] {
				fmt.Fprintf(&sb, "[%c]|", g)
			} else {
				fmt.Fprintf(&sb, " %c |", g)
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(header)
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

func columnHeader(width int) string {
	var sb strings.Builder
	sb.WriteByte('|')
	for column := 1; column <= width; column++ {
		fmt.Fprintf(&sb, "%2d |", column)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func glyph(p game.Piece) byte {
	switch p {
	case game.Player:
		return game.PlayerGlyph
	case game.Ai:
		return game.AiGlyph
	default:
		return game.EmptyGlyph
	}
}
