package searcher

import "connect4/game"

// weights biases evaluation toward the centre of a 7x6 board, indexed
// [column][row]. Each column is symmetric top to bottom.
var weights = [game.DefaultWidth][game.DefaultHeight]int{
	{3, 4, 5, 5, 4, 3},
	{4, 6, 8, 8, 6, 4},
	{5, 8, 11, 11, 8, 5},
	{7, 10, 13, 13, 10, 7},
	{5, 8, 11, 11, 8, 5},
	{4, 6, 8, 8, 6, 4},
	{3, 4, 5, 5, 4, 3},
}

func supports(b *game.Board) bool {
	return b.Width() == len(weights) && b.Height() == len(weights[0])
}

// ScorePosition scores a leaf from the AI's point of view. Every open column
// is paired with every open row (not only its own), and each pair adds the
// AI's line potential, subtracts the player's and adds the cell weight.
func ScorePosition(b *game.Board) int {
	score := 0
	columns := b.OpenColumns()
	rows := b.OpenRows()

	for _, column := range columns {
		for _, row := range rows {
			score += evaluatePosition(b, column, row, game.Ai)
			score -= evaluatePosition(b, column, row, game.Player)
			score += weights[column][row]
		}
	}
	return score
}

// evaluatePosition rewards exactly two or exactly three neighbouring pieces
// along each axis through (column, row).
func evaluatePosition(b *game.Board, column, row int, piece game.Piece) int {
	score := 0
	for axis := 0; axis < game.NumAxes; axis++ {
		switch b.CountInLine(column, row, piece, axis) {
		case 3:
			score += ThreeScore
		case 2:
			score += TwoScore
		}
	}
	return score
}
