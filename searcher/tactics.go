package searcher

import (
	"connect4/game"
	"connect4/utils"
)

// canWinNext reports whether dropping piece into column wins immediately.
func canWinNext(b *game.Board, column int, piece game.Piece) bool {
	child := b.Clone()
	row, err := child.Drop(column, piece)
	if err != nil {
		return false
	}
	_, won, err := child.CheckConnect(column, row, piece)
	return err == nil && won
}

// shortCircuit scans open columns in ascending order. The first column where
// the AI wins at once, or else where the player would win at once, decides
// the node.
func shortCircuit(b *game.Board, open []int) (Result, bool) {
	for _, column := range open {
		if canWinNext(b, column, game.Ai) {
			return chose(column, WinScore), true
		} else if canWinNext(b, column, game.Player) {
			return chose(column, LossScore), true
		}
	}
	return Result{}, false
}

// safeColumns drops columns where an AI move would open the cell above it to
// a winning move by either side. It never returns an empty set while open
// is non-empty.
func safeColumns(b *game.Board, open []int) []int {
	safe := utils.Filter(open, func(column int) bool {
		child := b.Clone()
		row, err := child.Drop(column, game.Ai)
		if err != nil {
			return false
		}
		if row == b.Height()-1 { // Column is now full, nothing above to reveal
			return true
		}
		return !canWinNext(child, column, game.Player) && !canWinNext(child, column, game.Ai)
	})

	if len(safe) == 0 {
		return open
	}
	return safe
}
