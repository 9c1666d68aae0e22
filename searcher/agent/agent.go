package agent

import (
	"connect4/game"
)

// MoveRequest asks for the AI's column. Board rows are listed top to bottom
// in the glyphs of game.ParseBoard. Depth defaults to the server's setting.
type MoveRequest struct {
	Board []string `json:"board"`
	Depth *int     `json:"depth,omitempty"`
}

type MoveResponse struct {
	Column    int  `json:"column"`
	Score     int  `json:"score"`
	HasColumn bool `json:"has_column"`
	Nodes     int  `json:"nodes"`
}

type Agent interface {
	// FindMove searches board depth plies deep and returns the AI's column
	FindMove(board *game.Board, depth int) (MoveResponse, error)
}
