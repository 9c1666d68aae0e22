package gamemaster

import (
	"errors"
	"fmt"

	"connect4/game"
	"connect4/meta"

	"github.com/google/uuid"
)

var ErrGameOver = errors.New("game is over - no moves allowed")

type Status int

const (
	InProgress Status = iota
	Won
	Tie
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Tie:
		return "tie"
	default:
		return "in progress"
	}
}

type Move struct {
	Piece  game.Piece
	Column int
	Row    int
}

// UpdateGetter returns the next played move and the board after it, or
// ok=false when there is no pending update.
type UpdateGetter func() (move Move, board *game.Board, ok bool)

type update struct {
	move  Move
	board *game.Board
}

// Match referees a single game: it validates moves, alternates turns and
// detects the result.
type Match struct {
	ID       string
	board    *game.Board
	turn     game.Piece
	first    game.Piece
	status   Status
	winner   game.Piece
	winCells []game.Coord
	moves    []Move
	updateCh chan update
}

func NewMatch(cfg meta.Config, first game.Piece) (*Match, error) {
	if first != game.Player && first != game.Ai {
		return nil, fmt.Errorf("%w: %s cannot move first", game.ErrInvalidPiece, first)
	}
	board, err := game.NewBoard(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	return &Match{
		ID:    uuid.NewString(),
		board: board,
		turn:  first,
		first: first,
		// One slot per cell, so Play never blocks on an unread update
		updateCh: make(chan update, cfg.Width*cfg.Height),
	}, nil
}

// Play drops the current side's piece into column and returns the row it
// landed in. The turn only passes on success.
func (m *Match) Play(column int) (int, error) {
	if m.status != InProgress {
		return -1, ErrGameOver
	}

	piece := m.turn
	row, err := m.board.Drop(column, piece)
	if err != nil {
		return -1, err
	}
	move := Move{Piece: piece, Column: column, Row: row}
	m.moves = append(m.moves, move)

	cells, won, err := m.board.CheckConnect(column, row, piece)
	if err != nil {
		return -1, err
	}
	switch {
	case won:
		m.status = Won
		m.winner = piece
		m.winCells = cells
	case m.board.IsFull():
		m.status = Tie
	default:
		m.turn = piece.Opponent()
	}

	m.updateCh <- update{move: move, board: m.board.Clone()}
	if m.status != InProgress {
		close(m.updateCh)
	}
	return row, nil
}

// Updates drains played moves in order without blocking.
func (m *Match) Updates() UpdateGetter {
	return func() (Move, *game.Board, bool) {
		select {
		case u, ok := <-m.updateCh:
			if !ok { // Game over and drained
				return Move{}, nil, false
			}
			return u.move, u.board, true
		default:
			return Move{}, nil, false
		}
	}
}

// Board returns a copy of the current board.
func (m *Match) Board() *game.Board {
	return m.board.Clone()
}

func (m *Match) Status() Status {
	return m.status
}

func (m *Match) Turn() game.Piece {
	return m.turn
}

func (m *Match) First() game.Piece {
	return m.first
}

// Winner is Empty until the game is won.
func (m *Match) Winner() game.Piece {
	return m.winner
}

func (m *Match) WinningCells() []game.Coord {
	return append([]game.Coord(nil), m.winCells...)
}

func (m *Match) Moves() []Move {
	return append([]Move(nil), m.moves...)
}
