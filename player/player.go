package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/utils"
)

const prompt = "→ "

var ErrQuit = errors.New("player quit")

// Human reads the player's moves from a terminal. Columns are entered 1-based.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// FindMove prompts until the player enters an open column, or returns ErrQuit
// on "quit" or end of input.
func (h *Human) FindMove(board *game.Board) (int, metrics.SearchMetric, error) {
	for {
		line, err := h.Ask(prompt)
		if err != nil {
			return -1, metrics.SearchMetric{}, err
		}
		if line == "quit" || line == "q" {
			return -1, metrics.SearchMetric{}, ErrQuit
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(h.out, "Invalid column number. Please enter a valid column.")
			continue
		}
		column := n - 1
		if column < 0 || column >= board.Width() {
			fmt.Fprintln(h.out, "Invalid column number. Please select a column on the board.")
			continue
		}
		if !utils.Contains(board.OpenColumns(), column) {
			fmt.Fprintln(h.out, "Column is full. Please select another column.")
			continue
		}
		return column, metrics.SearchMetric{}, nil
	}
}

// Ask prints question and returns the next trimmed input line.
func (h *Human) Ask(question string) (string, error) {
	fmt.Fprint(h.out, question)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", err
		}
		return "", ErrQuit
	}
	return strings.TrimSpace(h.in.Text()), nil
}
