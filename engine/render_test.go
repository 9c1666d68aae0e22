package engine

import (
	"strings"
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	b := game.MustParseBoard(
		"...",
		"xo.",
	)

	t.Run("plain", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, Render(&sb, b, nil))

		require.Equal(t, ""+
			"| 1 | 2 | 3 |\n"+
			"| . | . | . |\n"+
			"| x | o | . |\n"+
			"| 1 | 2 | 3 |\n\n", sb.String())
	})

	t.Run("highlighted", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, Render(&sb, b, []game.Coord{{Column: 1, Row: 0}}))

		require.Contains(t, sb.String(), "| x |[o]| . |\n")
	})
}
