package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 2, FindIndex([]int{4, 5, 6}, 6))
	require.Equal(t, -1, FindIndex([]int{4, 5, 6}, 7))
	require.True(t, Contains([]string{"a", "b"}, "b"))
	require.False(t, Contains([]string{}, "a"))
}

func TestFilter(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })

	require.Equal(t, []int{2, 4}, even)
	require.Empty(t, Filter([]int{1, 3}, func(v int) bool { return v%2 == 0 }))
}
