package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRowsWritesHeaderOnce(t *testing.T) {
	h := NewCSVHandler(t.TempDir())
	columns := []string{"BId", "BTitle", "RScore"}

	path, err := h.AppendRows("nested/reviews.csv", [][]string{{"B1", "Dune, Part 1", "5"}}, columns)
	require.NoError(t, err)
	_, err = h.AppendRows("nested/reviews.csv", [][]string{{"B2", "Emma"}}, columns)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BId,BTitle,RScore\nB1,\"Dune, Part 1\",5\nB2,Emma\n", string(data))

	require.NoError(t, h.DeleteFile("nested/reviews.csv"))
	require.NoError(t, h.DeleteFile("nested/reviews.csv"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
