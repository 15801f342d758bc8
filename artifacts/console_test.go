package artifacts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/e2esuite/artifacts"
)

func TestConsoleRecorder(t *testing.T) {
	c := artifacts.NewConsoleRecorder(2)

	c.Add("log", "first")
	assert.False(t, c.HasErrors())

	c.Add("error", "second")
	c.Add("warning", "third")

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Text)
	assert.Equal(t, "third", entries[1].Text)
	assert.True(t, c.HasErrors())

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "... 1 earlier entries dropped", lines[0])
	assert.Contains(t, lines[1], "[error] second")
	assert.Contains(t, lines[2], "[warning] third")
}

func TestConsoleRecorder_PageErrors(t *testing.T) {
	c := artifacts.NewConsoleRecorder(artifacts.DefaultConsoleCapacity)
	c.Add("pageerror", "ReferenceError: x is not defined")

	assert.True(t, c.HasErrors())
	assert.Len(t, c.Lines(), 1)
}
