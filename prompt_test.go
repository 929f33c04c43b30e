package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLine_SharedReaderKeepsTypedAhead(t *testing.T) {
	restore := stdin
	t.Cleanup(func() { stdin = restore })

	// Both lines arrive at once, as when the user types ahead of the
	// re-prompting choice loop; the second must not be lost.
	stdin = bufio.NewReader(strings.NewReader("99\n1\r\n"))

	first, err := promptLine("Which entry? ")
	require.NoError(t, err)
	assert.Equal(t, "99", first)

	second, err := promptLine("Which entry? ")
	require.NoError(t, err)
	assert.Equal(t, "1", second)
}

func TestPromptLine_EOF(t *testing.T) {
	restore := stdin
	t.Cleanup(func() { stdin = restore })

	stdin = bufio.NewReader(strings.NewReader(""))

	_, err := promptLine("Which entry? ")
	require.Error(t, err)
}
