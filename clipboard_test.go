package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipboardCopy_NoProgramConfigured(t *testing.T) {
	copied, err := clipboardCopy("secret", "")
	require.NoError(t, err)
	assert.False(t, copied)
}

func TestClipboardCopy_ProgramNotInstalled(t *testing.T) {
	// A missing program is a fallback, not an error.
	copied, err := clipboardCopy("secret", "definitely-not-a-real-clipboard-tool")
	require.NoError(t, err)
	assert.False(t, copied)
}

func TestClipboardCopy_ProgramSucceeds(t *testing.T) {
	copied, err := clipboardCopy("secret", "true")
	require.NoError(t, err)
	assert.True(t, copied)
}

func TestClipboardCopy_ProgramFails(t *testing.T) {
	copied, err := clipboardCopy("secret", "false")
	require.Error(t, err)
	assert.False(t, copied)
}
