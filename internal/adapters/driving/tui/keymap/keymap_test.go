package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
	assert.Contains(t, km.Submit.Keys(), "ctrl+s")
	assert.Contains(t, km.Back.Keys(), "esc")
	assert.Contains(t, km.NewIdea.Keys(), "n")
}

func TestDefaultKeyMap_EditorKeysAreNotPrintable(t *testing.T) {
	km := DefaultKeyMap()

	for _, b := range km.EditorHelp() {
		for _, k := range b.Keys() {
			assert.Greater(t, len(k), 1, "editor binding %q would swallow typed text", k)
		}
	}
}

func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.EditorHelp(), 3)
	assert.Len(t, km.ReportHelp(), 4)
	assert.Len(t, km.FullHelp(), 3)
}

func TestMatches(t *testing.T) {
	binding := key.NewBinding(key.WithKeys("a", "b"))

	assert.True(t, Matches("a", binding))
	assert.True(t, Matches("b", binding))
	assert.False(t, Matches("c", binding))
	assert.False(t, Matches("", binding))
}
