package config

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWords_CreatesDefaultFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	path, added, err := AddWords(fs, "/project", []string{"gopher", "goroutine"})
	require.NoError(t, err)

	assert.Equal(t, DefaultSettingsPath("/project"), path)
	assert.Equal(t, []string{"gopher", "goroutine"}, added)

	got, err := NewReader(fs).ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gopher", "goroutine"}, got.Words)
	require.NotNil(t, got.Version)
	assert.Equal(t, "0.2", *got.Version)
}

func TestAddWords_UsesHighestPriorityExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/.vscode/cSpell.json", `{
		// keep me
		"words": ["existing"],
		"minWordLength": 5
	}`)
	writeFile(t, fs, "/project/cspell.json", `{"words": ["other"]}`)

	path, added, err := AddWords(fs, "/project", []string{"existing", "fresh", "fresh"})
	require.NoError(t, err)

	assert.Equal(t, Locate("/project")[1], path)
	assert.Equal(t, []string{"fresh"}, added)

	got, err := NewReader(fs).ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"existing", "fresh"}, got.Words)
	assert.Equal(t, 5, *got.MinWordLength)
}

func TestAddWords_NothingToAdd(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/cspell.json", `{"words": ["known"]}`)

	_, added, err := AddWords(fs, "/project", []string{"known", ""})
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestAddWords_InvalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/cspell.json", `{"words": [`)

	_, _, err := AddWords(fs, "/project", []string{"x"})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
