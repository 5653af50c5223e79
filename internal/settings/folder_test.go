package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werunom/vscode-spell-checker/internal/exclude"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

type failingConfig struct{ err error }

func (f failingConfig) Configuration(ctx context.Context, scopeURI string, sections []string) ([]json.RawMessage, error) {
	return nil, f.err
}

func TestResolveFolder(t *testing.T) {
	host := &fakeConfig{}
	host.set("file:///work", "cSpell", `{"minWordLength": 8, "ignorePaths": ["*.lock"]}`)
	host.set("file:///work", "search.exclude", `{"**/node_modules": true, "**/keep": false, "**/cond": {"when": "$(basename).ts"}}`)

	inherited := &types.Settings{
		MinWordLength: types.Ptr(4),
		IgnorePaths:   []string{"build/**", "debug:/**"},
	}
	folder := types.WorkspaceFolder{URI: "file:///work", Name: "work"}

	agg, err := ResolveFolder(context.Background(), folder, inherited, host, exclude.DefaultAllowedSchemes)
	require.NoError(t, err)

	assert.Equal(t, "file:///work", agg.URI)
	assert.Equal(t, "/work", agg.Root)
	assert.Equal(t, 8, *agg.Settings.MinWordLength)
	assert.Equal(t, []string{"build/**", "debug:/**", "*.lock"}, agg.Settings.IgnorePaths)

	wantGlobs := append(append([]string(nil), exclude.DefaultExcludes...), "build/**", "*.lock", "**/cond", "**/node_modules")
	assert.Equal(t, wantGlobs, agg.Globs)

	assert.True(t, agg.Excluded("file:///work/build/a.js"))
	assert.True(t, agg.Excluded("file:///work/sub/yarn.lock"))
	assert.True(t, agg.Excluded("file:///work/node_modules/x/index.js"))
	assert.False(t, agg.Excluded("file:///work/keep/a.txt"))
	assert.False(t, agg.Excluded("file:///work/src/main.go"))
	assert.True(t, agg.Excluded("output:log"))

	assert.Equal(t, 4, *inherited.MinWordLength, "inherited settings are not modified")
}

func TestResolveFolder_AllowedSchemasOverrideDefault(t *testing.T) {
	inherited := &types.Settings{AllowedSchemas: []string{"file", "output"}}

	agg, err := ResolveFolder(context.Background(), types.WorkspaceFolder{URI: "file:///work"}, inherited, nil, exclude.DefaultAllowedSchemes)
	require.NoError(t, err)

	assert.False(t, agg.Excluded("output:log"))
	assert.True(t, agg.Excluded("untitled:Untitled-1"))
}

func TestResolveFolder_NoHost(t *testing.T) {
	agg, err := ResolveFolder(context.Background(), types.WorkspaceFolder{URI: "file:///work"}, nil, nil, exclude.DefaultAllowedSchemes)
	require.NoError(t, err)

	assert.NotNil(t, agg.Settings)
	assert.Equal(t, exclude.DefaultExcludes, agg.Globs)
	assert.False(t, agg.Excluded("file:///work/a.txt"))
}

func TestResolveFolder_HostError(t *testing.T) {
	boom := errors.New("host unavailable")

	_, err := ResolveFolder(context.Background(), types.WorkspaceFolder{URI: "file:///work"}, nil, failingConfig{err: boom}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestResolveFolder_InvalidHostSection(t *testing.T) {
	host := &fakeConfig{}
	host.set("file:///work", "cSpell", `{"minWordLength": "eight"}`)

	_, err := ResolveFolder(context.Background(), types.WorkspaceFolder{URI: "file:///work"}, nil, host, nil)
	assert.Error(t, err)
}
