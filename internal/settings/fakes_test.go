package settings

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// countingFs counts file opens and stats.
type countingFs struct {
	afero.Fs
	ops atomic.Int32
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.ops.Add(1)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.ops.Add(1)
	return c.Fs.OpenFile(name, flag, perm)
}

func (c *countingFs) Stat(name string) (os.FileInfo, error) {
	c.ops.Add(1)
	return c.Fs.Stat(name)
}

type fakeFolders struct {
	folders []types.WorkspaceFolder
	err     error
	calls   atomic.Int32
}

func (f *fakeFolders) WorkspaceFolders(ctx context.Context) ([]types.WorkspaceFolder, error) {
	f.calls.Add(1)
	return f.folders, f.err
}

// fakeConfig serves sections per scope URI. A scope without an entry gets "{}".
type fakeConfig struct {
	mu       sync.Mutex
	sections map[string]map[string]string
	calls    atomic.Int32
	// gate, when set, blocks every call until it is closed.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeConfig) set(scope, section, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sections == nil {
		f.sections = make(map[string]map[string]string)
	}
	if f.sections[scope] == nil {
		f.sections[scope] = make(map[string]string)
	}
	f.sections[scope][section] = value
}

func (f *fakeConfig) Configuration(ctx context.Context, scopeURI string, sections []string) ([]json.RawMessage, error) {
	f.calls.Add(1)
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]json.RawMessage, len(sections))
	for i, s := range sections {
		value, ok := f.sections[scopeURI][s]
		if !ok {
			value = "{}"
		}
		result[i] = json.RawMessage(value)
	}
	return result, nil
}

type fixture struct {
	fs      *countingFs
	folders *fakeFolders
	host    *fakeConfig
	docs    *DocumentSettings
}

func newFixture(t *testing.T, defaults *types.Settings, folderURIs ...string) *fixture {
	t.Helper()
	f := &fixture{
		fs:      &countingFs{Fs: afero.NewMemMapFs()},
		folders: &fakeFolders{},
		host:    &fakeConfig{},
	}
	for _, uri := range folderURIs {
		f.folders.folders = append(f.folders.folders, types.WorkspaceFolder{URI: uri})
	}
	f.docs = NewDocumentSettings(Options{
		Defaults:      defaults,
		Reader:        config.NewReader(f.fs),
		Folders:       f.folders,
		Configuration: f.host,
	})
	return f
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs.Fs, path, []byte(content), 0644))
}

// io returns the number of filesystem, folder and host calls so far.
func (f *fixture) io() int32 {
	return f.fs.ops.Load() + f.folders.calls.Load() + f.host.calls.Load()
}
