package settings

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/internal/exclude"
	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/latch"
	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// DefaultSettings returns the built-in settings every resolution starts from.
func DefaultSettings() *types.Settings {
	return &types.Settings{
		Version:             types.Ptr("0.2"),
		Enabled:             types.Ptr(true),
		Language:            types.Ptr("en"),
		MinWordLength:       types.Ptr(4),
		MaxNumberOfProblems: types.Ptr(100),
		NumSuggestions:      types.Ptr(8),
		AllowedSchemas:      append([]string(nil), exclude.DefaultAllowedSchemes...),
		IgnorePaths:         append([]string(nil), exclude.DefaultExcludes...),
	}
}

// Options configures a DocumentSettings.
type Options struct {
	// Defaults are the lowest precedence settings. DefaultSettings() when nil.
	Defaults *types.Settings
	// Reader reads folder and import settings files. The OS filesystem when nil.
	Reader *config.Reader
	// Folders lists workspace folders. No folders when nil.
	Folders host.FolderProvider
	// Configuration supplies live host settings. No host settings when nil.
	Configuration host.ConfigurationProvider
	// Bus receives settings.reset and config.registered events. Optional.
	Bus *event.Bus
	// AllowedSchemes is used when no settings name allowed schemes.
	// exclude.DefaultAllowedSchemes when nil.
	AllowedSchemes []string
}

// DocumentSettings resolves and caches the effective settings of documents.
//
// Folders, folder aggregates, import settings and the aggregate for documents outside
// every folder are each computed at most once until invalidated; concurrent callers
// share a pending computation. Resolved document settings are cached per URI and
// per version. Returned settings must not be modified.
type DocumentSettings struct {
	defaults       *types.Settings
	reader         *config.Reader
	folderProvider host.FolderProvider
	configProvider host.ConfigurationProvider
	bus            *event.Bus
	defaultSchemes []string

	folders        *latch.Latch[[]types.WorkspaceFolder]
	aggregates     *latch.Latch[[]*ExtSettings]
	importSettings *latch.Latch[*types.Settings]
	global         *latch.Latch[*ExtSettings]

	mu      sync.Mutex
	imports map[string]struct{}
	docs    map[string]*types.Settings
	version atomic.Uint64

	resolving singleflight.Group
}

// NewDocumentSettings creates a DocumentSettings with empty caches.
func NewDocumentSettings(opts Options) *DocumentSettings {
	d := &DocumentSettings{
		defaults:       opts.Defaults,
		reader:         opts.Reader,
		folderProvider: opts.Folders,
		configProvider: opts.Configuration,
		bus:            opts.Bus,
		defaultSchemes: opts.AllowedSchemes,
		imports:        make(map[string]struct{}),
		docs:           make(map[string]*types.Settings),
	}
	if d.defaults == nil {
		d.defaults = DefaultSettings()
	}
	if d.reader == nil {
		d.reader = config.NewReader(nil)
	}
	if d.defaultSchemes == nil {
		d.defaultSchemes = exclude.DefaultAllowedSchemes
	}

	d.folders = latch.New(d.loadFolders)
	d.aggregates = latch.New(d.loadAggregates)
	d.importSettings = latch.New(d.loadImports)
	d.global = latch.New(d.loadGlobal)
	return d
}

// Settings returns the effective settings for doc.
func (d *DocumentSettings) Settings(ctx context.Context, doc types.TextDocument) (*types.Settings, error) {
	return d.URISettings(ctx, doc.URI)
}

// URISettings returns the effective settings for uri. An empty uri resolves to the
// defaults merged with the import settings.
func (d *DocumentSettings) URISettings(ctx context.Context, uri string) (*types.Settings, error) {
	if uri == "" {
		imports, err := d.importSettings.Get(ctx)
		if err != nil {
			return nil, err
		}
		return config.Merge(d.defaults, imports), nil
	}

	d.mu.Lock()
	cached, ok := d.docs[uri]
	version := d.version.Load()
	d.mu.Unlock()
	if ok {
		return cached, nil
	}

	key := fmt.Sprintf("%d\x00%s", version, uri)
	ch := d.resolving.DoChan(key, func() (any, error) {
		return d.resolve(context.WithoutCancel(ctx), uri, version)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.Settings), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve computes the settings for uri and caches them if version is still current.
func (d *DocumentSettings) resolve(ctx context.Context, uri string, version uint64) (*types.Settings, error) {
	aggregates, err := d.aggregates.Get(ctx)
	if err != nil {
		return nil, err
	}

	var result *types.Settings
	matched := matchFolders(aggregates, uri)
	if len(matched) > 0 {
		layers := make([]*types.Settings, len(matched))
		for i, agg := range matched {
			layers[len(matched)-1-i] = agg.Settings
		}
		result = config.Merge(layers...)
	} else {
		imports, err := d.importSettings.Get(ctx)
		if err != nil {
			return nil, err
		}
		fileSettings, _, err := fetchHost(ctx, d.configProvider, uri, []string{host.SectionCSpell})
		if err != nil {
			return nil, err
		}
		result = config.Merge(d.defaults, imports, fileSettings)
	}

	d.mu.Lock()
	stored := d.version.Load() == version
	if stored {
		d.docs[uri] = result
	}
	d.mu.Unlock()

	logging.Debug().
		Str("uri", uri).
		Int("folders", len(matched)).
		Bool("cached", stored).
		Msg("document settings resolved")
	return result, nil
}

// IsExcluded reports whether uri should not be spell checked. A uri is excluded when
// any folder containing it excludes it; outside every folder the unscoped settings decide.
func (d *DocumentSettings) IsExcluded(ctx context.Context, uri string) (bool, error) {
	aggregates, err := d.aggregates.Get(ctx)
	if err != nil {
		return false, err
	}

	matched := matchFolders(aggregates, uri)
	if len(matched) == 0 {
		global, err := d.global.Get(ctx)
		if err != nil {
			return false, err
		}
		return global.Excluded(uri), nil
	}

	for _, agg := range matched {
		if agg.Excluded(uri) {
			return true, nil
		}
	}
	return false, nil
}

// Folders returns the workspace folders.
func (d *DocumentSettings) Folders(ctx context.Context) ([]types.WorkspaceFolder, error) {
	return d.folders.Get(ctx)
}

// FolderSettings returns the folder aggregates, most specific root first.
func (d *DocumentSettings) FolderSettings(ctx context.Context) ([]*ExtSettings, error) {
	return d.aggregates.Get(ctx)
}

// Version returns the cache version. It increases on every reset.
func (d *DocumentSettings) Version() uint64 {
	return d.version.Load()
}

// Imports returns the registered import files, sorted.
func (d *DocumentSettings) Imports() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sortedImports()
}

// ResetSettings discards every cached value and increments the version.
// Resolutions in flight complete but their results are not cached.
func (d *DocumentSettings) ResetSettings() {
	d.mu.Lock()
	d.docs = make(map[string]*types.Settings)
	version := d.version.Add(1)
	d.folders.Invalidate()
	d.aggregates.Invalidate()
	d.importSettings.Invalidate()
	d.global.Invalidate()
	d.mu.Unlock()

	logging.Info().Uint64("version", version).Msg("settings reset")
	if d.bus != nil {
		d.bus.Publish(event.Event{
			Type: event.SettingsReset,
			Data: event.SettingsResetData{Version: version},
		})
	}
}

// RegisterConfigurationFile adds path to the import files. Only the import settings
// are invalidated: folder aggregates and cached documents keep the previous imports
// until ResetSettings is called.
func (d *DocumentSettings) RegisterConfigurationFile(path string) {
	path = filepath.Clean(path)

	d.mu.Lock()
	d.imports[path] = struct{}{}
	d.importSettings.Invalidate()
	d.global.Invalidate()
	d.mu.Unlock()

	logging.Info().Str("path", path).Msg("configuration file registered")
	if d.bus != nil {
		d.bus.Publish(event.Event{
			Type: event.ConfigRegistered,
			Data: event.ConfigRegisteredData{Path: path},
		})
	}
}

func (d *DocumentSettings) sortedImports() []string {
	paths := make([]string, 0, len(d.imports))
	for p := range d.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (d *DocumentSettings) loadFolders(ctx context.Context) ([]types.WorkspaceFolder, error) {
	if d.folderProvider == nil {
		return nil, nil
	}
	folders, err := d.folderProvider.WorkspaceFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace folders: %w", err)
	}
	return folders, nil
}

func (d *DocumentSettings) loadImports(ctx context.Context) (*types.Settings, error) {
	d.mu.Lock()
	paths := d.sortedImports()
	d.mu.Unlock()

	settings, err := d.reader.Read(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to read imported settings: %w", err)
	}
	return settings, nil
}

// loadAggregates builds the aggregate of every folder concurrently and orders them
// longest root first.
func (d *DocumentSettings) loadAggregates(ctx context.Context) ([]*ExtSettings, error) {
	folders, err := d.folders.Get(ctx)
	if err != nil {
		return nil, err
	}
	imports, err := d.importSettings.Get(ctx)
	if err != nil {
		return nil, err
	}

	aggregates := make([]*ExtSettings, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	for i, folder := range folders {
		i, folder := i, folder
		g.Go(func() error {
			root := exclude.RootPath(folder.URI)
			fileSettings, err := d.reader.Read(gctx, config.Locate(filepath.FromSlash(root))...)
			if err != nil {
				return fmt.Errorf("folder %s: %w", folder.URI, err)
			}
			inherited := config.Merge(d.defaults, imports, fileSettings)
			agg, err := ResolveFolder(gctx, folder, inherited, d.configProvider, d.defaultSchemes)
			if err != nil {
				return fmt.Errorf("folder %s: %w", folder.URI, err)
			}
			aggregates[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Warn().Err(err).Msg("failed to resolve folder settings")
		return nil, err
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return len(aggregates[i].Root) > len(aggregates[j].Root)
	})
	return aggregates, nil
}

// loadGlobal builds the aggregate for documents outside every folder.
func (d *DocumentSettings) loadGlobal(ctx context.Context) (*ExtSettings, error) {
	imports, err := d.importSettings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return resolveScope(ctx, "", "/", config.Merge(d.defaults, imports), d.configProvider, d.defaultSchemes)
}

// matchFolders returns the aggregates containing uri, keeping their order.
func matchFolders(aggregates []*ExtSettings, uri string) []*ExtSettings {
	scheme, p := exclude.Split(uri)
	var matched []*ExtSettings
	for _, agg := range aggregates {
		folderScheme, _ := exclude.Split(agg.URI)
		if folderScheme == scheme && exclude.Within(agg.Root, p) {
			matched = append(matched, agg)
		}
	}
	return matched
}

// IsParseError reports whether err came from a malformed settings file.
func IsParseError(err error) bool {
	var parseErr *config.ParseError
	return errors.As(err, &parseErr)
}
