package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/exclude"
	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// ExtSettings is the resolved aggregate for one workspace folder.
// It is immutable once built and replaced wholesale on invalidation.
type ExtSettings struct {
	// URI is the folder URI, empty for the aggregate used outside every folder.
	URI string
	// Root is the slash-separated path globs are relative to.
	Root     string
	Settings *types.Settings
	Globs    []string
	Excluded exclude.Func
}

// hostSections are requested from the configuration provider for every scope.
var hostSections = []string{host.SectionCSpell, host.SectionSearchExclude}

// ResolveFolder builds the aggregate for folder from the settings it inherits
// (defaults, imports and the folder's settings files) and the live host configuration.
// Host configuration wins over inherited settings.
func ResolveFolder(ctx context.Context, folder types.WorkspaceFolder, inherited *types.Settings, cfg host.ConfigurationProvider, defaultSchemes []string) (*ExtSettings, error) {
	return resolveScope(ctx, folder.URI, exclude.RootPath(folder.URI), inherited, cfg, defaultSchemes)
}

func resolveScope(ctx context.Context, scopeURI, root string, inherited *types.Settings, cfg host.ConfigurationProvider, defaultSchemes []string) (*ExtSettings, error) {
	hostSettings, searchExclude, err := fetchHost(ctx, cfg, scopeURI, hostSections)
	if err != nil {
		return nil, err
	}

	merged := config.Merge(inherited, hostSettings)
	globs := exclude.Dedupe(exclude.DefaultExcludes, merged.IgnorePaths, exclude.FromSearchExclude(searchExclude))

	schemes := defaultSchemes
	if merged.AllowedSchemas != nil {
		schemes = merged.AllowedSchemas
	}

	logging.Debug().
		Str("folder", scopeURI).
		Str("root", root).
		Int("globs", len(globs)).
		Msg("folder settings resolved")

	return &ExtSettings{
		URI:      scopeURI,
		Root:     root,
		Settings: merged,
		Globs:    globs,
		Excluded: exclude.Compile(globs, root, schemes),
	}, nil
}

// fetchHost reads the cSpell section and, when requested, search.exclude for scopeURI.
// A nil provider contributes nothing.
func fetchHost(ctx context.Context, cfg host.ConfigurationProvider, scopeURI string, sections []string) (*types.Settings, map[string]bool, error) {
	if cfg == nil {
		return nil, nil, nil
	}

	raw, err := cfg.Configuration(ctx, scopeURI, sections)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get host configuration for %q: %w", scopeURI, err)
	}

	var settings *types.Settings
	var searchExclude map[string]bool
	for i, section := range sections {
		if i >= len(raw) || isEmpty(raw[i]) {
			continue
		}
		switch section {
		case host.SectionCSpell:
			settings = &types.Settings{}
			if err := json.Unmarshal(raw[i], settings); err != nil {
				return nil, nil, fmt.Errorf("invalid %s configuration for %q: %w", section, scopeURI, err)
			}
		case host.SectionSearchExclude:
			searchExclude = decodeSearchExclude(raw[i])
		}
	}
	return settings, searchExclude, nil
}

// decodeSearchExclude reads a search.exclude object. Entries that are not plain
// booleans (the editor also allows {"when": ...} conditions) count as enabled.
func decodeSearchExclude(raw json.RawMessage) map[string]bool {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		logging.Warn().Err(err).Msg("ignoring malformed search.exclude")
		return nil
	}
	result := make(map[string]bool, len(entries))
	for glob, value := range entries {
		var enabled bool
		if err := json.Unmarshal(value, &enabled); err != nil {
			enabled = true
		}
		result[glob] = enabled
	}
	return result
}

func isEmpty(raw json.RawMessage) bool {
	s := string(raw)
	return s == "" || s == "null"
}
