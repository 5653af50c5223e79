// Package host defines the editor collaborators settings resolution depends on,
// and a filesystem-backed implementation of them.
package host

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// Configuration sections requested by the settings resolver.
const (
	SectionCSpell        = "cSpell"
	SectionSearchExclude = "search.exclude"
)

// ErrNoFolder is returned when a URI lies outside every workspace folder.
var ErrNoFolder = errors.New("no workspace folder contains uri")

// FolderProvider lists the open workspace folders. The list may be empty.
type FolderProvider interface {
	WorkspaceFolders(ctx context.Context) ([]types.WorkspaceFolder, error)
}

// ConfigurationProvider returns live editor configuration.
// Configuration returns one JSON object per requested section, in order.
// An empty scopeURI asks for configuration that is not scoped to any folder.
type ConfigurationProvider interface {
	Configuration(ctx context.Context, scopeURI string, sections []string) ([]json.RawMessage, error)
}
