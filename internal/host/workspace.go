package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/exclude"
	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// Workspace serves folders and editor configuration from the filesystem.
//
// Configuration for a scope is the user settings file overlaid by the
// .vscode/settings.json of the deepest folder containing the scope. Both files are
// read on every call, so edits are visible without restarting.
type Workspace struct {
	fs           afero.Fs
	userSettings string

	mu    sync.RWMutex
	roots []string
}

// NewWorkspace creates a Workspace over fs with the given folder roots.
// userSettings may be empty. A nil fs uses the OS filesystem.
func NewWorkspace(fs afero.Fs, userSettings string, roots ...string) *Workspace {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	w := &Workspace{fs: fs, userSettings: userSettings}
	w.SetFolders(roots...)
	return w
}

// SetFolders replaces the folder roots. Duplicates are dropped.
func (w *Workspace) SetFolders(roots ...string) {
	seen := make(map[string]bool, len(roots))
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			continue
		}
		if abs, err := filepath.Abs(r); err == nil {
			r = abs
		}
		r = filepath.ToSlash(filepath.Clean(r))
		if seen[r] {
			continue
		}
		seen[r] = true
		cleaned = append(cleaned, r)
	}

	w.mu.Lock()
	w.roots = cleaned
	w.mu.Unlock()
}

// Roots returns the folder root paths.
func (w *Workspace) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.roots...)
}

// UserSettingsPath returns the user settings file, or "" if none is configured.
func (w *Workspace) UserSettingsPath() string {
	return w.userSettings
}

// WorkspaceFolders implements FolderProvider.
func (w *Workspace) WorkspaceFolders(ctx context.Context) ([]types.WorkspaceFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roots := w.Roots()
	folders := make([]types.WorkspaceFolder, 0, len(roots))
	for _, r := range roots {
		folders = append(folders, types.WorkspaceFolder{
			URI:  FileURI(r),
			Name: filepath.Base(r),
		})
	}
	return folders, nil
}

// FolderFor returns the root of the deepest folder containing uri.
// Returns ErrNoFolder if there is none.
func (w *Workspace) FolderFor(uri string) (string, error) {
	_, p := exclude.Split(uri)
	best := ""
	for _, r := range w.Roots() {
		if exclude.Within(r, p) && len(r) > len(best) {
			best = r
		}
	}
	if best == "" {
		return "", fmt.Errorf("%s: %w", uri, ErrNoFolder)
	}
	return best, nil
}

// Configuration implements ConfigurationProvider.
func (w *Workspace) Configuration(ctx context.Context, scopeURI string, sections []string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layers := make([][]byte, 0, 2)
	if w.userSettings != "" {
		data, err := w.readSettings(w.userSettings)
		if err != nil {
			return nil, err
		}
		layers = append(layers, data)
	}
	if scopeURI != "" {
		if root, err := w.FolderFor(scopeURI); err == nil {
			data, err := w.readSettings(config.EditorSettingsPath(root))
			if err != nil {
				return nil, err
			}
			layers = append(layers, data)
		}
	}

	result := make([]json.RawMessage, 0, len(sections))
	for _, section := range sections {
		values := make(map[string]json.RawMessage)
		for _, data := range layers {
			extractSection(data, section, values)
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("failed to encode section %s: %w", section, err)
		}
		result = append(result, raw)
	}

	logging.Debug().
		Str("scope", scopeURI).
		Strs("sections", sections).
		Int("layers", len(layers)).
		Msg("host configuration read")
	return result, nil
}

// readSettings returns the file as plain JSON, or nil if it does not exist.
func (w *Workspace) readSettings(path string) ([]byte, error) {
	data, err := afero.ReadFile(w.fs, filepath.FromSlash(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = jsonc.ToJSON(data)
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &config.ParseError{Path: path, Err: fmt.Errorf("invalid JSON")}
	}
	return data, nil
}

// extractSection copies the keys of section found in data into values.
// A section may be written as a nested object ("search": {"exclude": {...}}),
// as a flat key ("search.exclude": {...}) or as flat sub-keys ("cSpell.words": [...]).
// Later forms override earlier ones key by key.
func extractSection(data []byte, section string, values map[string]json.RawMessage) {
	if len(data) == 0 {
		return
	}

	copyObject := func(obj gjson.Result) {
		if !obj.IsObject() {
			return
		}
		obj.ForEach(func(key, value gjson.Result) bool {
			values[key.String()] = json.RawMessage(value.Raw)
			return true
		})
	}

	copyObject(gjson.GetBytes(data, escapePath(strings.Split(section, ".")...)))
	if strings.Contains(section, ".") {
		copyObject(gjson.GetBytes(data, escapePath(section)))
	}

	prefix := section + "."
	var flat []string
	root := gjson.ParseBytes(data)
	root.ForEach(func(key, _ gjson.Result) bool {
		if k := key.String(); strings.HasPrefix(k, prefix) && len(k) > len(prefix) {
			flat = append(flat, k)
		}
		return true
	})
	sort.Strings(flat)
	for _, k := range flat {
		values[k[len(prefix):]] = json.RawMessage(root.Get(escapePath(k)).Raw)
	}
}

// escapePath builds a gjson path from literal key components.
func escapePath(components ...string) string {
	escaped := make([]string, len(components))
	for i, c := range components {
		var b strings.Builder
		for _, r := range c {
			switch r {
			case '.', '*', '?', '\\', '|', '#', '@', '!', '=', '<', '>', '%':
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}

// FileURI converts a slash-separated absolute path into a file URI.
func FileURI(path string) string {
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
