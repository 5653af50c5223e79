package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// Reader loads settings files from a filesystem.
type Reader struct {
	fs afero.Fs
}

// NewReader creates a Reader over fs. A nil fs reads the OS filesystem.
func NewReader(fs afero.Fs) *Reader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Reader{fs: fs}
}

// Fs returns the filesystem the reader reads from.
func (r *Reader) Fs() afero.Fs {
	return r.fs
}

// Read loads every existing file in paths and merges them in order.
// Missing files are skipped; a file that exists but cannot be parsed fails the read.
func (r *Reader) Read(ctx context.Context, paths ...string) (*types.Settings, error) {
	layers := make([]*types.Settings, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		settings, err := r.ReadFile(ctx, path)
		if errors.Is(err, ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		layers = append(layers, settings)
	}
	return Merge(layers...), nil
}

// ReadFile loads a single settings file, including the files it imports.
// Returns ErrNotExist if path is missing.
func (r *Reader) ReadFile(ctx context.Context, path string) (*types.Settings, error) {
	path = filepath.Clean(path)
	exists, err := r.exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	return r.load(ctx, path, map[string]bool{})
}

// load parses path and merges its imports underneath it.
// visiting holds the files on the current import chain.
func (r *Reader) load(ctx context.Context, path string, visiting map[string]bool) (*types.Settings, error) {
	if visiting[path] {
		logging.Warn().Str("path", path).Msg("settings import cycle, skipping")
		return nil, nil
	}
	visiting[path] = true
	defer delete(visiting, path)

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	settings, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("path", path).Int("imports", len(settings.Import)).Msg("settings file read")
	warnUnknownKeys(path, settings)

	layers := make([]*types.Settings, 0, len(settings.Import)+1)
	for _, imp := range settings.Import {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		importPath := resolveImport(filepath.Dir(path), imp)
		exists, err := r.exists(importPath)
		if err != nil {
			return nil, err
		}
		if !exists {
			logging.Warn().Str("path", path).Str("import", importPath).Msg("imported settings file not found")
			continue
		}

		imported, err := r.load(ctx, importPath, visiting)
		if err != nil {
			return nil, err
		}
		layers = append(layers, imported)
	}
	layers = append(layers, settings)

	return Merge(layers...), nil
}

func (r *Reader) exists(path string) (bool, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

// resolveImport resolves an import entry relative to the importing file's directory.
func resolveImport(baseDir, imp string) string {
	if strings.HasPrefix(imp, "~/") {
		return filepath.Join(os.Getenv("HOME"), imp[2:])
	}
	if !filepath.IsAbs(imp) {
		return filepath.Join(baseDir, imp)
	}
	return filepath.Clean(imp)
}

// Parse decodes settings file content. YAML is chosen by extension;
// everything else is read as JSON with comments.
func Parse(path string, data []byte) (*types.Settings, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		data = converted
	default:
		// Strip JSONC comments and trailing commas
		data = jsonc.ToJSON(data)
	}

	settings := &types.Settings{}
	if len(bytes.TrimSpace(data)) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return settings, nil
}
