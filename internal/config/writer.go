package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/werunom/vscode-spell-checker/internal/logging"
)

// AddWords appends words to the "words" list of the folder's highest priority
// settings file, creating <root>/cspell.json when the folder has none.
// Words already present are skipped. Comments in the rewritten file are not preserved.
// Returns the file written and the words actually added.
func AddWords(fs afero.Fs, root string, words []string) (string, []string, error) {
	path, data, err := settingsFileForWrite(fs, root)
	if err != nil {
		return "", nil, err
	}

	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return "", nil, &ParseError{Path: path, Err: errors.New("invalid JSON")}
	}

	current := gjson.GetBytes(data, "words")
	if !current.IsArray() {
		if data, err = sjson.SetBytes(data, "words", []string{}); err != nil {
			return "", nil, fmt.Errorf("failed to prepare %s: %w", path, err)
		}
	}

	existing := make(map[string]bool)
	for _, w := range current.Array() {
		existing[w.String()] = true
	}

	var added []string
	for _, word := range words {
		if word == "" || existing[word] {
			continue
		}
		data, err = sjson.SetBytes(data, "words.-1", word)
		if err != nil {
			return "", nil, fmt.Errorf("failed to add word %q to %s: %w", word, path, err)
		}
		existing[word] = true
		added = append(added, word)
	}

	if len(added) == 0 {
		return path, nil, nil
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", nil, err
	}
	if err := afero.WriteFile(fs, path, pretty.Pretty(data), 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Info().Str("path", path).Strs("words", added).Msg("words added to settings")
	return path, added, nil
}

// settingsFileForWrite returns the first existing candidate and its content,
// or a new default file.
func settingsFileForWrite(fs afero.Fs, root string) (string, []byte, error) {
	for _, candidate := range Locate(root) {
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", nil, err
		}
		if !exists {
			continue
		}
		data, err := afero.ReadFile(fs, candidate)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
		return candidate, data, nil
	}
	return DefaultSettingsPath(root), []byte(`{"version": "0.2"}`), nil
}
