// Package config provides settings file discovery, reading, merging and path management.
//
// # Settings File Discovery
//
// Locate returns the conventional settings files for a workspace folder root, in
// priority order:
//
//  1. <root>/.vscode/cspell.json
//  2. <root>/.vscode/cSpell.json
//  3. <root>/cspell.json
//  4. <root>/cSpell.json
//
// # Reading
//
// Reader reads settings through an afero.Fs so tests can run against an in-memory
// filesystem. Files that do not exist are skipped silently. Files that exist but
// cannot be decoded produce a *ParseError carrying the offending path.
//
// Two formats are supported:
//   - JSON with comments (default), processed using tidwall/jsonc
//   - YAML (.yaml, .yml), processed using gopkg.in/yaml.v3
//
// A file may list other files under "import". Imports are resolved relative to the
// importing file (or the home directory for "~/" paths) and merged beneath it, so the
// importing file wins on conflicts. Import cycles are broken, and missing imports are
// logged and skipped.
//
// # Merging
//
// Merge combines any number of settings values in increasing precedence order:
//   - Overwrites scalar values (strings, booleans, numbers) and replaced lists
//     (enabledLanguageIds, allowedSchemas)
//   - Concatenates additive lists (words, ignorePaths, dictionaries, import, ...)
//   - Overwrites unknown keys one key at a time
//
// Merge never modifies its inputs; the result shares no memory with them.
//
// # Writing
//
// AddWords appends words to a folder's settings file using tidwall/sjson, creating
// <root>/cspell.json when the folder has no settings file yet.
package config
