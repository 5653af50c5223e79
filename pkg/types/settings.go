package types

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Settings represents a cSpell configuration overlay.
// Compatible with the cspell.json / cSpell editor section format.
// Every field is optional: a nil pointer or nil slice means "inherit".
type Settings struct {
	// Schema reference (for editor support)
	Schema string `json:"$schema,omitempty"`

	// File identification
	Version     *string `json:"version,omitempty"` // "0.2"
	Name        *string `json:"name,omitempty"`
	ID          *string `json:"id,omitempty"`
	Description *string `json:"description,omitempty"`

	// Checker behavior
	Enabled              *bool   `json:"enabled,omitempty"`
	Language             *string `json:"language,omitempty"` // "en,en-GB"
	MinWordLength        *int    `json:"minWordLength,omitempty"`
	MaxNumberOfProblems  *int    `json:"maxNumberOfProblems,omitempty"`
	MaxDuplicateProblems *int    `json:"maxDuplicateProblems,omitempty"`
	NumSuggestions       *int    `json:"numSuggestions,omitempty"`
	AllowCompoundWords   *bool   `json:"allowCompoundWords,omitempty"`
	CaseSensitive        *bool   `json:"caseSensitive,omitempty"`

	// Replaced, not concatenated
	EnabledLanguageIDs []string `json:"enabledLanguageIds,omitempty"`
	AllowedSchemas     []string `json:"allowedSchemas,omitempty"` // URI schemes to check

	// Word lists
	Words       []string `json:"words,omitempty"`
	UserWords   []string `json:"userWords,omitempty"`
	IgnoreWords []string `json:"ignoreWords,omitempty"`
	FlagWords   []string `json:"flagWords,omitempty"`

	// Exclusion globs
	IgnorePaths []string `json:"ignorePaths,omitempty"`

	// Dictionaries
	Dictionaries          []string               `json:"dictionaries,omitempty"`
	DictionaryDefinitions []DictionaryDefinition `json:"dictionaryDefinitions,omitempty"`

	// Other configuration files to read before this one
	Import StringList `json:"import,omitempty"`

	// Scoped settings
	LanguageSettings []LanguageSetting  `json:"languageSettings,omitempty"`
	Overrides        []OverrideSettings `json:"overrides,omitempty"`

	// Regular expressions
	Patterns          []PatternDefinition `json:"patterns,omitempty"`
	IgnoreRegExpList  []string            `json:"ignoreRegExpList,omitempty"`
	IncludeRegExpList []string            `json:"includeRegExpList,omitempty"`

	// Unrecognized keys, kept for forward compatibility
	Extra map[string]json.RawMessage `json:"-"`
}

// DictionaryDefinition declares a custom dictionary.
type DictionaryDefinition struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"` // "S"|"C"|"W"
	AddWords    *bool  `json:"addWords,omitempty"`
}

// LanguageSetting applies settings to a set of language IDs and locales.
type LanguageSetting struct {
	LanguageID       StringList `json:"languageId"`
	Locale           StringList `json:"locale,omitempty"`
	Enabled          *bool      `json:"enabled,omitempty"`
	Words            []string   `json:"words,omitempty"`
	IgnoreWords      []string   `json:"ignoreWords,omitempty"`
	Dictionaries     []string   `json:"dictionaries,omitempty"`
	IgnoreRegExpList []string   `json:"ignoreRegExpList,omitempty"`
}

// OverrideSettings applies settings to files matching Filename globs.
type OverrideSettings struct {
	Filename     StringList `json:"filename"`
	LanguageID   StringList `json:"languageId,omitempty"`
	Language     *string    `json:"language,omitempty"`
	Enabled      *bool      `json:"enabled,omitempty"`
	Words        []string   `json:"words,omitempty"`
	IgnoreWords  []string   `json:"ignoreWords,omitempty"`
	Dictionaries []string   `json:"dictionaries,omitempty"`
}

// PatternDefinition names a regular expression for use in include/ignore lists.
type PatternDefinition struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	Description string `json:"description,omitempty"`
}

// StringList accepts either a single string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// settingsFields has the same layout as Settings without its JSON methods.
type settingsFields Settings

// keyNames holds the JSON names of every typed Settings field, in field order.
var keyNames = func() []string {
	var names []string
	t := reflect.TypeOf(settingsFields{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}()

// knownKeys holds the lower-cased keyNames.
var knownKeys = func() map[string]bool {
	keys := make(map[string]bool, len(keyNames))
	for _, name := range keyNames {
		keys[strings.ToLower(name)] = true
	}
	return keys
}()

// KnownKeys returns the JSON names of the typed Settings fields.
func KnownKeys() []string {
	return append([]string(nil), keyNames...)
}

// UnmarshalJSON decodes the typed fields and keeps every other key in Extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var fields settingsFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields.Extra = nil
	for key, value := range raw {
		if knownKeys[strings.ToLower(key)] {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[key] = value
	}

	*s = Settings(fields)
	return nil
}

// MarshalJSON encodes the typed fields followed by the Extra keys.
// Typed fields win when an Extra key collides with one.
func (s Settings) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(settingsFields(s))
	if err != nil || len(s.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range s.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// Ptr returns a pointer to v. Convenient for building Settings literals.
func Ptr[T any](v T) *T {
	return &v
}
