package config

import (
	"bytes"
	"encoding/json"

	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// Merge combines settings in increasing precedence order and returns a new value.
//
// Scalars, objects and replaced lists take the value of the last input that defines
// them. Word lists, globs, dictionaries, imports and the other additive lists are
// concatenated in input order; duplicates are kept. Nil inputs are ignored, and the
// inputs are never modified.
func Merge(settings ...*types.Settings) *types.Settings {
	result := &types.Settings{}
	for _, s := range settings {
		if s == nil {
			continue
		}
		mergeSettings(result, s)
	}
	return result
}

// mergeSettings merges source into target.
func mergeSettings(target, source *types.Settings) {
	if source.Schema != "" {
		target.Schema = source.Schema
	}

	// Identification
	if source.Version != nil {
		target.Version = clonePtr(source.Version)
	}
	if source.Name != nil {
		target.Name = clonePtr(source.Name)
	}
	if source.ID != nil {
		target.ID = clonePtr(source.ID)
	}
	if source.Description != nil {
		target.Description = clonePtr(source.Description)
	}

	// Checker behavior
	if source.Enabled != nil {
		target.Enabled = clonePtr(source.Enabled)
	}
	if source.Language != nil {
		target.Language = clonePtr(source.Language)
	}
	if source.MinWordLength != nil {
		target.MinWordLength = clonePtr(source.MinWordLength)
	}
	if source.MaxNumberOfProblems != nil {
		target.MaxNumberOfProblems = clonePtr(source.MaxNumberOfProblems)
	}
	if source.MaxDuplicateProblems != nil {
		target.MaxDuplicateProblems = clonePtr(source.MaxDuplicateProblems)
	}
	if source.NumSuggestions != nil {
		target.NumSuggestions = clonePtr(source.NumSuggestions)
	}
	if source.AllowCompoundWords != nil {
		target.AllowCompoundWords = clonePtr(source.AllowCompoundWords)
	}
	if source.CaseSensitive != nil {
		target.CaseSensitive = clonePtr(source.CaseSensitive)
	}

	// Replaced lists
	if source.EnabledLanguageIDs != nil {
		target.EnabledLanguageIDs = concat(nil, source.EnabledLanguageIDs)
	}
	if source.AllowedSchemas != nil {
		target.AllowedSchemas = concat(nil, source.AllowedSchemas)
	}

	// Concatenated lists
	if source.Words != nil {
		target.Words = concat(target.Words, source.Words)
	}
	if source.UserWords != nil {
		target.UserWords = concat(target.UserWords, source.UserWords)
	}
	if source.IgnoreWords != nil {
		target.IgnoreWords = concat(target.IgnoreWords, source.IgnoreWords)
	}
	if source.FlagWords != nil {
		target.FlagWords = concat(target.FlagWords, source.FlagWords)
	}
	if source.IgnorePaths != nil {
		target.IgnorePaths = concat(target.IgnorePaths, source.IgnorePaths)
	}
	if source.Dictionaries != nil {
		target.Dictionaries = concat(target.Dictionaries, source.Dictionaries)
	}
	if source.Import != nil {
		target.Import = concat(target.Import, source.Import)
	}
	if source.IgnoreRegExpList != nil {
		target.IgnoreRegExpList = concat(target.IgnoreRegExpList, source.IgnoreRegExpList)
	}
	if source.IncludeRegExpList != nil {
		target.IncludeRegExpList = concat(target.IncludeRegExpList, source.IncludeRegExpList)
	}
	if source.DictionaryDefinitions != nil {
		defs := concat(target.DictionaryDefinitions, source.DictionaryDefinitions)
		for i := len(target.DictionaryDefinitions); i < len(defs); i++ {
			defs[i].AddWords = clonePtr(defs[i].AddWords)
		}
		target.DictionaryDefinitions = defs
	}
	if source.Patterns != nil {
		target.Patterns = concat(target.Patterns, source.Patterns)
	}
	if source.LanguageSettings != nil {
		if target.LanguageSettings == nil {
			target.LanguageSettings = make([]types.LanguageSetting, 0, len(source.LanguageSettings))
		}
		for _, ls := range source.LanguageSettings {
			target.LanguageSettings = append(target.LanguageSettings, cloneLanguageSetting(ls))
		}
	}
	if source.Overrides != nil {
		if target.Overrides == nil {
			target.Overrides = make([]types.OverrideSettings, 0, len(source.Overrides))
		}
		for _, o := range source.Overrides {
			target.Overrides = append(target.Overrides, cloneOverride(o))
		}
	}

	// Unknown keys
	if source.Extra != nil {
		if target.Extra == nil {
			target.Extra = make(map[string]json.RawMessage, len(source.Extra))
		}
		for k, v := range source.Extra {
			target.Extra[k] = json.RawMessage(bytes.Clone(v))
		}
	}
}

// concat appends src to a copy of dst. The result never aliases either argument
// and is non-nil whenever src is non-nil.
func concat[S ~[]E, E any](dst, src S) S {
	out := make(S, 0, len(dst)+len(src))
	out = append(out, dst...)
	return append(out, src...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneLanguageSetting(ls types.LanguageSetting) types.LanguageSetting {
	return types.LanguageSetting{
		LanguageID:       cloneList(ls.LanguageID),
		Locale:           cloneList(ls.Locale),
		Enabled:          clonePtr(ls.Enabled),
		Words:            cloneList(ls.Words),
		IgnoreWords:      cloneList(ls.IgnoreWords),
		Dictionaries:     cloneList(ls.Dictionaries),
		IgnoreRegExpList: cloneList(ls.IgnoreRegExpList),
	}
}

func cloneOverride(o types.OverrideSettings) types.OverrideSettings {
	return types.OverrideSettings{
		Filename:     cloneList(o.Filename),
		LanguageID:   cloneList(o.LanguageID),
		Language:     clonePtr(o.Language),
		Enabled:      clonePtr(o.Enabled),
		Words:        cloneList(o.Words),
		IgnoreWords:  cloneList(o.IgnoreWords),
		Dictionaries: cloneList(o.Dictionaries),
	}
}

// cloneList copies a list, keeping nil as nil.
func cloneList[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return concat(nil, s)
}
