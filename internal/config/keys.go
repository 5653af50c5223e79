package config

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// maxKeyDistance is the largest edit distance at which an unknown key is
// reported as a likely misspelling of a known one.
const maxKeyDistance = 2

// SuggestKey returns the known settings key closest to key, if any is within
// maxKeyDistance. Comparison ignores case.
func SuggestKey(key string) (string, bool) {
	lower := strings.ToLower(key)
	best, bestDist := "", maxKeyDistance+1
	for _, known := range types.KnownKeys() {
		dist := levenshtein.ComputeDistance(lower, strings.ToLower(known))
		if dist < bestDist {
			best, bestDist = known, dist
		}
	}
	return best, best != ""
}

// warnUnknownKeys logs the keys of s that look like misspelled settings.
func warnUnknownKeys(path string, s *types.Settings) {
	keys := make([]string, 0, len(s.Extra))
	for key := range s.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if suggestion, ok := SuggestKey(key); ok {
			logging.Warn().
				Str("path", path).
				Str("key", key).
				Str("suggestion", suggestion).
				Msg("unknown settings key")
		}
	}
}
