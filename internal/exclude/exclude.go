// Package exclude compiles glob lists into predicates that decide whether a
// document URI is skipped by the spell checker.
package exclude

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/werunom/vscode-spell-checker/internal/logging"
)

// DefaultExcludes are synthetic or generated documents that are never checked.
// They are always prepended to a folder's exclusion list.
var DefaultExcludes = []string{
	"debug:/**",
	"vscode:/**",
	"private:/**",
	"markdown:/**",
	"git-index:/**",
	"output:/**",
	"**/*.rendered",
	"**/*.*.rendered",
	"**/__pycache__/**",
}

// DefaultAllowedSchemes is used when settings do not name allowed schemes.
var DefaultAllowedSchemes = []string{"file", "untitled"}

// Func reports whether a document URI is excluded.
type Func func(uri string) bool

// schemePattern matches a glob that starts with a URI scheme ("debug:/**").
// Single letters are left out so Windows drive letters are not mistaken for schemes.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)

type globKind int

const (
	kindRelative globKind = iota // matched against the path below root
	kindAbsolute                 // matched against the full URI path
	kindScheme                   // matched against "scheme:" + path
)

type compiledGlob struct {
	pattern string
	kind    globKind
}

// matcher is the compiled form behind a Func.
type matcher struct {
	globs   []compiledGlob
	root    string
	schemes map[string]bool
}

// Compile builds an exclusion predicate from globs.
//
// Relative globs are evaluated against the URI path relative to root and never match
// outside it; a relative glob without a "/" matches at any depth. Absolute globs are
// evaluated against the URI path, and scheme-qualified globs against "scheme:" + path.
// Every glob that is not scheme-qualified also excludes everything beneath a matching
// directory. Invalid globs are logged and ignored.
//
// The returned function reports true for URIs whose scheme is not in allowedSchemes,
// without evaluating any glob. It is safe for concurrent use.
func Compile(globs []string, root string, allowedSchemes []string) Func {
	m := &matcher{
		root:    normalizeRoot(root),
		schemes: make(map[string]bool, len(allowedSchemes)),
	}
	for _, s := range allowedSchemes {
		m.schemes[strings.ToLower(s)] = true
	}

	for _, g := range globs {
		m.add(g)
	}

	logging.Debug().
		Str("root", m.root).
		Int("globs", len(m.globs)).
		Strs("schemes", allowedSchemes).
		Msg("exclusion globs compiled")

	return m.excluded
}

func (m *matcher) add(glob string) {
	glob = strings.TrimSpace(glob)
	if glob == "" || strings.HasPrefix(glob, "#") {
		return
	}

	var compiled []compiledGlob
	switch {
	case schemePattern.MatchString(glob):
		compiled = append(compiled, compiledGlob{pattern: glob, kind: kindScheme})
	case strings.HasPrefix(glob, "/"):
		compiled = append(compiled, withContents(glob, kindAbsolute)...)
	default:
		glob = strings.TrimPrefix(glob, "./")
		trimmed := strings.TrimSuffix(glob, "/")
		if !strings.Contains(trimmed, "/") {
			glob = "**/" + glob
		}
		compiled = append(compiled, withContents(glob, kindRelative)...)
	}

	for _, c := range compiled {
		if !doublestar.ValidatePattern(c.pattern) {
			logging.Warn().Str("glob", glob).Msg("invalid exclusion glob ignored")
			return
		}
	}
	m.globs = append(m.globs, compiled...)
}

// withContents returns the glob plus a variant matching everything beneath it.
func withContents(glob string, kind globKind) []compiledGlob {
	glob = strings.TrimSuffix(glob, "/")
	out := []compiledGlob{{pattern: glob, kind: kind}}
	if !strings.HasSuffix(glob, "/**") {
		out = append(out, compiledGlob{pattern: glob + "/**", kind: kind})
	}
	return out
}

func (m *matcher) excluded(uri string) bool {
	scheme, p := Split(uri)
	if !m.schemes[scheme] {
		return true
	}

	rel, inRoot := Rel(m.root, p)

	for _, g := range m.globs {
		var subject string
		switch g.kind {
		case kindScheme:
			subject = scheme + ":" + p
		case kindAbsolute:
			subject = p
		case kindRelative:
			if !inRoot || rel == "" {
				continue
			}
			subject = rel
		}
		if doublestar.MatchUnvalidated(g.pattern, subject) {
			return true
		}
	}
	return false
}

// Split returns the lower-cased scheme and the path of a URI.
// Strings without a scheme are treated as file paths.
func Split(uri string) (scheme, p string) {
	if !schemePattern.MatchString(uri) {
		return "file", toSlashPath(uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		i := strings.Index(uri, ":")
		return strings.ToLower(uri[:i]), toSlashPath(uri[i+1:])
	}
	p = u.Path
	if p == "" {
		p = u.Opaque
	}
	return strings.ToLower(u.Scheme), p
}

// RootPath returns the path a folder URI relativizes globs against.
func RootPath(folderURI string) string {
	_, p := Split(folderURI)
	return normalizeRoot(p)
}

func normalizeRoot(root string) string {
	if root == "" {
		return "/"
	}
	root = path.Clean(toSlashPath(root))
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	return root
}

// Rel returns p relative to root when p is root or lies beneath it.
// Both are slash-separated; root must be normalized.
func Rel(root, p string) (string, bool) {
	switch {
	case root == "/":
		return strings.TrimPrefix(p, "/"), strings.HasPrefix(p, "/")
	case p == root:
		return "", true
	case strings.HasPrefix(p, root+"/"):
		return p[len(root)+1:], true
	}
	return "", false
}

// Within reports whether p is root or lies beneath it, on a path segment boundary.
func Within(root, p string) bool {
	_, ok := Rel(normalizeRoot(root), p)
	return ok
}

func toSlashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Dedupe concatenates glob lists, keeping the first occurrence of each glob.
func Dedupe(lists ...[]string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, list := range lists {
		for _, g := range list {
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			result = append(result, g)
		}
	}
	return result
}

// FromSearchExclude returns the enabled globs of an editor "search.exclude" map, sorted.
func FromSearchExclude(searchExclude map[string]bool) []string {
	globs := make([]string, 0, len(searchExclude))
	for g, enabled := range searchExclude {
		if enabled {
			globs = append(globs, g)
		}
	}
	sort.Strings(globs)
	return globs
}
