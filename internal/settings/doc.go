// Package settings resolves the effective spell checker settings of a document.
//
// Settings are merged in increasing precedence:
//
//	defaults < imports < folder settings files < host configuration < file-level host configuration
//
// ResolveFolder builds the aggregate for one workspace folder: its merged settings and
// the compiled exclusion function for its glob list. DocumentSettings caches folder
// aggregates, import settings and resolved documents, and answers exclusion queries.
//
// A document inside one or more folders takes the merge of their aggregates with the
// most specific folder last. A document outside every folder takes the defaults, the
// imports and the host configuration scoped to the document.
package settings
