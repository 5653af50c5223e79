// Package server provides the HTTP API for spell checker settings resolution.
//
// # API Endpoints
//
//   - GET  /settings?uri=  effective settings for a document (empty uri: defaults and imports)
//   - GET  /excluded?uri=  whether a document is excluded from checking
//   - GET  /folders        workspace folders
//   - GET  /version        cache version
//   - POST /reset          clear cached settings, returns the new version
//   - POST /import         register an import file: {"path": "..."}
//   - POST /words          add words to a folder settings file: {"uri": "...", "words": [...]}
//   - GET  /event          Server-Sent Events stream of settings events
//
// Errors use a common envelope:
//
//	{"error": {"code": "INVALID_SETTINGS", "message": "...", "details": {"uri": "..."}}}
//
// Malformed settings files map to 422, URIs outside every folder (for /words) to 404.
package server
