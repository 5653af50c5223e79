package server

import (
	"encoding/json"
	"net/http"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

// ExcludedResponse is the response for GET /excluded.
type ExcludedResponse struct {
	URI      string `json:"uri"`
	Excluded bool   `json:"excluded"`
}

// VersionResponse is the response for GET /version and POST /reset.
type VersionResponse struct {
	Version uint64 `json:"version"`
}

// ImportRequest is the body of POST /import.
type ImportRequest struct {
	Path string `json:"path"`
}

// AddWordsRequest is the body of POST /words.
type AddWordsRequest struct {
	URI   string   `json:"uri"`
	Words []string `json:"words"`
}

// AddWordsResponse is the response for POST /words.
type AddWordsResponse struct {
	Path  string   `json:"path"`
	Added []string `json:"added"`
}

// getSettings handles GET /settings?uri=.
func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")

	resolved, err := s.docs.URISettings(r.Context(), uri)
	if err != nil {
		writeResolutionError(w, uri, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

// getExcluded handles GET /excluded?uri=.
func (s *Server) getExcluded(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "uri required")
		return
	}

	excluded, err := s.docs.IsExcluded(r.Context(), uri)
	if err != nil {
		writeResolutionError(w, uri, err)
		return
	}
	writeJSON(w, http.StatusOK, ExcludedResponse{URI: uri, Excluded: excluded})
}

// getFolders handles GET /folders.
func (s *Server) getFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.docs.Folders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if folders == nil {
		folders = []types.WorkspaceFolder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

// getVersion handles GET /version.
func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.docs.Version()})
}

// resetSettings handles POST /reset.
func (s *Server) resetSettings(w http.ResponseWriter, r *http.Request) {
	s.docs.ResetSettings()
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.docs.Version()})
}

// registerImport handles POST /import.
func (s *Server) registerImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "path required")
		return
	}

	s.docs.RegisterConfigurationFile(req.Path)
	if s.watcher != nil {
		s.watcher.AddFile(req.Path)
	}
	writeSuccess(w)
}

// addWords handles POST /words. Words go to the settings file of the deepest
// folder containing uri, and the cache is reset.
func (s *Server) addWords(w http.ResponseWriter, r *http.Request) {
	var req AddWordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if req.URI == "" || len(req.Words) == 0 {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "uri and words required")
		return
	}
	if s.workspace == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "no workspace folders")
		return
	}

	root, err := s.workspace.FolderFor(req.URI)
	if err != nil {
		writeResolutionError(w, req.URI, err)
		return
	}

	path, added, err := config.AddWords(s.fs, root, req.Words)
	if err != nil {
		writeResolutionError(w, req.URI, err)
		return
	}
	if added == nil {
		added = []string{}
	}

	if len(added) > 0 {
		s.bus.Publish(event.Event{
			Type: event.WordsAdded,
			Data: event.WordsAddedData{Path: path, Words: added},
		})
		s.docs.ResetSettings()
	}
	writeJSON(w, http.StatusOK, AddWordsResponse{Path: path, Added: added})
}
