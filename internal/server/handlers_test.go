package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/settings"
	"github.com/werunom/vscode-spell-checker/pkg/types"
)

type recordingWatcher struct {
	files []string
}

func (r *recordingWatcher) AddFile(path string) {
	r.files = append(r.files, path)
}

type testServer struct {
	srv     *Server
	fs      afero.Fs
	docs    *settings.DocumentSettings
	bus     *event.Bus
	watcher *recordingWatcher
}

func setupTestServer(t *testing.T, roots ...string) *testServer {
	t.Helper()
	fs := afero.NewMemMapFs()
	ws := host.NewWorkspace(fs, "/home/user/settings.json", roots...)
	bus := event.NewBus()
	t.Cleanup(func() { bus.Close() })

	docs := settings.NewDocumentSettings(settings.Options{
		Reader:        config.NewReader(fs),
		Folders:       ws,
		Configuration: ws,
		Bus:           bus,
	})
	watcher := &recordingWatcher{}
	srv := New(&Config{}, Deps{
		Settings:  docs,
		Workspace: ws,
		Fs:        fs,
		Bus:       bus,
		Watcher:   watcher,
	})
	return &testServer{srv: srv, fs: fs, docs: docs, bus: bus, watcher: watcher}
}

func (ts *testServer) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(ts.fs, path, []byte(content), 0644))
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(w, req)
	return w
}

func TestGetSettings(t *testing.T) {
	ts := setupTestServer(t, "/work")
	ts.write(t, "/work/cspell.json", `{"words": ["gopher"], "minWordLength": 5}`)
	ts.write(t, "/home/user/settings.json", `{"cSpell.language": "en-GB"}`)

	w := ts.do(t, "GET", "/settings?uri=file:///work/main.go", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got types.Settings
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, []string{"gopher"}, got.Words)
	assert.Equal(t, 5, *got.MinWordLength)
	assert.Equal(t, "en-GB", *got.Language)
}

func TestGetSettings_EmptyURI(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, "GET", "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.Settings
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 4, *got.MinWordLength)
}

func TestGetSettings_MalformedFile(t *testing.T) {
	ts := setupTestServer(t, "/work")
	ts.write(t, "/work/cspell.json", `{"words": [`)

	w := ts.do(t, "GET", "/settings?uri=file:///work/main.go", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetExcluded(t *testing.T) {
	ts := setupTestServer(t, "/work")
	ts.write(t, "/work/cspell.json", `{"ignorePaths": ["vendor/**"]}`)

	tests := []struct {
		uri  string
		want bool
	}{
		{"file:///work/vendor/x.go", true},
		{"file:///work/main.go", false},
		{"output:extension-output-1", true},
	}
	for _, tt := range tests {
		w := ts.do(t, "GET", "/excluded?uri="+tt.uri, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got ExcludedResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, tt.want, got.Excluded, tt.uri)
	}
}

func TestGetExcluded_MissingURI(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, "GET", "/excluded", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFolders(t *testing.T) {
	ts := setupTestServer(t, "/work/a", "/work/b")

	w := ts.do(t, "GET", "/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var folders []types.WorkspaceFolder
	require.NoError(t, json.NewDecoder(w.Body).Decode(&folders))
	assert.Equal(t, []types.WorkspaceFolder{
		{URI: "file:///work/a", Name: "a"},
		{URI: "file:///work/b", Name: "b"},
	}, folders)
}

func TestGetFolders_Empty(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, "GET", "/folders", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestResetAndVersion(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, "GET", "/version", nil)
	assert.JSONEq(t, `{"version": 0}`, w.Body.String())

	w = ts.do(t, "POST", "/reset", nil)
	assert.JSONEq(t, `{"version": 1}`, w.Body.String())
	assert.Equal(t, uint64(1), ts.docs.Version())
}

func TestRegisterImport(t *testing.T) {
	ts := setupTestServer(t)
	ts.write(t, "/shared/cspell.json", `{"words": ["shared"]}`)

	w := ts.do(t, "POST", "/import", ImportRequest{Path: "/shared/cspell.json"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/shared/cspell.json"}, ts.watcher.files)

	w = ts.do(t, "GET", "/settings", nil)
	var got types.Settings
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, []string{"shared"}, got.Words)
}

func TestRegisterImport_Invalid(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, "POST", "/import", ImportRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("POST", "/import", bytes.NewReader([]byte("invalid json")))
	rec := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddWords(t *testing.T) {
	ts := setupTestServer(t, "/work")
	ts.write(t, "/work/cspell.json", `{"words": ["existing"]}`)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	before, err := ts.docs.URISettings(ctx, "file:///work/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"existing"}, before.Words)

	w := ts.do(t, "POST", "/words", AddWordsRequest{URI: "file:///work/a.txt", Words: []string{"existing", "fresh"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AddWordsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "/work/cspell.json", resp.Path)
	assert.Equal(t, []string{"fresh"}, resp.Added)

	after, err := ts.docs.URISettings(ctx, "file:///work/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"existing", "fresh"}, after.Words)
}

func TestAddWords_OutsideFolders(t *testing.T) {
	ts := setupTestServer(t, "/work")

	w := ts.do(t, "POST", "/words", AddWordsRequest{URI: "file:///tmp/a.txt", Words: []string{"x"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddWords_MissingFields(t *testing.T) {
	ts := setupTestServer(t, "/work")

	w := ts.do(t, "POST", "/words", AddWordsRequest{URI: "file:///work/a.txt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
