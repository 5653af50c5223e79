package testutil

import (
	"net/http/httptest"
	"time"

	"github.com/spf13/afero"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/server"
	"github.com/werunom/vscode-spell-checker/internal/settings"
	"github.com/werunom/vscode-spell-checker/internal/watcher"
)

// TestServer runs the settings API over real workspace folders.
type TestServer struct {
	BaseURL string
	Docs    *settings.DocumentSettings
	Bus     *event.Bus

	http    *httptest.Server
	watcher *watcher.Watcher
}

// StartTestServer serves the given folder roots. userSettings may be empty.
func StartTestServer(userSettings string, roots ...string) (*TestServer, error) {
	fs := afero.NewOsFs()
	ws := host.NewWorkspace(fs, userSettings, roots...)
	bus := event.NewBus()
	docs := settings.NewDocumentSettings(settings.Options{
		Reader:        config.NewReader(fs),
		Folders:       ws,
		Configuration: ws,
		Bus:           bus,
	})

	w, err := watcher.New(docs, watcher.Options{
		Roots:    ws.Roots(),
		Debounce: 50 * time.Millisecond,
		Bus:      bus,
	})
	if err != nil {
		bus.Close()
		return nil, err
	}
	w.Start()

	srv := server.New(nil, server.Deps{
		Settings:  docs,
		Workspace: ws,
		Fs:        fs,
		Bus:       bus,
		Watcher:   w,
	})
	ts := httptest.NewServer(srv.Router())

	return &TestServer{
		BaseURL: ts.URL,
		Docs:    docs,
		Bus:     bus,
		http:    ts,
		watcher: w,
	}, nil
}

// Stop shuts the server down. Open SSE clients must be closed first.
func (ts *TestServer) Stop() {
	ts.http.Close()
	ts.watcher.Stop()
	ts.Bus.Close()
}

// Client returns an HTTP client for the server.
func (ts *TestServer) Client() *TestClient {
	return NewTestClient(ts.BaseURL)
}

// SSEClient returns an SSE client for the server.
func (ts *TestServer) SSEClient() *SSEClient {
	return NewSSEClient(ts.BaseURL)
}
