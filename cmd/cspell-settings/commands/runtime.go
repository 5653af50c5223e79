package commands

import (
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/internal/host"
	"github.com/werunom/vscode-spell-checker/internal/settings"
)

// runtime wires the settings services for one command invocation.
type runtime struct {
	fs        afero.Fs
	workspace *host.Workspace
	docs      *settings.DocumentSettings
	bus       *event.Bus
	roots     []string
	imports   []string
}

func newRuntime() (*runtime, error) {
	roots := folders
	if len(roots) == 0 {
		wd, err := GetWorkDir("")
		if err != nil {
			return nil, err
		}
		roots = []string{wd}
	}

	fs := afero.NewOsFs()
	ws := host.NewWorkspace(fs, userSettings, roots...)
	bus := event.NewBus()
	docs := settings.NewDocumentSettings(settings.Options{
		Reader:        config.NewReader(fs),
		Folders:       ws,
		Configuration: ws,
		Bus:           bus,
	})

	var registered []string
	for _, imp := range imports {
		abs, err := filepath.Abs(imp)
		if err != nil {
			return nil, err
		}
		docs.RegisterConfigurationFile(abs)
		registered = append(registered, abs)
	}

	return &runtime{
		fs:        fs,
		workspace: ws,
		docs:      docs,
		bus:       bus,
		roots:     ws.Roots(),
		imports:   registered,
	}, nil
}

func (rt *runtime) Close() {
	rt.bus.Close()
}

// toURI turns a command line argument into a document URI.
// Arguments that already carry a scheme are kept; anything else is a file path.
func toURI(arg string) (string, error) {
	if u, err := url.Parse(arg); err == nil && len(u.Scheme) > 1 {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	return host.FileURI(abs), nil
}
