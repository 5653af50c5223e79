// Package watcher resets cached settings when settings files change on disk.
package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/werunom/vscode-spell-checker/internal/config"
	"github.com/werunom/vscode-spell-checker/internal/event"
	"github.com/werunom/vscode-spell-checker/internal/logging"
)

// DefaultDebounce is how long the watcher waits for further changes before resetting.
const DefaultDebounce = 200 * time.Millisecond

// Resetter discards cached settings.
type Resetter interface {
	ResetSettings()
}

// Options configures a Watcher.
type Options struct {
	// Roots are workspace folder roots. Their settings files, and those in their
	// .vscode directories, are watched.
	Roots []string
	// Files are watched individually, e.g. imported settings and the user settings file.
	Files []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Bus receives a config.changed event after every reset. Optional.
	Bus *event.Bus
}

// Watcher watches settings files and calls ResetSettings after they change.
// Bursts of changes within the debounce window cause a single reset.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   Resetter
	bus      *event.Bus
	debounce time.Duration

	mu      sync.RWMutex
	roots   map[string]bool
	files   map[string]bool
	started bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a Watcher for target. Directories that do not exist are skipped.
func New(target Resetter, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		target:   target,
		bus:      opts.Bus,
		debounce: opts.Debounce,
		roots:    make(map[string]bool),
		files:    make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	for _, root := range opts.Roots {
		root = filepath.Clean(root)
		w.roots[root] = true
		w.watchDir(root)
		w.watchDir(filepath.Join(root, config.EditorDir))
	}
	for _, file := range opts.Files {
		w.AddFile(file)
	}

	logging.Info().
		Int("roots", len(opts.Roots)).
		Int("files", len(opts.Files)).
		Msg("settings watcher initialized")
	return w, nil
}

// AddFile starts watching a single file, such as a newly registered import.
func (w *Watcher) AddFile(path string) {
	path = filepath.Clean(path)
	w.mu.Lock()
	w.files[path] = true
	w.mu.Unlock()
	w.watchDir(filepath.Dir(path))
}

func (w *Watcher) watchDir(dir string) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		logging.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
	}
}

// Start begins watching for changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := make(map[string]bool)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.isEditorDirCreated(ev) {
				w.watchDir(ev.Name)
				continue
			}
			if !w.isRelevant(ev) {
				continue
			}
			logging.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("settings file changed")
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.flush(pending)
			pending = make(map[string]bool)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error().Err(err).Msg("settings watcher error")
		}
	}
}

func (w *Watcher) flush(pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	logging.Info().Strs("paths", paths).Msg("settings files changed, resetting")
	w.target.ResetSettings()

	if w.bus != nil {
		w.bus.PublishSync(event.Event{
			Type: event.ConfigChanged,
			Data: event.ConfigChangedData{Paths: paths},
		})
	}
}

// isRelevant reports whether ev touches a watched settings file.
func (w *Watcher) isRelevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	name := filepath.Clean(ev.Name)
	dir, base := filepath.Split(name)
	dir = filepath.Clean(dir)

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.files[name] {
		return true
	}
	if w.roots[dir] && config.IsSettingsFileName(base) {
		return true
	}
	if filepath.Base(dir) == config.EditorDir && w.roots[filepath.Dir(dir)] {
		return config.IsSettingsFileName(base) || base == config.EditorSettingsFileName
	}
	return false
}

// isEditorDirCreated reports whether ev creates a root's .vscode directory.
func (w *Watcher) isEditorDirCreated(ev fsnotify.Event) bool {
	if ev.Op&fsnotify.Create == 0 || filepath.Base(ev.Name) != config.EditorDir {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.roots[filepath.Dir(filepath.Clean(ev.Name))]
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}
