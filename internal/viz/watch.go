package viz

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/san-kum/blobmarch/internal/config"
)

// ReloadMsg carries a re-read config file, or the error that stopped it
// from loading.
type ReloadMsg struct {
	Config *config.Config
	Err    error
}

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path string
	w    *fsnotify.Watcher
}

// WatchConfig watches the directory holding path, since editors often
// replace files instead of writing them in place.
func WatchConfig(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{path: abs, w: w}, nil
}

func (w *Watcher) Path() string { return w.path }

// Next waits for the next change to the file. It returns nil once the
// watcher is closed.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(w.path)
				return ReloadMsg{Config: cfg, Err: err}
			case err, ok := <-w.w.Errors:
				if !ok {
					return nil
				}
				return ReloadMsg{Err: err}
			}
		}
	}
}

func (w *Watcher) Close() error { return w.w.Close() }
