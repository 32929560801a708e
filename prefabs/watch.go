package prefabs

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay quiet before its change is sent.
const settleDelay = 100 * time.Millisecond

const pathOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Change is an edit that may alter a character's takeoff path.
type Change struct {
	File string
	// Script is set for path scripts, unset for the character prefab itself.
	Script bool
}

// PathWatcher follows one character prefab and the path scripts next to it.
// Edits are held until the file settles, so an editor's save burst becomes a
// single Change.
type PathWatcher struct {
	fs      *fsnotify.Watcher
	prefab  string
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewPathWatcher watches dir for edits to the prefab named prefab and
// dir/scripts, when present, for script edits.
func NewPathWatcher(dir, prefab string) (*PathWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}
	_ = fs.Add(filepath.Join(dir, "scripts"))

	w := &PathWatcher{
		fs:      fs,
		prefab:  filepath.Base(cleanPrefabPath(prefab)),
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *PathWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *PathWatcher) run() {
	defer close(w.done)

	pending := make(map[string]Change)
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&pathOps == 0 {
				continue
			}
			change, ok := w.classify(event.Name)
			if !ok {
				continue
			}
			pending[change.File] = change
			settle.Reset(settleDelay)
		case <-settle.C:
			for _, name := range slices.Sorted(maps.Keys(pending)) {
				select {
				case w.Changes <- pending[name]:
				case <-w.closeCh:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *PathWatcher) classify(name string) (Change, bool) {
	switch {
	case IsScriptFile(name):
		return Change{File: name, Script: true}, true
	case filepath.Base(name) == w.prefab:
		return Change{File: name}, true
	}
	return Change{}, false
}

func IsScriptFile(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".tengo")
}
