package config

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// ChangeCallback is called with the watched paths that changed since the
// previous call, sorted.
type ChangeCallback func(changed []string)

// Watcher watches a set of files (the IR document and config files) and
// reports changes after a quiet period.
//
// Directories are watched rather than the files themselves so that editors
// which replace a file by renaming a temporary one are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration

	mu        sync.Mutex
	callbacks []ChangeCallback
	pending   map[string]bool
	timer     *time.Timer
	done      chan struct{}
}

// NewWatcher creates a watcher for paths. Paths that do not exist yet are
// watched through their parent directory.
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.MarkInvalidConfig("nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool, len(paths)),
		debounce: debounce,
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// OnChange registers a callback
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching in a background goroutine
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching; pending changes are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	log := logger.ComponentLogger("config.watcher")
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] || isBackupFile(name) {
				continue
			}
			log.Debugw("detected change",
				logger.FieldFile, name,
				"op", event.Op.String())
			w.schedule(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("watch error", logger.FieldError, err)
		}
	}
}

// schedule restarts the debounce timer
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]bool)
	callbacks := append([]ChangeCallback(nil), w.callbacks...)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	for _, cb := range callbacks {
		cb(changed)
	}
}

var backupPattern = regexp.MustCompile(`\.back[0-9]+$`)

// isBackupFile checks if the file is a rotated backup written by Save
func isBackupFile(path string) bool {
	return backupPattern.MatchString(path)
}

func backupPath(path string, n int) string {
	return path + ".back" + strconv.Itoa(n)
}
