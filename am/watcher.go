package am

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/umlconf/errors"
	"go.uber.org/zap"
)

// ChangeCallback is called once per debounced burst of changes with the
// input files that changed, sorted
type ChangeCallback func(changed []string) error

// InputWatcher watches the input files of a run and triggers callbacks when
// any of them is written, created or replaced
type InputWatcher struct {
	files          map[string]struct{}
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.Mutex
	pending        map[string]struct{}
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	logger         *zap.SugaredLogger
	done           chan struct{}
	stopOnce       sync.Once
}

// NewInputWatcher creates a watcher for paths. The parent directory of each
// path is watched so that editors replacing a file by rename are seen.
func NewInputWatcher(paths []string, debounce time.Duration, log *zap.SugaredLogger) (*InputWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files to watch")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	iw := &InputWatcher{
		files:          make(map[string]struct{}, len(paths)),
		watcher:        watcher,
		pending:        make(map[string]struct{}),
		debouncePeriod: debounce,
		logger:         log.Named("watch"),
		done:           make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		iw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	return iw, nil
}

// OnChange registers a callback
func (iw *InputWatcher) OnChange(callback ChangeCallback) {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	iw.callbacks = append(iw.callbacks, callback)
}

// Files returns the watched input files, sorted
func (iw *InputWatcher) Files() []string {
	files := make([]string, 0, len(iw.files))
	for f := range iw.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Start begins watching in a background goroutine
func (iw *InputWatcher) Start() {
	go iw.watchLoop()
}

func (iw *InputWatcher) watchLoop() {
	for {
		select {
		case <-iw.done:
			return

		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, tracked := iw.files[filepath.Clean(event.Name)]; !tracked {
				continue
			}

			iw.logger.Debugw("Input change detected",
				"file", event.Name,
				"op", event.Op.String())
			iw.schedule(filepath.Clean(event.Name))

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Warnw("Input watcher error", "error", err)
		}
	}
}

// schedule records a change and restarts the debounce timer
func (iw *InputWatcher) schedule(path string) {
	iw.mu.Lock()
	defer iw.mu.Unlock()

	iw.pending[path] = struct{}{}
	if iw.debounceTimer != nil {
		iw.debounceTimer.Stop()
	}
	iw.debounceTimer = time.AfterFunc(iw.debouncePeriod, iw.fire)
}

// fire drains pending changes and runs every callback. A failing callback
// is logged and does not stop the others.
func (iw *InputWatcher) fire() {
	iw.mu.Lock()
	changed := make([]string, 0, len(iw.pending))
	for p := range iw.pending {
		changed = append(changed, p)
	}
	iw.pending = make(map[string]struct{})
	callbacks := make([]ChangeCallback, len(iw.callbacks))
	copy(callbacks, iw.callbacks)
	iw.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	select {
	case <-iw.done:
		return
	default:
	}

	for _, callback := range callbacks {
		if err := callback(changed); err != nil {
			iw.logger.Warnw("Input change callback failed", "error", err)
		}
	}
}

// Stop stops watching. Pending changes are dropped.
func (iw *InputWatcher) Stop() error {
	var err error
	iw.stopOnce.Do(func() {
		close(iw.done)
		iw.mu.Lock()
		if iw.debounceTimer != nil {
			iw.debounceTimer.Stop()
		}
		iw.mu.Unlock()
		err = iw.watcher.Close()
	})
	return err
}
