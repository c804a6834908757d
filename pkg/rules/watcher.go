package rules

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sqlxlate/sqlxlate/pkg/dialect"
	"github.com/sqlxlate/sqlxlate/pkg/log"
)

// Watcher watches a single pattern table CSV file and recompiles it on
// change, publishing new RuleSets through an atomic.Pointer so readers
// never observe a half-updated table (spec.md §6: "the rule table is
// hot-reloadable; readers never block on a reload in progress").
//
// Adapted from the teacher's procedure.Watcher (a directory-tree,
// debounced fsnotify watcher over many files with per-file reload
// callbacks): generalized here to one file and one reload target, an
// *atomic.Pointer[RuleSet], since a pattern table is a single unit of
// compilation rather than per-file procedures.
type Watcher struct {
	mu sync.Mutex

	path    string
	source  dialect.Dialect
	logger  *log.Logger
	current *atomic.Pointer[RuleSet]

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}

	debounceDelay time.Duration
	eventTimer    *time.Timer

	onReload func(rs *RuleSet)
	onError  func(err error)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for batching file-write
// events. Default is 100ms.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounceDelay = d }
}

// WithOnReload sets a callback invoked after each successful reload.
func WithOnReload(fn func(rs *RuleSet)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// WithOnError sets a callback invoked when a reload fails; the previously
// published RuleSet remains current.
func WithOnError(fn func(err error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher creates a watcher for path, publishing compiled RuleSets into
// current. current must already hold an initial value (e.g. the result of
// an initial Load) before Start is called.
func NewWatcher(path string, source dialect.Dialect, current *atomic.Pointer[RuleSet], logger *log.Logger, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          path,
		source:        source,
		logger:        logger,
		current:       current,
		fsWatcher:     fsw,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		debounceDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching for changes. It returns once the watch is
// installed; event processing runs in a background goroutine.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.path); err != nil {
		return err
	}

	w.logger.Loader().Info("pattern table watcher started", "path", w.path)

	go w.processEvents()
	return nil
}

// Stop stops the watcher and releases its fsnotify handle.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	w.logger.Loader().Info("pattern table watcher stopped")
	return w.fsWatcher.Close()
}

func (w *Watcher) processEvents() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			w.mu.Lock()
			if w.eventTimer != nil {
				w.eventTimer.Stop()
			}
			w.mu.Unlock()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Loader().Error("pattern table watcher error", err)
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.eventTimer != nil {
		w.eventTimer.Stop()
	}
	w.eventTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	rs, err := Load(w.path, w.source)
	if err != nil {
		w.logger.Loader().Error("pattern table reload failed", err, "path", w.path)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.current.Store(rs)
	w.logger.Loader().Info("pattern table reloaded", "path", w.path, "rules", rs.String())

	if w.onReload != nil {
		w.onReload(rs)
	}
}
