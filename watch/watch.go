// Package watch delivers debounced change events for configuration
// documents.
//
// Editors and atomic-save tools replace files by writing a sibling and
// renaming it over the target, which breaks watches placed on the file
// itself. The watcher therefore watches parent directories and filters
// events down to the registered files, coalescing the write/create/rename
// bursts a single save produces into one event per file.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change observed on a file.
type Op int

const (
	// OpWrite indicates the file content changed.
	OpWrite Op = iota

	// OpCreate indicates the file appeared.
	OpCreate

	// OpRemove indicates the file disappeared.
	OpRemove
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is one debounced file change.
type Event struct {
	// Path is the absolute path of the registered file.
	Path string

	// Op is the coalesced operation of the burst: a trailing remove wins,
	// a create after a remove reads as the file being replaced, and a
	// write following a create stays a create.
	Op Op

	// Time is when the last raw event of the burst arrived.
	Time time.Time
}

// Errors returned by watcher operations.
var (
	// ErrWatcherClosed indicates use after Close.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrNotWatching indicates an Unwatch for an unregistered path.
	ErrNotWatching = errors.New("path not watched")
)

// pending is one file's debounce window.
type pending struct {
	event Event
	timer *time.Timer
}

// Watcher monitors registered files through their parent directories and
// emits one debounced Event per change burst.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]int
	pending map[string]*pending

	debounce time.Duration
	events   chan Event
	errors   chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before an event fires. Zero disables
// debouncing and forwards raw events as they arrive.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithBuffer sets the event and error channel capacity.
func WithBuffer(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.events = make(chan Event, n)
			w.errors = make(chan error, n)
		}
	}
}

// New creates a watcher. The default debounce is 100ms with a 16-event
// buffer.
func New(opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		pending:  make(map[string]*pending),
		debounce: 100 * time.Millisecond,
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch registers a file. The file itself may not exist yet; its parent
// directory must. Registering an already-registered file is a no-op.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch removes a file registration. The parent directory watch is
// released when its last registered file goes.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[abs] {
		return ErrNotWatching
	}
	delete(w.files, abs)
	if p, ok := w.pending[abs]; ok {
		p.timer.Stop()
		delete(w.pending, abs)
	}

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			return err
		}
	}
	return nil
}

// IsWatching reports whether the path is registered.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Watching returns the registered file paths.
func (w *Watcher) Watching() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

// Events returns the debounced event channel. It closes after Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It closes after Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Flush fires every pending event immediately.
func (w *Watcher) Flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path, p := range w.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	w.mu.Unlock()

	for _, path := range paths {
		w.fire(path)
	}
}

// Close stops the watcher, drops pending events, and closes both channels.
// Close is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return err
}

// processLoop drains the fsnotify channels until Close.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handle filters a raw directory event down to registered files and starts
// or extends the file's debounce window.
func (w *Watcher) handle(ev fsnotify.Event) {
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[abs] {
		return
	}

	event := Event{Path: abs, Op: op, Time: time.Now()}
	if w.debounce == 0 {
		w.send(event)
		return
	}

	if p, exists := w.pending[abs]; exists {
		p.event.Op = coalesce(p.event.Op, op)
		p.event.Time = event.Time
		p.timer.Reset(w.debounce)
		return
	}
	p := &pending{event: event}
	p.timer = time.AfterFunc(w.debounce, func() {
		w.fire(abs)
	})
	w.pending[abs] = p
}

// fire delivers a pending event. Sending under the mutex keeps Close from
// closing the channel mid-send.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	p, exists := w.pending[path]
	if !exists {
		return
	}
	delete(w.pending, path)
	w.send(p.event)
}

// send emits an event without blocking, dropping it when the buffer is
// full. Callers hold w.mu.
func (w *Watcher) send(event Event) {
	select {
	case w.events <- event:
	default:
	}
}

// sendError emits an error without blocking.
func (w *Watcher) sendError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// convertOp maps an fsnotify operation. Chmod-only events are noise for
// configuration reload and drop here.
func convertOp(fsOp fsnotify.Op) (Op, bool) {
	switch {
	case fsOp.Has(fsnotify.Remove) || fsOp.Has(fsnotify.Rename):
		return OpRemove, true
	case fsOp.Has(fsnotify.Create):
		return OpCreate, true
	case fsOp.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// coalesce merges two operations in one debounce window, old first. The
// newer operation decides the file's final state: a trailing remove is a
// remove, activity after a remove means the file was replaced, and writes
// inside a create burst stay a create.
func coalesce(prev, next Op) Op {
	switch {
	case next == OpRemove:
		return OpRemove
	case prev == OpRemove:
		return next
	case prev == OpCreate:
		return OpCreate
	default:
		return next
	}
}
