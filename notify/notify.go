// Package notify provides change notification for configuration updates.
//
// The notify package implements an observer pattern that allows components
// to subscribe to property changes and receive callbacks when raw values
// are set, removed, or the whole store is reloaded from disk.
package notify

import (
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a property was set or updated.
	ChangeSet ChangeType = iota

	// ChangeRemove indicates a property was removed.
	ChangeRemove

	// ChangeReload indicates the entire store was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeRemove:
		return "remove"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents one configuration change event.
type Change struct {
	// Section is the section the change belongs to. Empty for reload events.
	Section string

	// Key is the property name within the section. Empty for reload events.
	Key string

	// Type is the type of change.
	Type ChangeType

	// Old is the previous raw value (empty for inserts).
	Old string

	// New is the new raw value (empty for removals).
	New string

	// Source identifies where the change came from.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	section  string
	observer Observer
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Global observers that receive all changes
	globalObservers map[uint64]Observer

	// Section-specific observers
	sectionObservers map[string]map[uint64]Observer

	// Next subscription ID
	nextID uint64

	// Whether to notify synchronously or asynchronously
	async bool

	// Buffer for async notifications
	buffer chan Change

	// Done channel for shutdown
	done chan struct{}

	// Wait group for async goroutine
	wg sync.WaitGroup

	// Closed flag for idempotent Close
	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous notification delivery.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		globalObservers:  make(map[uint64]Observer),
		sectionObservers: make(map[string]map[uint64]Observer),
		done:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{
		id:       id,
		observer: observer,
		notifier: n,
	}
}

// SubscribeSection registers an observer for changes within one section.
// The observer is called for every key in that section, and for reload
// events, which concern all sections.
func (n *Notifier) SubscribeSection(section string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.sectionObservers[section] == nil {
		n.sectionObservers[section] = make(map[uint64]Observer)
	}
	n.sectionObservers[section][id] = observer

	return &Subscription{
		id:       id,
		section:  section,
		observer: observer,
		notifier: n,
	}
}

// Notify sends a change notification to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliverChange(change)
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(section, key, old, new string, source string) {
	n.Notify(Change{
		Section: section,
		Key:     key,
		Type:    ChangeSet,
		Old:     old,
		New:     new,
		Source:  source,
	})
}

// NotifyRemove is a convenience method for removal changes.
func (n *Notifier) NotifyRemove(section, key, old string, source string) {
	n.Notify(Change{
		Section: section,
		Key:     key,
		Type:    ChangeRemove,
		Old:     old,
		Source:  source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Source: source,
	})
}

// Close shuts down the notifier. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.globalObservers, id)

	for section, observers := range n.sectionObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.sectionObservers, section)
		}
	}
}

// deliverChange sends a change to all matching observers.
func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()

	var observers []Observer

	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}

	if change.Section != "" {
		if sectionObs, ok := n.sectionObservers[change.Section]; ok {
			for _, obs := range sectionObs {
				observers = append(observers, obs)
			}
		}
	} else {
		// Reload event - every section observer is concerned
		for _, sectionObs := range n.sectionObservers {
			for _, obs := range sectionObs {
				observers = append(observers, obs)
			}
		}
	}

	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

// processAsync handles asynchronous notification delivery.
func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliverChange(change)
		case <-n.done:
			// Drain remaining buffered changes
			for {
				select {
				case change := <-n.buffer:
					n.deliverChange(change)
				default:
					return
				}
			}
		}
	}
}

// Batch collects multiple changes and delivers them as a group.
type Batch struct {
	notifier *Notifier
	changes  []Change
	mu       sync.Mutex
}

// NewBatch creates a new batch for collecting changes.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{
		notifier: n,
		changes:  make([]Change, 0),
	}
}

// Add adds a change to the batch.
func (b *Batch) Add(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
}

// Set adds a set change to the batch.
func (b *Batch) Set(section, key, old, new string, source string) {
	b.Add(Change{
		Section: section,
		Key:     key,
		Type:    ChangeSet,
		Old:     old,
		New:     new,
		Source:  source,
	})
}

// Remove adds a removal change to the batch.
func (b *Batch) Remove(section, key, old string, source string) {
	b.Add(Change{
		Section: section,
		Key:     key,
		Type:    ChangeRemove,
		Old:     old,
		Source:  source,
	})
}

// Commit sends all batched changes to observers.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = make([]Change, 0)
	b.mu.Unlock()

	for _, change := range changes {
		b.notifier.Notify(change)
	}
}

// Discard clears the batch without sending notifications.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = make([]Change, 0)
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}
