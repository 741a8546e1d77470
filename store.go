package inigo

import (
	"fmt"
	"sort"

	"github.com/dshills/inigo/codec"
	"github.com/dshills/inigo/convert"
	"github.com/dshills/inigo/notify"
	"github.com/dshills/inigo/schema"
)

// Store owns the raw property table and the materialized section
// instances. It is the single configuration context: construct one at
// startup, Load it, hand it to whichever components need it.
//
// The store itself is not synchronized. Every operation runs to completion
// before returning; concurrent use must be serialized by the caller. The
// notifier and the watch package manage their own goroutines.
type Store struct {
	table     *codec.Table
	entries   []*entry
	source    Source
	log       *Logger
	notifier  *notify.Notifier
	envPrefix string
}

// Option configures a Store.
type Option func(*Store)

// WithSource sets the file source for Load, Save, and Reload.
func WithSource(src Source) Option {
	return func(s *Store) {
		s.source = src
	}
}

// WithLogger sets the diagnostic logger. The default is NullLogger.
func WithLogger(l *Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEnvOverrides applies PREFIX_SECTION_KEY environment variables on top
// of the loaded files, the highest-precedence layer.
func WithEnvOverrides(prefix string) Option {
	return func(s *Store) {
		s.envPrefix = prefix
	}
}

// WithNotifier replaces the default synchronous notifier, for example with
// notify.New(notify.WithAsync(64)).
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// New creates an empty store. Call Load to populate it from the source.
func New(opts ...Option) *Store {
	s := &Store{
		table: codec.NewTable(),
		log:   NullLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.New()
	}
	return s
}

// Load reads the defaults document and then the main document into a fresh
// table, main entries overriding defaults, and applies environment
// overrides on top. A missing document is informational, not an error.
// Load replaces the raw table but does not touch materialized sections;
// use Reload to re-populate them as well.
func (s *Store) Load() error {
	if s.source == nil {
		return ErrNoSource
	}
	log := s.log.WithComponent("store")

	table := codec.NewTable()

	defaults, err := s.source.ReadDefaults()
	if err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}
	if defaults == nil {
		log.Info("defaults document absent, skipping")
	} else {
		table.Merge(string(defaults))
	}

	main, err := s.source.ReadMain()
	if err != nil {
		return fmt.Errorf("loading main document: %w", err)
	}
	if main == nil {
		log.Info("main document absent, starting empty")
	} else {
		table.Merge(string(main))
	}

	if s.envPrefix != "" {
		for _, o := range envOverrides(s.envPrefix) {
			table.Set(o.Section, o.Key, o.Value)
			log.Debug("env override %s.%s", o.Section, o.Key)
		}
	}

	s.table = table
	log.Debug("loaded %d properties in %d sections", table.Len(), len(table.Sections()))
	return nil
}

// Reload re-reads both documents, re-populates every materialized section
// in place through its bindings, recomputes dirty flags, and notifies
// observers: one set or remove per changed raw property, then a reload
// event.
func (s *Store) Reload() error {
	before := s.table.Snapshot()
	if err := s.Load(); err != nil {
		return err
	}
	for _, e := range s.entries {
		s.populate(e)
	}
	s.notifyDiff(before, s.table.Snapshot())
	s.notifier.NotifyReload("reload")
	return nil
}

// Save renders every materialized section in materialization order, fields
// read live through their bindings, appends unclaimed raw sections
// verbatim, and writes the whole text to the main document. On success
// every dirty flag clears.
func (s *Store) Save() error {
	if s.source == nil {
		return ErrNoSource
	}
	if err := s.source.WriteMain([]byte(s.Render())); err != nil {
		return fmt.Errorf("saving: %w", err)
	}
	for _, e := range s.entries {
		e.dirty = false
	}
	s.log.WithComponent("store").Debug("saved %d sections", len(s.entries))
	return nil
}

// Render returns the text Save would write, without writing it or clearing
// dirty flags.
func (s *Store) Render() string {
	blocks := make([]codec.Block, 0, len(s.entries))
	for _, e := range s.entries {
		blocks = append(blocks, s.renderEntry(e))
	}
	return codec.Serialize(blocks, s.table)
}

// renderEntry reads an entry's current field values through the bindings
// and renders them as a codec block. Map entries emit in sorted key order.
// A value that fails to render is logged and emitted empty.
func (s *Store) renderEntry(e *entry) codec.Block {
	log := s.log.WithComponent("store").WithField("section", e.name)
	blk := codec.Block{Name: e.name, Description: e.info.Description}

	for i := range e.info.Fields {
		f := &e.info.Fields[i]
		fb := codec.FieldBlock{Description: f.Description}
		v := f.Get()

		if f.Type.Kind == schema.KindMap {
			if m, ok := v.(map[string]any); ok {
				keys := make([]string, 0, len(m))
				for k := range m {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					text, err := convert.Text(*f.Type.Elem, m[k])
					if err != nil {
						log.Warn("render %s.%s: %v", f.Name, k, err)
						continue
					}
					fb.Lines = append(fb.Lines, codec.Line{Key: f.Name + "." + k, Value: text})
				}
			}
		} else {
			text, err := convert.Text(f.Type, v)
			if err != nil {
				log.Warn("render %s: %v", f.Name, err)
				text = ""
			}
			fb.Lines = append(fb.Lines, codec.Line{Key: f.Name, Value: text})
		}

		blk.Fields = append(blk.Fields, fb)
	}
	return blk
}

// notifyDiff emits one change per raw property that differs between two
// snapshots.
func (s *Store) notifyDiff(before, after map[string]map[string]string) {
	batch := s.notifier.NewBatch()
	for section, keys := range after {
		for key, newVal := range keys {
			oldVal, had := before[section][key]
			switch {
			case !had:
				batch.Set(section, key, "", newVal, "reload")
			case oldVal != newVal:
				batch.Set(section, key, oldVal, newVal, "reload")
			}
		}
	}
	for section, keys := range before {
		for key, oldVal := range keys {
			if _, still := after[section][key]; !still {
				batch.Remove(section, key, oldVal, "reload")
			}
		}
	}
	batch.Commit()
}

// Subscribe registers an observer for every change.
func (s *Store) Subscribe(observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer)
}

// SubscribeSection registers an observer for one section's changes and for
// reload events.
func (s *Store) SubscribeSection(section string, observer notify.Observer) *notify.Subscription {
	return s.notifier.SubscribeSection(section, observer)
}

// Close shuts down the notifier. The store remains readable afterwards;
// further changes simply stop notifying.
func (s *Store) Close() {
	s.notifier.Close()
}

// Dirty reports whether any materialized section needed a default instead
// of explicit persisted text since the last Save.
func (s *Store) Dirty() bool {
	for _, e := range s.entries {
		if e.dirty {
			return true
		}
	}
	return false
}

// DirtySections returns the names of dirty sections in materialization
// order.
func (s *Store) DirtySections() []string {
	var out []string
	for _, e := range s.entries {
		if e.dirty {
			out = append(out, e.name)
		}
	}
	return out
}
