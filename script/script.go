// Package script exposes a configuration store to embedded Lua.
//
// Register installs a "config" module into an LState; scripts load it with
// require("config") and read, write, and watch raw properties. gopher-lua
// states are not goroutine-safe: keep the LState and every store mutation
// that can fire a watch callback on the same goroutine, and leave the
// store's notifier synchronous.
package script

import (
	"fmt"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inigo"
	"github.com/dshills/inigo/notify"
)

// handlerKey names the global table that pins watch handlers against
// garbage collection.
const handlerKey = "_inigo_config_handlers"

// Module bridges one Store into one Lua state.
type Module struct {
	store *inigo.Store

	mu       sync.Mutex
	L        *lua.LState
	handlers *lua.LTable
	subs     map[string]*notify.Subscription
	nextID   uint64
}

// NewModule creates a module over the store. Call Register before running
// scripts and Close when the state is done.
func NewModule(store *inigo.Store) *Module {
	return &Module{
		store: store,
		subs:  make(map[string]*notify.Subscription),
	}
}

// Register preloads the "config" module into the state.
func (m *Module) Register(L *lua.LState) {
	m.mu.Lock()
	m.L = L
	m.handlers = L.NewTable()
	L.SetGlobal(handlerKey, m.handlers)
	m.mu.Unlock()

	L.PreloadModule("config", m.loader)
}

// Close drops every watch subscription and handler reference. The module
// cannot be reused afterwards.
func (m *Module) Close() {
	m.mu.Lock()
	subs := make([]*notify.Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.subs = make(map[string]*notify.Subscription)
	if m.L != nil {
		m.L.SetGlobal(handlerKey, lua.LNil)
	}
	m.L = nil
	m.handlers = nil
	m.mu.Unlock()

	// Unsubscribe outside the lock; a synchronous notifier may be
	// mid-delivery on another goroutine.
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// loader builds the module table.
func (m *Module) loader(L *lua.LState) int {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "getbool", L.NewFunction(m.getbool))
	L.SetField(mod, "getint", L.NewFunction(m.getint))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "change", L.NewFunction(m.change))
	L.SetField(mod, "has", L.NewFunction(m.has))
	L.SetField(mod, "sections", L.NewFunction(m.sections))
	L.SetField(mod, "keys", L.NewFunction(m.keys))
	L.SetField(mod, "watch", L.NewFunction(m.watch))
	L.SetField(mod, "unwatch", L.NewFunction(m.unwatch))
	L.SetField(mod, "save", L.NewFunction(m.save))
	L.Push(mod)
	return 1
}

// get(section, key) -> string or nil
func (m *Module) get(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)

	v, ok := m.store.GetProperty(section, key)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

// getbool(section, key) -> bool, or nil and an error message
func (m *Module) getbool(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)

	v, err := m.store.GetBool(section, key)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LBool(v))
	return 1
}

// getint(section, key) -> number, or nil and an error message
func (m *Module) getint(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)

	v, err := m.store.GetInt(section, key)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(v))
	return 1
}

// set(section, key, value) -> true
// Inserts or overwrites raw text.
func (m *Module) set(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)
	value := L.CheckString(3)

	if section == "" {
		L.ArgError(1, "section cannot be empty")
		return 0
	}
	if key == "" {
		L.ArgError(2, "key cannot be empty")
		return 0
	}

	m.store.SetProperty(section, key, value)
	L.Push(lua.LTrue)
	return 1
}

// change(section, key, value) -> bool
// Overwrites only when the property already exists.
func (m *Module) change(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)
	value := L.CheckString(3)

	L.Push(lua.LBool(m.store.ChangeProperty(section, key, value)))
	return 1
}

// has(section, key) -> bool
func (m *Module) has(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)

	L.Push(lua.LBool(m.store.HasProperty(section, key)))
	return 1
}

// sections() -> {names}
func (m *Module) sections(L *lua.LState) int {
	tbl := L.NewTable()
	for i, name := range m.store.Sections() {
		tbl.RawSetInt(i+1, lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

// keys(section) -> {names}
func (m *Module) keys(L *lua.LState) int {
	section := L.CheckString(1)

	tbl := L.NewTable()
	for i, key := range m.store.Keys(section) {
		tbl.RawSetInt(i+1, lua.LString(key))
	}
	L.Push(tbl)
	return 1
}

// watch(section, handler) -> id
// The handler receives (key, old, new) for sets and removes in the
// section; a reload passes three nils. An empty section watches every
// change in the store.
func (m *Module) watch(L *lua.LState) int {
	section := L.CheckString(1)
	handler := L.CheckFunction(2)

	id := fmt.Sprintf("cfg_%d", atomic.AddUint64(&m.nextID, 1))
	callback := m.callback(id)

	var sub *notify.Subscription
	if section == "" {
		sub = m.store.Subscribe(callback)
	} else {
		sub = m.store.SubscribeSection(section, callback)
	}

	m.mu.Lock()
	if m.handlers != nil {
		m.handlers.RawSetString(id, handler)
	}
	m.subs[id] = sub
	m.mu.Unlock()

	L.Push(lua.LString(id))
	return 1
}

// unwatch(id) -> bool
func (m *Module) unwatch(L *lua.LState) int {
	id := L.CheckString(1)

	m.mu.Lock()
	sub, exists := m.subs[id]
	if !exists {
		m.mu.Unlock()
		L.Push(lua.LFalse)
		return 1
	}
	delete(m.subs, id)
	if m.handlers != nil {
		m.handlers.RawSetString(id, lua.LNil)
	}
	m.mu.Unlock()

	sub.Unsubscribe()
	L.Push(lua.LTrue)
	return 1
}

// save() -> true, or false and an error message
func (m *Module) save(L *lua.LState) int {
	if err := m.store.Save(); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// callback builds the Go observer that invokes the Lua handler stored
// under id. Handler errors are swallowed; a broken watcher must not take
// the host down.
func (m *Module) callback(id string) notify.Observer {
	return func(c notify.Change) {
		m.mu.Lock()
		L := m.L
		handlers := m.handlers
		m.mu.Unlock()

		if L == nil || handlers == nil {
			return
		}
		handler := L.GetField(handlers, id)
		if handler.Type() != lua.LTFunction {
			return
		}

		L.Push(handler)
		if c.Type == notify.ChangeReload {
			L.Push(lua.LNil)
			L.Push(lua.LNil)
			L.Push(lua.LNil)
		} else {
			L.Push(lua.LString(c.Key))
			L.Push(lua.LString(c.Old))
			L.Push(lua.LString(c.New))
		}
		_ = L.PCall(3, 0, nil)
	}
}
