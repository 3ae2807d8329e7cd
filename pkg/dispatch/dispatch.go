// Package dispatch implements the generic opcode channel between host and
// plugin.
//
// Both sides expose a Dispatcher. Opcodes travel as interned tokens so
// either side can add extension opcodes without changing the signature; an
// opcode the receiver does not know returns 0, which callers read as
// "unsupported".
package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/justyntemme/nativeplug/pkg/framework/debug"
	"github.com/justyntemme/nativeplug/pkg/intern"
)

// Dispatcher receives opcodes.
type Dispatcher interface {
	Dispatch(op intern.Token, index int32, value int64, ptr any, opt float32) int64
}

// Func adapts a function to Dispatcher.
type Func func(op intern.Token, index int32, value int64, ptr any, opt float32) int64

// Dispatch calls f.
func (f Func) Dispatch(op intern.Token, index int32, value int64, ptr any, opt float32) int64 {
	return f(op, index, value, ptr, opt)
}

// Handler handles one opcode.
type Handler func(index int32, value int64, ptr any, opt float32) int64

// Table is a Dispatcher built from per-opcode handlers. Handlers are
// registered during setup; Dispatch only reads.
type Table struct {
	mu          sync.RWMutex
	handlers    map[intern.Token]Handler
	unsupported atomic.Uint64
	panics      atomic.Uint64
	log         *debug.Logger
}

// NewTable creates an empty table. A nil logger uses the default logger.
func NewTable(log *debug.Logger) *Table {
	if log == nil {
		log = debug.Default()
	}
	return &Table{handlers: make(map[intern.Token]Handler), log: log}
}

// Handle registers h for op, replacing any previous handler.
func (t *Table) Handle(op intern.Token, h Handler) {
	if op == intern.Undefined || h == nil {
		return
	}
	t.mu.Lock()
	t.handlers[op] = h
	t.mu.Unlock()
}

// Supports reports whether op has a handler.
func (t *Table) Supports(op intern.Token) bool {
	t.mu.RLock()
	_, ok := t.handlers[op]
	t.mu.RUnlock()
	return ok
}

// Dispatch runs the handler for op. Unknown opcodes and handler panics
// return 0.
func (t *Table) Dispatch(op intern.Token, index int32, value int64, ptr any, opt float32) (ret int64) {
	t.mu.RLock()
	h, ok := t.handlers[op]
	t.mu.RUnlock()
	if !ok {
		t.unsupported.Add(1)
		return 0
	}

	defer func() {
		if r := recover(); r != nil {
			t.panics.Add(1)
			t.log.Error("dispatch: handler for opcode %d panicked: %v", op, r)
			ret = 0
		}
	}()
	return h(index, value, ptr, opt)
}

// Unsupported returns how many dispatches hit an unknown opcode.
func (t *Table) Unsupported() uint64 {
	return t.unsupported.Load()
}

// Panics returns how many handlers panicked.
func (t *Table) Panics() uint64 {
	return t.panics.Load()
}
