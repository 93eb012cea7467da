// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arena

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// DefaultBudget is the byte budget used when New is given a non-positive size.
	DefaultBudget = 1 << 20
	// minChunkLen is the smallest number of elements a slab chunk holds.
	minChunkLen = 64
)

// ErrSealed is the panic value raised when allocating from a sealed arena.
var ErrSealed = errors.New("arena: allocation from a sealed arena")

// Destroyer is implemented by values that own something that must be released
// when the arena is reset.
type Destroyer interface {
	Destroy()
}

// Stats describes arena usage since the last Reset.
type Stats struct {
	Budget    int
	Used      int
	HighWater int
	Overflows int
	Pending   int // destructors and deferred callbacks waiting for Reset
	Resets    int
}

// Arena is a bump allocator for per-frame data.
type Arena struct {
	budget    int
	used      int
	highWater int
	overflows int
	resets    int
	sealed    bool

	slabs map[reflect.Type]resetter
	order []resetter
	stack []func()
}

// New creates an arena with the given byte budget.
func New(budget int) *Arena {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Arena{
		budget: budget,
		slabs:  make(map[reflect.Type]resetter),
	}
}

// Seal forbids further allocation until Unseal or Reset.
func (a *Arena) Seal() { a.sealed = true }

// Unseal allows allocation again.
func (a *Arena) Unseal() { a.sealed = false }

// Sealed reports whether allocation is currently forbidden.
func (a *Arena) Sealed() bool { return a.sealed }

// Defer registers fn to run when the arena is reset. Deferred callbacks and
// Destroyer values unwind together in reverse registration order.
func (a *Arena) Defer(fn func()) {
	a.mustBeOpen()
	if fn == nil {
		return
	}
	a.stack = append(a.stack, fn)
}

// Reset unwinds the destructor stack in LIFO order and rewinds every slab so
// the memory can be reused by the next frame.
func (a *Arena) Reset() {
	a.unwind()
	for _, s := range a.order {
		s.reset()
	}
	if a.used > a.highWater {
		a.highWater = a.used
	}
	a.used = 0
	a.overflows = 0
	a.sealed = false
	a.resets++
}

// Release unwinds pending destructors and drops every slab. The arena stays
// usable afterwards but starts from empty chunks.
func (a *Arena) Release() {
	a.Reset()
	a.slabs = make(map[reflect.Type]resetter)
	a.order = nil
}

// Stats returns a snapshot of the arena's bookkeeping.
func (a *Arena) Stats() Stats {
	hw := a.highWater
	if a.used > hw {
		hw = a.used
	}
	return Stats{
		Budget:    a.budget,
		Used:      a.used,
		HighWater: hw,
		Overflows: a.overflows,
		Pending:   len(a.stack),
		Resets:    a.resets,
	}
}

func (a *Arena) unwind() {
	// Destructors may register more cleanup; keep popping until empty.
	for len(a.stack) > 0 {
		last := len(a.stack) - 1
		fn := a.stack[last]
		a.stack[last] = nil
		a.stack = a.stack[:last]
		fn()
	}
}

func (a *Arena) charge(bytes int) {
	a.used += bytes
	if a.used > a.budget {
		a.overflows++
	}
}

func (a *Arena) mustBeOpen() {
	if a.sealed {
		panic(ErrSealed)
	}
}

func (a *Arena) String() string {
	return fmt.Sprintf("arena(used=%d budget=%d slabs=%d)", a.used, a.budget, len(a.order))
}
