// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import "github.com/specialistvlad/framecore/internal/arena"

// Builder records the contract of the pass currently being registered. It is
// only valid inside the SetupFunc it was passed to.
type Builder struct {
	g *Graph
	p *pass
}

// Read declares that the pass reads resource type T.
func Read[T any](b *Builder) { b.ReadResource(TypeOf[T]()) }

// Write declares that the pass writes resource type T.
func Write[T any](b *Builder) { b.WriteResource(TypeOf[T]()) }

// ReadWrite declares an in-place update of T.
func ReadWrite[T any](b *Builder) {
	id := TypeOf[T]()
	b.ReadResource(id)
	b.WriteResource(id)
}

// ReadResource declares a read of id.
func (b *Builder) ReadResource(id ResourceID) *Builder {
	b.p.touch(id, true, false)
	return b
}

// WriteResource declares a write of id.
func (b *Builder) WriteResource(id ResourceID) *Builder {
	b.p.touch(id, false, true)
	return b
}

// Signal declares that later passes waiting for label must run after this one.
func (b *Builder) Signal(label string) *Builder {
	l := b.g.label(label)
	b.p.signals = addLabel(b.p.signals, l)
	return b
}

// WaitFor declares that this pass runs after every earlier pass signalling label.
func (b *Builder) WaitFor(label string) *Builder {
	l := b.g.label(label)
	b.p.waits = addLabel(b.p.waits, l)
	return b
}

// Defer registers fn to run when the frame's arena is reset.
func (b *Builder) Defer(fn func()) *Builder {
	b.g.arena.Defer(fn)
	return b
}

// Arena exposes the frame arena so setup code can allocate per-frame data
// that its execute closure will read.
func (b *Builder) Arena() *arena.Arena { return b.g.arena }

// Name returns the diagnostic name of the pass being registered.
func (b *Builder) Name() string { return b.p.name }

// Index returns the ordinal of the pass being registered.
func (b *Builder) Index() int { return b.p.index }
