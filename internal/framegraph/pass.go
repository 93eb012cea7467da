// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import "context"

// SetupFunc declares a pass's resource and label contract. It runs once,
// synchronously, inside AddPass.
type SetupFunc func(b *Builder)

// ExecuteFunc is the body of a pass. It runs during Execute, possibly on a
// scheduler worker.
type ExecuteFunc func(ctx context.Context)

type access struct {
	id    ResourceID
	read  bool
	write bool
}

// pass is one node of the frame graph. Records are allocated from the arena.
type pass struct {
	index   int
	name    string
	access  []access
	signals []Label
	waits   []Label
	execute ExecuteFunc
}

func (p *pass) touch(id ResourceID, read, write bool) {
	for i := range p.access {
		if p.access[i].id == id {
			p.access[i].read = p.access[i].read || read
			p.access[i].write = p.access[i].write || write
			return
		}
	}
	p.access = append(p.access, access{id: id, read: read, write: write})
}

func addLabel(list []Label, l Label) []Label {
	for _, have := range list {
		if have == l {
			return list
		}
	}
	return append(list, l)
}
