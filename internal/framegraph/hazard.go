// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import "github.com/specialistvlad/framecore/internal/arena"

// Hazard classifies an ordering edge.
type Hazard int

const (
	ReadAfterWrite Hazard = iota
	WriteAfterWrite
	WriteAfterRead
	LabelOrder
)

func (h Hazard) String() string {
	switch h {
	case ReadAfterWrite:
		return "RAW"
	case WriteAfterWrite:
		return "WAW"
	case WriteAfterRead:
		return "WAR"
	case LabelOrder:
		return "label"
	default:
		return "unknown"
	}
}

// hazardEntry tracks one resource while Compile walks the passes.
type hazardEntry struct {
	writer  int // -1 when nothing has written yet
	readers []int
}

// hazardTracker maps resource identity to its last writer and current readers.
// It exists only for the duration of one Compile.
type hazardTracker struct {
	arena   *arena.Arena
	entries map[ResourceID]*hazardEntry
}

func newHazardTracker(a *arena.Arena) *hazardTracker {
	return &hazardTracker{arena: a, entries: make(map[ResourceID]*hazardEntry)}
}

func (h *hazardTracker) entry(id ResourceID) *hazardEntry {
	e, ok := h.entries[id]
	if !ok {
		e = arena.Make(h.arena, hazardEntry{writer: -1})
		h.entries[id] = e
	}
	return e
}

// visit applies one pass's access to id and reports every edge it implies.
func (h *hazardTracker) visit(p int, acc access, link func(from int, kind Hazard)) {
	e := h.entry(acc.id)

	if acc.read && e.writer >= 0 && e.writer != p {
		link(e.writer, ReadAfterWrite)
	}
	if acc.write {
		if e.writer >= 0 && e.writer != p {
			link(e.writer, WriteAfterWrite)
		}
		for _, r := range e.readers {
			if r != p {
				link(r, WriteAfterRead)
			}
		}
		e.readers = e.readers[:0]
		e.writer = p
	}
	if acc.read {
		e.readers = append(e.readers, p)
	}
}
