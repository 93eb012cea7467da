// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arena

import "reflect"

type resetter interface {
	reset()
}

// slab holds the chunks for a single element type.
type slab[T any] struct {
	chunks [][]T
	cur    int // index of the chunk being filled
	off    int // next free element in chunks[cur]
}

func (s *slab[T]) reset() {
	for i := range s.chunks {
		clear(s.chunks[i])
	}
	s.cur, s.off = 0, 0
}

// take returns n contiguous zeroed elements.
func (s *slab[T]) take(n int) []T {
	for s.cur < len(s.chunks) {
		chunk := s.chunks[s.cur]
		if s.off+n <= len(chunk) {
			out := chunk[s.off : s.off+n : s.off+n]
			s.off += n
			return out
		}
		s.cur++
		s.off = 0
	}
	size := minChunkLen
	if len(s.chunks) > 0 {
		size = 2 * len(s.chunks[len(s.chunks)-1])
	}
	for size < n {
		size *= 2
	}
	s.chunks = append(s.chunks, make([]T, size))
	s.cur = len(s.chunks) - 1
	s.off = n
	return s.chunks[s.cur][:n:n]
}

func slabFor[T any](a *Arena) *slab[T] {
	typ := reflect.TypeFor[T]()
	if s, ok := a.slabs[typ]; ok {
		return s.(*slab[T])
	}
	s := &slab[T]{}
	a.slabs[typ] = s
	a.order = append(a.order, s)
	return s
}

// Make allocates a value of type T from the arena and initializes it with v.
// If *T implements Destroyer, Destroy is scheduled for the next Reset.
func Make[T any](a *Arena, v T) *T {
	a.mustBeOpen()
	s := slabFor[T](a)
	p := &s.take(1)[0]
	*p = v
	a.charge(int(reflect.TypeFor[T]().Size()))
	if d, ok := any(p).(Destroyer); ok {
		a.stack = append(a.stack, d.Destroy)
	}
	return p
}

// MakeSlice allocates a zeroed slice of length n and capacity n from the arena.
// Appending beyond the capacity moves the data to the Go heap. Destroyer
// elements are not tracked; use Make for values that need destruction.
func MakeSlice[T any](a *Arena, n int) []T {
	a.mustBeOpen()
	if n <= 0 {
		return nil
	}
	s := slabFor[T](a)
	out := s.take(n)
	a.charge(n * int(reflect.TypeFor[T]().Size()))
	return out
}
