// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

// DefaultQueueCapacity is the ring size used when no capacity is configured.
const DefaultQueueCapacity = 1024

// workItem is one unit of queued work: either a plain callable or one
// resumption step of a Job.
type workItem struct {
	fn  func()
	job *frame
}

// workQueue is a fixed ring backed by an unbounded overflow list. It is not
// synchronized; the Scheduler guards it with its mutex.
type workQueue struct {
	ring     []workItem
	head     int
	size     int
	overflow []workItem

	overflowPushes uint64
	highWater      int
}

func newWorkQueue(capacity int) *workQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &workQueue{ring: make([]workItem, capacity)}
}

func (q *workQueue) len() int { return q.size + len(q.overflow) }

func (q *workQueue) push(it workItem) {
	if q.size < len(q.ring) && len(q.overflow) == 0 {
		q.ring[(q.head+q.size)%len(q.ring)] = it
		q.size++
	} else {
		q.overflow = append(q.overflow, it)
		q.overflowPushes++
	}
	if n := q.len(); n > q.highWater {
		q.highWater = n
	}
}

func (q *workQueue) pop() (workItem, bool) {
	if q.size == 0 {
		if len(q.overflow) == 0 {
			return workItem{}, false
		}
		it := q.overflow[0]
		q.overflow[0] = workItem{}
		q.overflow = q.overflow[1:]
		return it, true
	}
	it := q.ring[q.head]
	q.ring[q.head] = workItem{}
	q.head = (q.head + 1) % len(q.ring)
	q.size--

	// Refill the ring from the overflow list to keep rough FIFO order.
	if len(q.overflow) > 0 {
		q.ring[(q.head+q.size)%len(q.ring)] = q.overflow[0]
		q.overflow[0] = workItem{}
		q.overflow = q.overflow[1:]
		q.size++
	}
	if len(q.overflow) == 0 {
		q.overflow = nil
	}
	return it, true
}
