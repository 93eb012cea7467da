// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

// Stats is a snapshot of scheduler counters. Dispatched and Completed count
// work items, so a Job that yields k times contributes k+1 to each.
type Stats struct {
	Workers        int
	Outstanding    int64
	Queued         int
	Dispatched     uint64
	Completed      uint64
	JobsCompleted  uint64
	Yields         uint64
	Panics         uint64
	OverflowPushes uint64
	QueueHighWater int
}

// Stats returns the current counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	st := Stats{Workers: s.workerCount}
	if s.queue != nil {
		st.Queued = s.queue.len()
		st.OverflowPushes = s.queue.overflowPushes
		st.QueueHighWater = s.queue.highWater
	}
	s.mu.Unlock()

	st.Outstanding = s.outstanding.Load()
	st.Dispatched = s.dispatched.Load()
	st.Completed = s.completed.Load()
	st.JobsCompleted = s.jobsCompleted.Load()
	st.Yields = s.yields.Load()
	st.Panics = s.panics.Load()
	return st
}
