// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/registry"
)

// ExecutionRecord holds the start and end times of one pass execution.
// Observed is the value Observe returned when the pass started.
type ExecutionRecord struct {
	Start    time.Time
	End      time.Time
	Observed int64
}

// RecorderModule registers the "record" work kind. Every execution sleeps
// for the configured duration and appends its interval under the input id.
type RecorderModule struct {
	Sleep   time.Duration
	Observe func() int64 // optional, sampled at pass start

	mu      sync.Mutex
	records map[string][]ExecutionRecord
}

type recordInput struct {
	ID string `hcl:"id"`
}

// NewRecorderModule creates a recorder whose passes each take sleep.
func NewRecorderModule(sleep time.Duration) *RecorderModule {
	return &RecorderModule{Sleep: sleep, records: make(map[string][]ExecutionRecord)}
}

// Register registers the "record" work kind.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterWork("record", &registry.RegisteredWork{
		NewInput: func() any { return new(recordInput) },
		Build: func(_ context.Context, _ *registry.Env, input any) (framegraph.ExecuteFunc, error) {
			id := input.(*recordInput).ID
			return func(context.Context) {
				start := time.Now()
				var observed int64
				if m.Observe != nil {
					observed = m.Observe()
				}
				time.Sleep(m.Sleep)
				end := time.Now()

				m.mu.Lock()
				m.records[id] = append(m.records[id], ExecutionRecord{Start: start, End: end, Observed: observed})
				m.mu.Unlock()
			}, nil
		},
	})
}

// Runs returns every recorded execution of id, in completion order.
func (m *RecorderModule) Runs(id string) []ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutionRecord(nil), m.records[id]...)
}

// Last returns the most recent execution of id.
func (m *RecorderModule) Last(id string) (ExecutionRecord, error) {
	runs := m.Runs(id)
	if len(runs) == 0 {
		return ExecutionRecord{}, fmt.Errorf("pass %q never ran", id)
	}
	return runs[len(runs)-1], nil
}
