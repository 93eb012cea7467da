// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package telemetry

import (
	"context"
	"errors"

	"github.com/specialistvlad/framecore/internal/frame"
)

// Multi publishes to every sink in order and joins their errors.
type Multi []frame.Sink

// Publish implements frame.Sink.
func (m Multi) Publish(ctx context.Context, r *frame.Report) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
