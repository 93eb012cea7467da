// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertRanBefore checks that the last run of first ended before the last run
// of second started.
func AssertRanBefore(t *testing.T, rec *RecorderModule, first, second string) {
	t.Helper()
	a, err := rec.Last(first)
	require.NoError(t, err)
	b, err := rec.Last(second)
	require.NoError(t, err)
	require.False(t, b.Start.Before(a.End), "%s (ended %v) must finish before %s (started %v)", first, a.End, second, b.Start)
}

// AssertOverlapped checks that the last runs of a and b were in flight at the
// same time.
func AssertOverlapped(t *testing.T, rec *RecorderModule, a, b string) {
	t.Helper()
	ra, err := rec.Last(a)
	require.NoError(t, err)
	rb, err := rec.Last(b)
	require.NoError(t, err)
	require.True(t, ra.Start.Before(rb.End) && rb.Start.Before(ra.End), "%s and %s did not overlap", a, b)
}
