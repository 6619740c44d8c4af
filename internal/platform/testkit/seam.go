package testkit

import (
	"sync"
	"testing"
)

var serialMu sync.Mutex

// Swap replaces a package-level seam for the duration of the test and
// restores the original in Cleanup
func Swap[T any](t *testing.T, slot *T, replacement T) {
	t.Helper()
	prev := *slot
	*slot = replacement
	t.Cleanup(func() { *slot = prev })
}

// Serial holds a global lock for the whole test so seam-mutating tests
// never interleave
func Serial(t *testing.T) {
	t.Helper()
	serialMu.Lock()
	t.Cleanup(serialMu.Unlock)
}
