// Package testutil holds helpers shared by the lifelist tracker's tests: seeded SQLite
// databases and bounded waits on signals from goroutines.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WaitTimeout bounds waits on work the test has already unblocked.
const WaitTimeout = 5 * time.Second

// Wait blocks until ch is closed or receives, and fails the test after timeout.
func Wait(t *testing.T, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		require.Failf(t, "timed out", "waiting for %s after %s", what, timeout)
	}
}

// Done returns a channel closed once wg is done, so a WaitGroup can be passed to Wait.
func Done(wg *sync.WaitGroup) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()
	return ch
}
