package oneshot

import "sync/atomic"

// noopWaker is a [Waker] that does nothing, for tests that only need to
// install a waker and never care whether it fires.
type noopWaker struct{}

func (noopWaker) Wake() {}

// countingWaker counts how many times Wake is called, so tests can assert
// on wakeup behaviour (e.g. no lost wakeups, no spurious extra wakeups).
type countingWaker struct {
	count atomic.Int32
}

func (w *countingWaker) Wake() {
	w.count.Add(1)
}

// testPollContext is the minimal [PollContext] implementation used by tests
// to drive [Receiver.Poll] with a caller-chosen [Waker].
type testPollContext struct {
	w Waker
}

func (c testPollContext) Waker() Waker {
	return c.w
}
