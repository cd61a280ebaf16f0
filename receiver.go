package oneshot

import (
	"runtime"
	"time"
)

// Receiver is the receiving half of a one-shot channel, obtained from
// [New]. It is not clonable. [Receiver.Recv] consumes it: afterwards
// [Receiver.TryRecv] reports disconnected and [Receiver.Close] is a no-op.
// The other receive methods take it by reference and leave it usable: after
// a timeout or an empty TryRecv a later receive can still succeed, and once
// the message has been taken or the sender has disconnected every later
// receive reports disconnected.
type Receiver[T any] struct {
	channel *channel[T]
	// polledAsync records that Poll has been called on this Receiver,
	// whatever that call returned, so that a later call to a blocking receive
	// method can be rejected instead of silently losing a wakeup. Only the
	// owning goroutine touches this field under normal use (spec.md
	// explicitly scopes mixing sync/async on the same Receiver as
	// programmer error, not a race to defend against).
	polledAsync bool
}

// armFinalizer registers the best-effort disconnect-on-drop backstop. It is
// cleared by Recv and Close, both of which run the equivalent logic
// synchronously and must not have it run again later. RecvRef, RecvTimeout,
// RecvDeadline and Poll leave it armed, since they do not consume the
// Receiver.
func (r *Receiver[T]) armFinalizer() {
	runtime.SetFinalizer(r, func(r *Receiver[T]) {
		r.disconnect()
	})
}

// TryRecv reports whether a message is already available, without blocking.
//
//   - If the sender has sent a message, it is returned and the channel
//     becomes disconnected: no later receive on this channel will ever
//     succeed again.
//   - If the sender is alive but has not sent anything, returns
//     *TryRecvError with Empty() true.
//   - If the sender has been dropped, or the message was already taken,
//     returns *TryRecvError with Disconnected true.
//
// This method is lock-free and wait-free.
func (r *Receiver[T]) TryRecv() (T, error) {
	c := r.channel
	if c == nil {
		// Recv has already consumed this Receiver and taken the message.
		var zero T
		return zero, &TryRecvError{Disconnected: true}
	}

	switch c.state.load() {
	case stateEmpty:
		var zero T
		return zero, &TryRecvError{Disconnected: false}
	case stateMessage:
		c.state.store(stateDisconnected) // plain store: we are the sole reader here
		return c.value, nil
	case stateDisconnected:
		var zero T
		return zero, &TryRecvError{Disconnected: true}
	case stateReceiving:
		// Only reachable after Poll installed a waker and the sender has
		// not yet acted on it.
		var zero T
		return zero, &TryRecvError{Disconnected: false}
	default:
		panic("oneshot: unreachable channel state in TryRecv")
	}
}

// Recv waits for a message from the sender, consuming the Receiver.
//
// If the sender disconnects (is dropped) before sending, or disconnects
// while this call is blocked, Recv returns *RecvError.
//
// Recv panics if called on a Receiver that was previously used with Poll:
// mixing a blocking receive with async polling on the same Receiver would
// either deadlock (if an async waker alone were relied on to reschedule a
// parked goroutine) or silently lose the wakeup, and spec.md requires a
// defined, loud failure instead.
func (r *Receiver[T]) Recv() (T, error) {
	runtime.SetFinalizer(r, nil)
	c := r.channel
	r.channel = nil

	return r.recvBlocking(c)
}

// RecvRef is the non-consuming version of Recv. Prefer Recv when the
// calling code can afford to consume the Receiver; RecvRef exists for
// call sites that need to keep the Receiver value around (e.g. stored in a
// struct) after a successful receive.
func (r *Receiver[T]) RecvRef() (T, error) {
	return r.recvBlocking(r.channel)
}

// RecvTimeout is like Recv but gives up after d, without consuming the
// Receiver. If d is so large that adding it to the current time overflows,
// this falls back to an indefinitely blocking receive, exactly as the
// deadline-based RecvDeadline would if handed an unrepresentable deadline.
func (r *Receiver[T]) RecvTimeout(d time.Duration) (T, error) {
	now := time.Now()
	deadline := now.Add(d)
	if deadline.Before(now) && d > 0 {
		// now.Add overflowed past time.Time's representable range and
		// wrapped around. Fall back to a plain blocking receive, mapping
		// disconnect the same way the timed path would.
		value, err := r.recvBlocking(r.channel)
		if err != nil {
			return value, &RecvTimeoutError{Timeout: false}
		}
		return value, nil
	}
	return r.RecvDeadline(deadline)
}

// RecvDeadline is like Recv but gives up at deadline, without consuming the
// Receiver.
//
// If the sender wins the race while this call is in the process of
// cancelling (withdrawing its waker) exactly at the deadline, the
// cancellation is rescinded and the message (or disconnect) is returned
// normally instead of a spurious timeout — spec.md's linearizable
// timeout/send race.
func (r *Receiver[T]) RecvDeadline(deadline time.Time) (T, error) {
	return r.recvBlockingDeadline(r.channel, &deadline)
}

// recvBlocking implements the shared core of Recv and RecvRef: park until a
// message or disconnect arrives, with no deadline. RecvTimeout and
// RecvDeadline instead use recvBlockingDeadline, since the two loops differ
// enough (rescindable cancellation vs none) that sharing one loop body would
// obscure both.
func (r *Receiver[T]) recvBlocking(c *channel[T]) (T, error) {
	if r.polledAsync {
		panic(recvUsedAfterPollPanicMessage)
	}

	switch c.state.load() {
	case stateMessage:
		c.state.store(stateDisconnected)
		return c.value, nil
	case stateDisconnected:
		var zero T
		return zero, &RecvError{}
	case stateReceiving:
		panic(recvUsedAfterPollPanicMessage)
	}

	// stateEmpty: install a thread waker and try to claim stateReceiving.
	park := make(chan struct{}, 1)
	c.waker = threadWaker(park)

	switch observed, swapped := c.state.compareAndSwap(stateEmpty, stateReceiving); {
	case swapped:
		for {
			<-park
			switch c.state.load() {
			case stateMessage:
				c.state.store(stateDisconnected)
				return c.value, nil
			case stateDisconnected:
				var zero T
				return zero, &RecvError{}
			case stateReceiving:
				// Spurious wakeup (or a wakeup queued before the sender's
				// state transition was visible); loop and park again.
			}
		}
	case observed == stateMessage:
		// Sender raced us and already sent while we were installing the
		// waker; it never observed stateReceiving, so it did not take our
		// waker. Drop it locally.
		c.waker = receiverWaker{}
		c.state.store(stateDisconnected)
		return c.value, nil
	case observed == stateDisconnected:
		c.waker = receiverWaker{}
		var zero T
		return zero, &RecvError{}
	default:
		panic("oneshot: unreachable channel state in blocking receive")
	}
}

// recvBlockingDeadline implements RecvDeadline (and RecvTimeout's
// fast path, via RecvDeadline).
func (r *Receiver[T]) recvBlockingDeadline(c *channel[T], deadline *time.Time) (T, error) {
	if r.polledAsync {
		panic(recvUsedAfterPollPanicMessage)
	}

	switch c.state.load() {
	case stateMessage:
		c.state.store(stateDisconnected)
		return c.value, nil
	case stateDisconnected:
		var zero T
		return zero, &RecvTimeoutError{Timeout: false}
	case stateReceiving:
		panic(recvUsedAfterPollPanicMessage)
	}

	park := make(chan struct{}, 1)
	c.waker = threadWaker(park)

	switch observed, swapped := c.state.compareAndSwap(stateEmpty, stateReceiving); {
	case swapped:
		for {
			remaining := time.Until(*deadline)
			var timedOut bool
			var state chanState
			if remaining > 0 {
				timer := time.NewTimer(remaining)
				select {
				case <-park:
					state = c.state.load()
				case <-timer.C:
					state, _ = c.state.compareAndSwap(stateReceiving, stateEmpty)
					timedOut = true
				}
				timer.Stop()
			} else {
				// Deadline already passed: withdraw our waker unless the
				// sender has already moved the state on.
				state, _ = c.state.compareAndSwap(stateReceiving, stateEmpty)
				timedOut = true
			}

			switch state {
			case stateMessage:
				c.state.store(stateDisconnected)
				return c.value, nil
			case stateDisconnected:
				var zero T
				return zero, &RecvTimeoutError{Timeout: false}
			case stateReceiving:
				if timedOut {
					// We withdrew our own waker: the sender never observed
					// stateReceiving, so it never took it.
					c.waker = receiverWaker{}
					var zero T
					return zero, &RecvTimeoutError{Timeout: true}
				}
				// Spurious wakeup with time still remaining; loop.
			}
		}
	case observed == stateMessage:
		c.waker = receiverWaker{}
		c.state.store(stateDisconnected)
		return c.value, nil
	case observed == stateDisconnected:
		c.waker = receiverWaker{}
		var zero T
		return zero, &RecvTimeoutError{Timeout: false}
	default:
		panic("oneshot: unreachable channel state in timed receive")
	}
}

// Poll integrates the Receiver with a cooperative scheduler identified by
// ctx. On each call:
//
//   - If a message is ready, returns (value, true, nil).
//   - If the sender has disconnected, returns (zero, true, *RecvError).
//   - Otherwise installs (or replaces) a [Waker] obtained from ctx and
//     returns (zero, false, nil); ctx's Waker will be called at least once
//     after the sender sends or disconnects.
//
// Calling a blocking receive method on this Receiver after Poll has
// returned at least once panics; see [Receiver.Recv].
func (r *Receiver[T]) Poll(ctx PollContext) (T, bool, error) {
	c := r.channel
	r.polledAsync = true

	switch c.state.load() {
	case stateEmpty:
		return r.pollInstallWaker(c, ctx)
	case stateReceiving:
		// A previous poll's waker is installed; reclaim the slot so we can
		// replace it with a fresh one bound to this poll's context (the
		// scheduler may hand us a different Waker on every call).
		switch observed, swapped := c.state.compareAndSwap(stateReceiving, stateEmpty); {
		case swapped:
			c.waker = receiverWaker{}
			return r.pollInstallWaker(c, ctx)
		case observed == stateMessage:
			// The sender already took our previous waker as part of this
			// transition; do not touch it again.
			c.state.store(stateDisconnected)
			return c.value, true, nil
		case observed == stateDisconnected:
			var zero T
			return zero, true, &RecvError{}
		default:
			panic("oneshot: unreachable channel state in Poll")
		}
	case stateMessage:
		c.state.store(stateDisconnected)
		return c.value, true, nil
	case stateDisconnected:
		var zero T
		return zero, true, &RecvError{}
	default:
		panic("oneshot: unreachable channel state in Poll")
	}
}

// pollInstallWaker installs a fresh task waker from ctx and attempts to
// claim stateReceiving, handling the sender racing in while we do so.
func (r *Receiver[T]) pollInstallWaker(c *channel[T], ctx PollContext) (T, bool, error) {
	c.waker = taskWaker(ctx.Waker())

	switch observed, swapped := c.state.compareAndSwap(stateEmpty, stateReceiving); {
	case swapped:
		var zero T
		return zero, false, nil
	case observed == stateMessage:
		c.waker = receiverWaker{}
		c.state.store(stateDisconnected)
		return c.value, true, nil
	case observed == stateDisconnected:
		c.waker = receiverWaker{}
		var zero T
		return zero, true, &RecvError{}
	default:
		panic("oneshot: unreachable channel state in Poll")
	}
}

// Close releases the receiver, signalling cancellation to the sender. If a
// message was already sent but never received, it is simply dropped (Go's
// GC reclaims it; there is no drop-glue to run explicitly). Calling Close
// after Recv, or calling it twice, is a no-op.
func (r *Receiver[T]) Close() {
	runtime.SetFinalizer(r, nil)
	r.disconnect()
}

// disconnect implements the consumer's drop contract (spec.md section 4.3).
func (r *Receiver[T]) disconnect() {
	c := r.channel
	if c == nil {
		return
	}
	r.channel = nil

	switch c.state.swap(stateDisconnected) {
	case stateEmpty, stateMessage, stateDisconnected:
		// Nothing further to release: the message (if any) is just a plain
		// field, reclaimed along with the control block by the GC.
	case stateReceiving:
		// Withdraw our own waker; the sender will never observe
		// stateReceiving again now that we've moved to stateDisconnected,
		// so it will never try to take it.
		c.waker = receiverWaker{}
	}
}
