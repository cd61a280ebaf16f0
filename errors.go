package oneshot

// SendError is returned by [Sender.Send] when the corresponding [Receiver]
// was already dropped. It owns the message that could not be delivered, so
// that a caller can recover it rather than losing it silently.
type SendError[T any] struct {
	value T
}

// Error implements the error interface.
func (e *SendError[T]) Error() string {
	return "oneshot: send on a channel whose receiver was dropped"
}

// Value returns the message that could not be sent. This is the Go-idiomatic
// rendering of the original's into_value: since Go has no move semantics,
// Value is a plain accessor rather than a consuming method, and may be
// called any number of times.
func (e *SendError[T]) Value() T {
	return e.value
}

// TryRecvError is returned by [Receiver.TryRecv]. Exactly one of
// [TryRecvError.Empty] or [TryRecvError.Disconnected] is true for any
// value this package returns.
type TryRecvError struct {
	// Disconnected is true if the sender has already been dropped, or if
	// the single message has already been taken by a previous receive.
	// Otherwise (Empty) the sender is still alive and simply has not sent
	// anything yet.
	Disconnected bool
}

// Error implements the error interface.
func (e *TryRecvError) Error() string {
	if e.Disconnected {
		return "oneshot: receiver disconnected"
	}
	return "oneshot: receiver empty"
}

// Empty reports whether this error means "no message yet" as opposed to
// "disconnected".
func (e *TryRecvError) Empty() bool {
	return !e.Disconnected
}

// RecvError is returned by the blocking and async receive methods when the
// sender was dropped before sending anything, or the message was already
// taken by a previous receive.
type RecvError struct{}

// Error implements the error interface.
func (e *RecvError) Error() string {
	return "oneshot: sender disconnected"
}

// RecvTimeoutError is returned by [Receiver.RecvTimeout] and
// [Receiver.RecvDeadline].
type RecvTimeoutError struct {
	// Timeout is true if the deadline elapsed before a message arrived.
	// Otherwise (false) the sender disconnected before sending anything, or
	// the message was already taken by a previous receive.
	Timeout bool
}

// Error implements the error interface.
func (e *RecvTimeoutError) Error() string {
	if e.Timeout {
		return "oneshot: recv timed out"
	}
	return "oneshot: sender disconnected"
}

// Disconnected reports whether this error means the sender disconnected, as
// opposed to the deadline simply elapsing.
func (e *RecvTimeoutError) Disconnected() bool {
	return !e.Timeout
}

// recvUsedAfterPollPanicMessage is the fixed, documented panic triggered by
// calling a blocking receive method on a Receiver that [Receiver.Poll] has
// been called on. Spec.md section 4.3 requires this be a defined, fatal error,
// never a silently lost wakeup; a panic is the sharpest version of "fatal"
// Go offers without pulling in process-level abort semantics.
const recvUsedAfterPollPanicMessage = "oneshot: blocking receive called on a Receiver previously used with Poll"
