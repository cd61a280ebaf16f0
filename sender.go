package oneshot

import "runtime"

// Sender is the sending half of a one-shot channel, obtained from [New]. A
// Sender is a linear resource: [Sender.Send] consumes it, and it must not be
// used afterwards. It is not safe to share a Sender between goroutines (it
// has no Sync-like guarantee — spec.md's explicit non-goal), but it is safe
// for Send to race with any [Receiver] method on the other end.
type Sender[T any] struct {
	channel *channel[T]
}

// armFinalizer registers the best-effort disconnect-on-drop backstop. It is
// cleared by Send and Close, both of which run the equivalent logic
// synchronously and must not have it run again later.
func (s *Sender[T]) armFinalizer() {
	runtime.SetFinalizer(s, func(s *Sender[T]) {
		s.disconnect()
	})
}

// Send delivers message to the corresponding [Receiver]. It returns a
// *SendError[T] wrapping message if the receiver was already dropped.
//
// This method is wait-free except when the receiver is currently suspended
// in a blocking or async receive, in which case it additionally pays
// whatever cost waking that receiver up requires (a non-blocking send on a
// capacity-1 channel, or a caller-supplied Waker.Wake call).
func (s *Sender[T]) Send(message T) error {
	runtime.SetFinalizer(s, nil)
	c := s.channel
	// Send is documented as consuming the Sender. Clearing the reference
	// here makes a stray call to Close after Send a harmless no-op instead
	// of a second, invalid state transition out of stateMessage.
	s.channel = nil

	// Safe to write before the state transition: nobody observes c.value
	// until they've observed stateMessage via the swap below, and the
	// atomic swap establishes the happens-before edge that makes this
	// write visible to that observer.
	c.value = message

	switch prev := c.state.swap(stateMessage); prev {
	case stateEmpty:
		// Receiver not yet waiting. Done.
		return nil
	case stateReceiving:
		// Receiver is suspended; wake it so it can observe stateMessage.
		c.waker.wake()
		c.waker = receiverWaker{}
		return nil
	case stateDisconnected:
		// Receiver already gone. The error now owns returning the value;
		// there is nothing left to free in Go (the GC handles that), so
		// the error simply carries the payload back out.
		return &SendError[T]{value: message}
	default:
		panic("oneshot: unreachable channel state in Send")
	}
}

// Close releases the sender without sending anything, signalling disconnect
// to the receiver. Calling Close after Send, or calling it twice, is a
// no-op.
func (s *Sender[T]) Close() {
	runtime.SetFinalizer(s, nil)
	s.disconnect()
}

// disconnect implements the producer's drop contract (spec.md section 4.2):
// swap to disconnected, and if the receiver was suspended, wake it so it can
// observe the disconnect instead of waiting forever.
func (s *Sender[T]) disconnect() {
	c := s.channel
	if c == nil {
		return
	}
	s.channel = nil

	switch prev := c.state.swap(stateDisconnected); prev {
	case stateEmpty:
		// Receiver not yet waiting; it will observe stateDisconnected
		// itself on its next operation.
	case stateReceiving:
		c.waker.wake()
		c.waker = receiverWaker{}
	case stateDisconnected:
		// Receiver already dropped; nothing left to do.
	case stateMessage:
		// Cannot occur: the sender that wrote stateMessage was consumed by
		// Send, so it can never reach disconnect again.
		panic("oneshot: unreachable channel state in Sender disconnect")
	}
}
