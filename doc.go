// Package oneshot implements a one-shot, single-producer single-consumer
// channel: a channel dimensioned to carry exactly one value from a [Sender]
// to a [Receiver].
//
// # Sync vs async
//
// The receiving end works transparently in both a synchronous world, where
// the consumer blocks a goroutine ([Receiver.Recv], [Receiver.RecvRef],
// [Receiver.RecvTimeout], [Receiver.RecvDeadline]), and a cooperative-async
// world, where the consumer integrates with an external scheduler via
// [Receiver.Poll]. A producer never needs to know which world its receiver
// lives in: [Sender.Send] is the same call either way, and is lock-free and
// wait-free except for the cost of waking a suspended receiver.
//
// Mixing the two on the same [Receiver] is a programmer error: calling a
// blocking receive method on a Receiver that [Receiver.Poll] has been called
// on panics rather than silently losing the wakeup.
//
// # Example
//
//	sender, receiver := oneshot.New[string]()
//	go func() {
//	    sender.Send("hello from the worker goroutine")
//	}()
//	msg, err := receiver.Recv()
//
// # Lifecycle
//
// Both endpoints are linear: [Sender.Send] and [Receiver.Recv] each consume
// their receiver. [Sender.Close] and [Receiver.Close] release an endpoint
// without sending/receiving, signalling disconnect to the other side. An
// endpoint abandoned without an explicit Close is still caught by a
// finalizer, so the other side is never left waiting forever — but relying
// on the finalizer delays the wakeup until the next garbage collection, so
// calling Close explicitly is strongly preferred.
package oneshot
