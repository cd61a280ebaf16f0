package oneshot

import "sync/atomic"

// chanState is the sole synchronization point for a channel's control
// block. Every non-trivial operation on the channel performs an atomic
// load, swap, or compare-and-swap on a chanState word; sync/atomic gives no
// weaker ordering than the default, which is at least as strong as the
// sequentially consistent ordering the protocol requires.
//
// State machine:
//
//	stateEmpty    (0) --send-->          stateMessage      [Sender.Send]
//	stateEmpty    (0) --drop-->           stateDisconnected [Sender.Close / sender finalizer]
//	stateEmpty    (0) --suspend (CAS)-->  stateReceiving    [Receiver blocking/Poll]
//	stateEmpty    (0) --drop-->           stateDisconnected [Receiver.Close / receiver finalizer]
//	stateReceiving(2) --send-->           stateMessage      [Sender.Send, also fires the waker]
//	stateReceiving(2) --drop-->           stateDisconnected [Sender.Close, also fires the waker]
//	stateReceiving(2) --withdraw (CAS)--> stateEmpty        [timeout / re-poll, waker withdrawn]
//	stateReceiving(2) --drop-->           stateDisconnected [Receiver.Close, waker dropped locally]
//	stateMessage  (1) --receive-->        stateDisconnected [any successful receive]
//	stateMessage  (1) --drop-->           stateDisconnected [Receiver.Close]
//	stateDisconnected(3) -- (terminal, no outgoing edges)
//
// State values are numbered in the order of the constant declarations below,
// not for any wire-compatibility reason — there is no wire format here.
type chanState uint32

const (
	// stateEmpty is the initial state: no message sent, no receiver waiting.
	stateEmpty chanState = iota
	// stateMessage indicates a message has been written but not yet taken.
	stateMessage
	// stateReceiving indicates a waker has been installed and the producer
	// has not observed it yet.
	stateReceiving
	// stateDisconnected is terminal: either endpoint dropped, or the single
	// message has already been delivered.
	stateDisconnected
)

func (s chanState) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateMessage:
		return "message"
	case stateReceiving:
		return "receiving"
	case stateDisconnected:
		return "disconnected"
	default:
		return "invalid"
	}
}

// atomicState wraps an atomic.Uint32 with chanState-typed accessors. It
// carries no other data; it exists purely so call sites read as state
// transitions rather than raw integer CAS loops.
type atomicState struct {
	v atomic.Uint32
}

// store unconditionally sets the state word. Used both to initialize a
// freshly allocated channel and, later, for transitions where the caller
// already holds exclusive knowledge of the prior state (e.g. having just
// observed stateMessage, which only the single receiver ever transitions
// away from) and so needs no CAS/swap to do so safely.
func (s *atomicState) store(to chanState) {
	s.v.Store(uint32(to))
}

func (s *atomicState) load() chanState {
	return chanState(s.v.Load())
}

func (s *atomicState) swap(to chanState) chanState {
	return chanState(s.v.Swap(uint32(to)))
}

// compareAndSwap attempts from -> to, returning the state actually observed
// (which equals from on success).
//
// On failure this does a second, separate atomic load to recover the
// observed value, rather than a single atomic compare-and-swap-and-report
// primitive (which Go's atomic package does not expose). That second load
// is safe here only because of this protocol's shape: the producer performs
// at most one state-word write after the channel leaves stateEmpty (Send or
// Close, never both — the producer is consumed by Send), so once a
// consumer-side CAS out of stateEmpty/stateReceiving fails, the producer
// has already made its one and only move and will not write the word again.
func (s *atomicState) compareAndSwap(from, to chanState) (observed chanState, swapped bool) {
	if s.v.CompareAndSwap(uint32(from), uint32(to)) {
		return from, true
	}
	return chanState(s.v.Load()), false
}
