package oneshot

// channel is the heap-allocated control block shared by exactly one Sender
// and exactly one Receiver. Go's garbage collector, not an explicit free
// path, reclaims it once both endpoints have released their reference; see
// SPEC_FULL.md section 2 for why "who frees the control block" (the Rust
// original's central bookkeeping problem) does not apply here.
//
// value and waker are protected entirely by the state discipline: value is
// meaningful iff state observes stateMessage, waker is meaningful iff state
// observes stateReceiving. Nothing ever reads either field without having
// first observed the corresponding state via an atomic operation on state,
// so the happens-before edge that sync/atomic establishes across that
// operation is what makes the plain field reads/writes here safe, exactly
// as the Rust original relies on the same edge across its SeqCst atomic.
type channel[T any] struct {
	state atomicState
	value T
	waker receiverWaker
}

// New creates a new oneshot channel and returns its two endpoints. Each
// call to New allocates exactly one control block, per spec.md invariant 1.
func New[T any]() (*Sender[T], *Receiver[T]) {
	c := &channel[T]{}
	c.state.store(stateEmpty)

	sender := &Sender[T]{channel: c}
	receiver := &Receiver[T]{channel: c}

	sender.armFinalizer()
	receiver.armFinalizer()

	return sender, receiver
}
