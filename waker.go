package oneshot

// Waker is an idempotent wakeup handle obtained from a [PollContext] during
// a call to [Receiver.Poll]. Calling Wake more than once, or from more than
// one goroutine, must be safe and have the same effect as calling it once:
// it schedules the caller's task to be polled again.
//
// This is the Go-native, executor-agnostic stand-in for Rust's
// task::Waker: this package never assumes a particular async runtime, it
// only ever calls Wake on whatever a caller's PollContext hands back.
type Waker interface {
	Wake()
}

// PollContext is the minimal capability [Receiver.Poll] needs from whatever
// cooperative scheduler is driving it: a way to obtain a [Waker] that, when
// called, reschedules the current poll.
type PollContext interface {
	Waker() Waker
}

// wakerKind tags which variant of receiverWaker is populated. Exactly one
// of the two payload fields is meaningful for a given kind; this is the Go
// translation of the Rust original's two-variant ReceiverWaker enum, laid
// out as a tagged struct instead of a sum type since Go has no enum-with-
// payload construct. Callers never see this type; it never leaves the
// package.
type wakerKind uint8

const (
	wakerKindNone wakerKind = iota
	wakerKindThread
	wakerKindTask
)

// receiverWaker is installed by a suspending Receiver and taken (by value,
// exactly once) by whichever Sender operation observes stateReceiving
// during its own state transition. It is never touched by both endpoints
// concurrently: the state word's CAS discipline is what makes "take the
// waker" exclusive.
type receiverWaker struct {
	kind wakerKind
	// park is the thread-parking substitute: a capacity-1 channel that a
	// blocking Receiver method receives from (optionally via select with a
	// timer) and that wake() sends to, non-blockingly, exactly like an
	// unpark call. Populated iff kind == wakerKindThread.
	park chan struct{}
	// task is the async waker handle captured from a PollContext. Populated
	// iff kind == wakerKindTask.
	task Waker
}

// threadWaker builds the synchronous, parking-goroutine variant of
// receiverWaker around a fresh park channel.
func threadWaker(park chan struct{}) receiverWaker {
	return receiverWaker{kind: wakerKindThread, park: park}
}

// taskWaker builds the asynchronous, cooperative-scheduler variant of
// receiverWaker around a waker obtained from a PollContext.
func taskWaker(w Waker) receiverWaker {
	return receiverWaker{kind: wakerKindTask, task: w}
}

// wake fires the installed waker exactly once. For the thread variant this
// is a non-blocking send (the park channel always has capacity 1, and a
// park loop only ever waits on it, never races two wakers for the same
// channel), mirroring Thread::unpark's documented idempotence. For the task
// variant this simply forwards to the caller-supplied Waker, which must
// itself be idempotent per the Waker contract above.
func (w receiverWaker) wake() {
	switch w.kind {
	case wakerKindThread:
		select {
		case w.park <- struct{}{}:
		default:
		}
	case wakerKindTask:
		w.task.Wake()
	}
}
