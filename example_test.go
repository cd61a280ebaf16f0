package oneshot_test

import (
	"fmt"
	"time"

	oneshot "github.com/go-oneshot/oneshot"
)

// ExampleNew demonstrates the common case: a value handed from one
// goroutine to another exactly once.
func ExampleNew() {
	sender, receiver := oneshot.New[string]()

	go func() {
		_ = sender.Send("hello from the other goroutine")
	}()

	value, err := receiver.Recv()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(value)
	// Output: hello from the other goroutine
}

// ExampleSender_Send_disconnected shows the error returned when the
// receiver has already gone away.
func ExampleSender_Send_disconnected() {
	sender, receiver := oneshot.New[int]()
	receiver.Close()

	err := sender.Send(1)
	fmt.Println(err)
	// Output: oneshot: send on a channel whose receiver was dropped
}

// ExampleReceiver_TryRecv shows polling for a message without blocking.
func ExampleReceiver_TryRecv() {
	sender, receiver := oneshot.New[int]()

	if _, err := receiver.TryRecv(); err != nil {
		fmt.Println("not yet:", err)
	}

	_ = sender.Send(99)

	value, err := receiver.TryRecv()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(value)
	// Output:
	// not yet: oneshot: receiver empty
	// 99
}

// ExampleReceiver_RecvTimeout shows giving up on a receive after a fixed
// duration if the sender never shows up.
func ExampleReceiver_RecvTimeout() {
	_, receiver := oneshot.New[int]()

	_, err := receiver.RecvTimeout(10 * time.Millisecond)
	fmt.Println(err)
	// Output: oneshot: recv timed out
}
