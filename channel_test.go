package oneshot

import (
	"testing"
	"time"
)

func TestTryRecv(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, r := New[int]()
		_, err := r.TryRecv()
		if err == nil {
			t.Fatal("expected error")
		}
		trErr, ok := err.(*TryRecvError)
		if !ok {
			t.Fatalf("wrong error type: %T", err)
		}
		if !trErr.Empty() {
			t.Fatal("expected Empty() true")
		}
	})

	t.Run("message", func(t *testing.T) {
		s, r := New[int]()
		if err := s.Send(42); err != nil {
			t.Fatalf("send: %v", err)
		}
		v, err := r.TryRecv()
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		if v != 42 {
			t.Fatalf("got %d, want 42", v)
		}

		// The message has now been consumed; a second TryRecv must report
		// disconnected, never the same value again.
		_, err = r.TryRecv()
		trErr, ok := err.(*TryRecvError)
		if !ok || !trErr.Disconnected {
			t.Fatalf("expected disconnected on second TryRecv, got %v", err)
		}
	})

	t.Run("sender dropped", func(t *testing.T) {
		s, r := New[int]()
		s.Close()
		_, err := r.TryRecv()
		trErr, ok := err.(*TryRecvError)
		if !ok || !trErr.Disconnected {
			t.Fatalf("expected disconnected, got %v", err)
		}
	})
}

func TestRecv(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(s *Sender[string])
		wantValue     string
		wantErr       bool
		expectedPanic string
	}{
		{
			name: "message already sent",
			setup: func(s *Sender[string]) {
				_ = s.Send("hello")
			},
			wantValue: "hello",
		},
		{
			name: "sender dropped before recv",
			setup: func(s *Sender[string]) {
				s.Close()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if tt.expectedPanic == "" {
					if r != nil {
						t.Fatalf("unexpected panic: %v", r)
					}
					return
				}
				if r == nil {
					t.Fatalf("expected panic %q, got none", tt.expectedPanic)
				}
				if msg, _ := r.(string); msg != tt.expectedPanic {
					t.Fatalf("expected panic %q, got %q", tt.expectedPanic, msg)
				}
			}()

			s, recv := New[string]()
			tt.setup(s)

			v, err := recv.Recv()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.wantValue {
				t.Fatalf("got %q, want %q", v, tt.wantValue)
			}
		})
	}
}

func TestRecvBlocksUntilSend(t *testing.T) {
	s, r := New[int]()

	done := make(chan struct{})
	var got int
	var gotErr error
	go func() {
		got, gotErr = r.Recv()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Recv returned before Send")
	case <-time.After(20 * time.Millisecond):
	}

	if err := s.Send(7); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Send")
	}

	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestRecvAfterPollPanics(t *testing.T) {
	_, r := New[int]()
	r.Poll(testPollContext{w: noopWaker{}})

	defer func() {
		rec := recover()
		if rec != recvUsedAfterPollPanicMessage {
			t.Fatalf("expected panic %q, got %v", recvUsedAfterPollPanicMessage, rec)
		}
	}()
	r.Recv()
}

func TestSendAfterReceiverDropped(t *testing.T) {
	s, r := New[int]()
	r.Close()

	err := s.Send(1)
	if err == nil {
		t.Fatal("expected error")
	}
	sendErr, ok := err.(*SendError[int])
	if !ok {
		t.Fatalf("wrong error type: %T", err)
	}
	if sendErr.Value() != 1 {
		t.Fatalf("got %d, want 1", sendErr.Value())
	}
}

func TestRecvTimeoutExpires(t *testing.T) {
	_, r := New[int]()
	_, err := r.RecvTimeout(10 * time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	toErr, ok := err.(*RecvTimeoutError)
	if !ok || !toErr.Timeout {
		t.Fatalf("expected Timeout true, got %v", err)
	}
}

func TestRecvTimeoutReceivesBeforeDeadline(t *testing.T) {
	s, r := New[int]()
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = s.Send(9)
	}()

	v, err := r.RecvTimeout(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 9 {
		t.Fatalf("got %d, want 9", v)
	}
}

func TestRecvTimeoutOverflowFallsBackToBlocking(t *testing.T) {
	s, r := New[int]()
	if err := s.Send(3); err != nil {
		t.Fatalf("send: %v", err)
	}

	v, err := r.RecvTimeout(time.Duration(1<<63 - 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Fatalf("got %d, want 3", v)
	}
}

func TestRecvDeadlineAlreadyPassed(t *testing.T) {
	_, r := New[int]()
	_, err := r.RecvDeadline(time.Now().Add(-time.Hour))
	toErr, ok := err.(*RecvTimeoutError)
	if !ok || !toErr.Timeout {
		t.Fatalf("expected immediate timeout, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, r := New[int]()
	s.Close()
	s.Close() // must not panic or double-disconnect

	_, err := r.TryRecv()
	trErr, ok := err.(*TryRecvError)
	if !ok || !trErr.Disconnected {
		t.Fatalf("expected disconnected, got %v", err)
	}

	r.Close()
	r.Close() // must not panic
}

func TestReceiverRefDoesNotConsume(t *testing.T) {
	s, r := New[int]()
	if err := s.Send(5); err != nil {
		t.Fatalf("send: %v", err)
	}
	v, err := r.RecvRef()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Fatalf("got %d, want 5", v)
	}

	// Receiver is still usable; the channel is now disconnected.
	_, err = r.RecvRef()
	if err == nil {
		t.Fatal("expected error on second RecvRef")
	}
}
