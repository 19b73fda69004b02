package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownAfterSignalDoesNotBlock(t *testing.T) {
	// Both the cancelled context and the scheduler's nil result are ready, so either
	// select branch may win. Shutdown must finish on every run.
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		schedErr := make(chan error, 1)
		schedErr <- nil

		stop, done, err := checkStop(ctx, schedErr)
		if !stop {
			t.Fatalf("run %d: loop kept going after shutdown", i)
		}

		result := make(chan error, 1)
		go func() { result <- awaitScheduler(done, err, schedErr) }()
		select {
		case err := <-result:
			if err != nil {
				t.Fatalf("run %d: shutdown error %v", i, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("run %d: waiting for the scheduler blocked (schedDone=%v)", i, done)
		}
	}
}

func TestSchedulerFailureIsReturned(t *testing.T) {
	boom := errors.New("boom")
	schedErr := make(chan error, 1)
	schedErr <- boom

	stop, done, err := checkStop(context.Background(), schedErr)
	if !stop || !done {
		t.Fatalf("stop=%v schedDone=%v, want both", stop, done)
	}
	if got := awaitScheduler(done, err, schedErr); !errors.Is(got, boom) {
		t.Fatalf("awaitScheduler = %v, want %v", got, boom)
	}
}

func TestCheckStopIdle(t *testing.T) {
	stop, done, err := checkStop(context.Background(), make(chan error, 1))
	if stop || done || err != nil {
		t.Fatalf("idle poll = (%v, %v, %v), want nothing", stop, done, err)
	}
}

func TestAwaitSchedulerReadsLateError(t *testing.T) {
	boom := errors.New("late")
	schedErr := make(chan error, 1)
	schedErr <- boom
	if got := awaitScheduler(false, nil, schedErr); !errors.Is(got, boom) {
		t.Fatalf("awaitScheduler = %v, want %v", got, boom)
	}
}
