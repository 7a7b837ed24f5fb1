package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryTransient(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Transient(errors.New("connection refused"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryPermanentFailsFast(t *testing.T) {
	permanent := errors.New("bad credentials")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Retry = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent errors)", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	cause := errors.New("still down")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return Transient(cause)
	})
	if !errors.Is(err, cause) {
		t.Fatalf("Retry = %v, want last error %v", err, cause)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, time.Hour, func() error {
		return Transient(errors.New("down"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry = %v, want context.Canceled", err)
	}
}

func TestTransientNil(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
}
