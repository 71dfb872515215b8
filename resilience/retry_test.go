package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var errTemporary = errors.New("temporary")

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), DefaultRetryConfig(), func(context.Context, int) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || result != "ok" {
		t.Fatalf("unexpected result %q, %v", result, err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	var attempts []int
	result, err := Retry(context.Background(), fastConfig(3), func(_ context.Context, attempt int) (int, error) {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return 0, errTemporary
		}
		return 42, nil
	})
	if err != nil || result != 42 {
		t.Fatalf("unexpected result %d, %v", result, err)
	}
	if len(attempts) != 3 || attempts[0] != 1 || attempts[2] != 3 {
		t.Errorf("unexpected attempt numbers %v", attempts)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastConfig(2), func(context.Context, int) (int, error) {
		calls++
		return 0, errTemporary
	})
	if !errors.Is(err, errTemporary) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetry_RetryIfStops(t *testing.T) {
	errPermanent := errors.New("permanent")
	cfg := fastConfig(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, errPermanent) }

	calls := 0
	_, err := Retry(context.Background(), cfg, func(context.Context, int) (int, error) {
		calls++
		return 0, errPermanent
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected no retries, got %d calls", calls)
	}
}

func TestRetry_SingleAttemptWhenZero(t *testing.T) {
	calls := 0
	_, _ = Retry(context.Background(), RetryConfig{}, func(context.Context, int) (int, error) {
		calls++
		return 0, errTemporary
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_OnRetryAndDelay(t *testing.T) {
	cfg := fastConfig(3)
	var delays []time.Duration
	cfg.Delay = func(attempt int, _ error) time.Duration { return time.Duration(attempt) * time.Microsecond }
	cfg.OnRetry = func(_ int, _ error, d time.Duration) { delays = append(delays, d) }

	_, _ = Retry(context.Background(), cfg, func(context.Context, int) (int, error) {
		return 0, errTemporary
	})
	if len(delays) != 2 || delays[0] != time.Microsecond || delays[1] != 2*time.Microsecond {
		t.Errorf("unexpected delays %v", delays)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Hour, MaxBackoff: time.Hour}

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, cfg, func(context.Context, int) (int, error) {
			calls.Add(1)
			return 0, errTemporary
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, errTemporary) {
			t.Errorf("expected last attempt error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not observe cancellation")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestRetry_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(ctx, fastConfig(3), func(context.Context, int) (int, error) {
		t.Fatal("fn should not run")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExponentialDelay(t *testing.T) {
	delay := ExponentialDelay(time.Second, 30*time.Second)
	tests := map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 5: 16 * time.Second, 6: 30 * time.Second, 10: 30 * time.Second}
	for attempt, want := range tests {
		if got := delay(attempt, nil); got != want {
			t.Errorf("attempt %d: got %v, want %v", attempt, got, want)
		}
	}
}

func TestBackoffJitterStaysBounded(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffFactor: 2, Jitter: 0.5}
	cfg.normalize()
	for range 50 {
		d := cfg.backoff(2, nil)
		if d < 100*time.Millisecond || d > 300*time.Millisecond {
			t.Fatalf("backoff %v outside jitter bounds", d)
		}
	}
}
