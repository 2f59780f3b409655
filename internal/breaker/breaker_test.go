package breaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestDoPassesResult(t *testing.T) {
	cb := New("test", nil)

	got, err := Do(cb, func() (string, error) { return "ok", nil })
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, want ok", got)
	}
}

func TestDoPassesError(t *testing.T) {
	cb := New("test", nil)
	boom := errors.New("boom")

	got, err := Do(cb, func() (string, error) { return "partial", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want boom", err)
	}
	if got != "" {
		t.Errorf("Do() = %q, want zero value on error", got)
	}
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewWithSettings(Settings{Name: "trip", Threshold: 2, Cooldown: time.Minute}, nil)
	boom := errors.New("boom")
	calls := 0
	fail := func() (int, error) {
		calls++
		return 0, boom
	}

	for i := 0; i < 2; i++ {
		if _, err := Do(cb, fail); !errors.Is(err, boom) {
			t.Fatalf("call %d: error = %v, want boom", i+1, err)
		}
	}

	if _, err := Do(cb, fail); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("third call error = %v, want ErrOpenState", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2 (open breaker must not call through)", calls)
	}
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("State() = %v, want open", cb.State())
	}
}

func TestIgnoredErrorsDoNotTrip(t *testing.T) {
	errNoKey := errors.New("no key")
	cb := NewWithSettings(Settings{Name: "local", Threshold: 2, Cooldown: time.Minute, Ignore: []error{errNoKey}}, nil)

	calls := 0
	for i := 0; i < 5; i++ {
		_, err := Do(cb, func() (int, error) {
			calls++
			return 0, fmt.Errorf("wrapped: %w", errNoKey)
		})
		if !errors.Is(err, errNoKey) {
			t.Fatalf("call %d: error = %v, want the ignored error", i+1, err)
		}
	}
	if _, err := Do(cb, func() (int, error) { calls++; return 0, context.Canceled }); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled call: error = %v", err)
	}

	if calls != 6 {
		t.Errorf("fn called %d times, want 6", calls)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestCountsAsFailure(t *testing.T) {
	ignored := errors.New("ignored")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", fmt.Errorf("call: %w", context.Canceled), false},
		{"ignored", fmt.Errorf("call: %w", ignored), false},
		{"deadline", context.DeadlineExceeded, true},
		{"remote", errors.New("500"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countsAsFailure(tt.err, []error{ignored}); got != tt.want {
				t.Errorf("countsAsFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
