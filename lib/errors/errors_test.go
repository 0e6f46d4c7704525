package errors

import (
	"errors"
	"fmt"
	"testing"
)

// TestSentinelErrors verifies all sentinel errors are properly defined.
func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrInvalidState", ErrInvalidState},
		{"ErrCreateFailed", ErrCreateFailed},
		{"ErrDestroyFailed", ErrDestroyFailed},
		{"ErrTimeout", ErrTimeout},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrCircuitOpen", ErrCircuitOpen},
		{"ErrClosed", ErrClosed},
		{"ErrConnection", ErrConnection},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInternal", ErrInternal},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Errorf("%s should not be nil", tc.name)
			}
			if tc.err.Error() == "" {
				t.Errorf("%s should have a non-empty message", tc.name)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(CodeCreate, "object creation failed", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if err.Code != CodeCreate {
		t.Errorf("expected code %d, got %d", CodeCreate, err.Code)
	}
	want := "object creation failed: dial tcp: connection refused"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestInvalidState(t *testing.T) {
	err := InvalidState("backend", "stopped")

	if !IsInvalidState(err) {
		t.Error("InvalidState should match ErrInvalidState")
	}
	if err.Error() != "backend is stopped: invalid state" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if err.Code != CodeState {
		t.Errorf("expected code %d, got %d", CodeState, err.Code)
	}
}

func TestFromSentinelCodes(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrInvalidState, CodeState},
		{ErrCreateFailed, CodeCreate},
		{ErrDestroyFailed, CodeDestroy},
		{ErrTimeout, CodeTimeout},
		{ErrRateLimited, CodeRateLimited},
		{ErrCircuitOpen, CodeCircuitOpen},
		{ErrConnection, CodeConnection},
		{ErrConfiguration, CodeConfiguration},
		{ErrInvalidInput, CodeInvalidInput},
		{errors.New("something else"), CodeInternal},
	}

	for _, tc := range tests {
		got := FromSentinel(tc.err)
		if got.Code != tc.code {
			t.Errorf("FromSentinel(%v): expected code %d, got %d", tc.err, tc.code, got.Code)
		}
	}

	if FromSentinel(nil) != nil {
		t.Error("FromSentinel(nil) should be nil")
	}
}

func TestFromSentinelWrapped(t *testing.T) {
	wrapped := fmt.Errorf("pool: %w", ErrRateLimited)
	got := FromSentinel(wrapped)
	if got.Code != CodeRateLimited {
		t.Errorf("expected code %d for wrapped sentinel, got %d", CodeRateLimited, got.Code)
	}
}

func TestPredicates(t *testing.T) {
	limited := Wrap(CodeRateLimited, "creation limited", ErrRateLimited)
	if !IsRateLimited(limited) {
		t.Error("IsRateLimited should be true")
	}
	if IsTimeout(limited) {
		t.Error("IsTimeout should be false")
	}

	open := Wrap(CodeCircuitOpen, "dial suppressed", ErrCircuitOpen)
	if !IsCircuitOpen(open) {
		t.Error("IsCircuitOpen should be true")
	}

	if !IsClosed(fmt.Errorf("conn: %w", ErrClosed)) {
		t.Error("IsClosed should see through wrapping")
	}
}

func TestErrorAs(t *testing.T) {
	var target *Error
	err := fmt.Errorf("outer: %w", Wrap(CodeCreate, "inner", ErrCreateFailed))
	if !As(err, &target) {
		t.Fatal("As should find the structured error")
	}
	if target.Code != CodeCreate {
		t.Errorf("expected code %d, got %d", CodeCreate, target.Code)
	}
}

func TestJoin(t *testing.T) {
	if Join(nil, nil) != nil {
		t.Error("Join of nils should be nil")
	}
	err := Join(ErrTimeout, ErrClosed)
	if !Is(err, ErrTimeout) || !Is(err, ErrClosed) {
		t.Error("joined error should match both parts")
	}
}
