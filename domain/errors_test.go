package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatchingSurvivesWrapping(t *testing.T) {
	wrapped := WrapError(ErrCodeSlotsExhausted, "no slot left for 2024-05-15", errors.New("row conflict"))

	if !errors.Is(wrapped, ErrSlotsExhausted) {
		t.Fatalf("expected wrapped error to match sentinel, got %v", wrapped)
	}
	if errors.Is(wrapped, ErrAlreadySubmitted) {
		t.Fatalf("error matched the wrong sentinel: %v", wrapped)
	}

	deep := fmt.Errorf("assign focus: %w", wrapped)
	if !errors.Is(deep, ErrSlotsExhausted) {
		t.Fatalf("expected deeply wrapped error to match sentinel, got %v", deep)
	}
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"sentinel", ErrInvalidTimezone, ErrCodeInvalidTimezone},
		{"wrapped sentinel", fmt.Errorf("resolve: %w", ErrInvalidTimezone), ErrCodeInvalidTimezone},
		{"plain error", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCodeOf(tt.err); got != tt.want {
				t.Fatalf("expected code %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(ErrItemNotFound, ErrCodeNotFound) {
		t.Fatal("expected item not found to carry NOT_FOUND")
	}
	if IsDomainError(errors.New("boom"), ErrCodeNotFound) {
		t.Fatal("plain errors must not match a code")
	}
}
