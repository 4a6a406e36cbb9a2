package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "NETWORK_ERROR: failed to fetch: underlying error" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapSameMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "%v", cause)

	if err.Error() != "NETWORK_ERROR: connection refused" {
		t.Errorf("Error() = %q, cause should not repeat", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	err := HTTPStatus(http.StatusNotFound, "Not Found")

	if err.Message != "HTTP 404: Not Found" {
		t.Errorf("Message = %q, want %q", err.Message, "HTTP 404: Not Found")
	}
	if Status(err) != http.StatusNotFound {
		t.Errorf("Status() = %d, want 404", Status(err))
	}
	if !Is(err, ErrCodeHTTPStatus) {
		t.Error("Is(err, ErrCodeHTTPStatus) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("outer: %w", HTTPStatus(500, "Internal Server Error")),
			code:     ErrCodeHTTPStatus,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeDecode, "bad body")); got != ErrCodeDecode {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeDecode)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestStatusNonHTTP(t *testing.T) {
	if got := Status(New(ErrCodeNetwork, "down")); got != 0 {
		t.Errorf("Status() = %d, want 0", got)
	}
	if got := Status(errors.New("plain")); got != 0 {
		t.Errorf("Status() = %d, want 0", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", HTTPStatus(404, "Not Found"), "HTTP 404: Not Found"},
		{"wrapped structured", fmt.Errorf("ctx: %w", New(ErrCodeNetwork, "dial tcp: refused")), "dial tcp: refused"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
