package failure_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"flightrec/internal/failure"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("line noise")
	err := failure.Wrap(failure.ErrDevice, "emulator", "upload", "write failed", base)
	if !errors.Is(err, failure.ErrDevice) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"emulator", "upload", "write failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := failure.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, failure.ErrDevice) {
		t.Fatalf("expected default device marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failed") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

type kindError struct{}

func (kindError) Error() string     { return "custom" }
func (kindError) ErrorKind() string { return "validation" }

func TestKindAndFatal(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantKind  string
		wantFatal bool
	}{
		{"nil", nil, "", false},
		{"validation", failure.Wrap(failure.ErrValidation, "rangeset", "parse", "bad token", nil), "validation", true},
		{"ambiguous", fmt.Errorf("dispatch: %w", failure.ErrAmbiguous), "ambiguous", true},
		{"not found", failure.ErrNotFound, "not_found", true},
		{"no device", failure.Wrap(failure.ErrNoDevice, "device", "open", "", nil), "no_device", false},
		{"timeout", failure.Wrap(failure.ErrTimeout, "device", "list", "", nil), "timeout", false},
		{"device", failure.ErrDevice, "device", true},
		{"no progress", failure.ErrNoProgress, "no_progress", false},
		{"wrapped no progress", fmt.Errorf("upload: %w", failure.Wrap(failure.ErrNoProgress, "sync", "pass 1", "", nil)), "no_progress", false},
		{"classifier", kindError{}, "validation", true},
		{"unclassified", errors.New("plain"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.Kind(tt.err); got != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got, tt.wantKind)
			}
			if got := failure.Fatal(tt.err); got != tt.wantFatal {
				t.Errorf("Fatal = %v, want %v", got, tt.wantFatal)
			}
		})
	}
}
