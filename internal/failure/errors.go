package failure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrAmbiguous   = errors.New("ambiguous command")
	ErrNotFound    = errors.New("not found")
	ErrDevice      = errors.New("device communication error")
	ErrTimeout     = errors.New("device timeout")
	ErrNoDevice    = errors.New("device not found")
	ErrNoProgress  = errors.New("no progress")
	ErrUnsupported = errors.New("unsupported")
)

// Classifier allows errors to declare their classification directly. Errors
// that do not implement it are classified by the marker they wrap.
type Classifier interface {
	// ErrorKind returns one of "validation", "ambiguous", "not_found",
	// "device", "timeout", "no_device", "no_progress" or "unsupported".
	ErrorKind() string
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrDevice
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind reports the classification of err, or "" when err is nil or carries
// no known marker.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var classifier Classifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, ErrNoDevice):
		return "no_device"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNoProgress):
		return "no_progress"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrDevice):
		return "device"
	}
	return ""
}

// Fatal reports whether err should make the process signal failure.
//
// A missing device or a device timeout is a "nothing to do" outcome rather
// than a crash. A sync that stops making progress has already produced its
// partial report. Everything else, including user input errors and device
// protocol failures, is fatal.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	switch Kind(err) {
	case "no_device", "timeout", "no_progress":
		return false
	default:
		return true
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
