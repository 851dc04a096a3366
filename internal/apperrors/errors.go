package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindProtocol   Kind = "protocol"
	KindFormat     Kind = "format"
	KindLifecycle  Kind = "lifecycle"
	KindValidation Kind = "validation"
	KindIO         Kind = "io"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindProtocol:
		return "Shared memory region is not a compatible translation buffer."
	case KindFormat:
		return "Dictionary file format not recognized."
	case KindLifecycle:
		return "Operation not valid in the current bridge state."
	case KindValidation:
		return "Input validation failed."
	case KindIO:
		return "File operation failed."
	default:
		return "Operation failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Protocol(err error) error {
	return New(KindProtocol, "", err)
}

func Format(err error) error {
	return New(KindFormat, "", err)
}

func Lifecycle(err error) error {
	return New(KindLifecycle, "", err)
}

func Validation(err error) error {
	return New(KindValidation, "", err)
}

func IO(err error) error {
	return New(KindIO, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// PublicMessage returns a message safe to show to whatever UI layer
// triggered the operation. Load/export failures reach the user through this.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsFatalAttach reports whether the host must refuse to attach to a buffer.
// Protocol errors (wrong magic or version) are never recoverable by retrying.
func IsFatalAttach(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindProtocol
}
