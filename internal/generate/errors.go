package generate

import (
	"fmt"
)

type Kind string

const (
	KindMissingCredential        Kind = "MissingCredential"
	KindInvalidStyleSelection    Kind = "InvalidStyleSelection"
	KindInvalidCount             Kind = "InvalidCount"
	KindInvalidPrompt            Kind = "InvalidPrompt"
	KindPartialGenerationFailure Kind = "PartialGenerationFailure"
	KindCanceled                 Kind = "Canceled"
)

// Error is the only error type Generate returns. Succeeded is set for
// PartialGenerationFailure; Err holds the triggering *image.ProviderError.
type Error struct {
	Kind      Kind
	Message   string
	Succeeded int
	Err       error
}

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrMissingCredential        = &Error{Kind: KindMissingCredential}
	ErrInvalidStyleSelection    = &Error{Kind: KindInvalidStyleSelection}
	ErrInvalidCount             = &Error{Kind: KindInvalidCount}
	ErrInvalidPrompt            = &Error{Kind: KindInvalidPrompt}
	ErrPartialGenerationFailure = &Error{Kind: KindPartialGenerationFailure}
	ErrCanceled                 = &Error{Kind: KindCanceled}
)

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
