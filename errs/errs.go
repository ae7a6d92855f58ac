// Package errs defines the error taxonomy shared by every pgdmp package.
//
// Each failure kind a caller needs to branch on is exposed as a sentinel
// error value, so call sites use errors.Is(err, errs.ErrNotAnArchive)
// rather than string matching. errs.Error wraps a sentinel with
// contextual detail (a byte offset, a dump id, ...) while keeping it
// matchable through errors.Is, via Error.Is even when Unwrap returns a
// wrapped cause instead of the sentinel.
package errs

import "fmt"

// Kind identifies a class of failure, independent of the message attached
// to any particular occurrence.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotAnArchive
	KindUnsupportedVersion
	KindFormatError
	KindInvalidID
	KindMissingDependency
	KindCyclicDependencies
	KindUnknownDescriptor
	KindEntityNotFound
	KindIOError
	KindConverterError
)

func (k Kind) String() string {
	switch k {
	case KindNotAnArchive:
		return "not-an-archive"
	case KindUnsupportedVersion:
		return "unsupported-version"
	case KindFormatError:
		return "format-error"
	case KindInvalidID:
		return "invalid-id"
	case KindMissingDependency:
		return "missing-dependency"
	case KindCyclicDependencies:
		return "cyclic-dependencies"
	case KindUnknownDescriptor:
		return "unknown-descriptor"
	case KindEntityNotFound:
		return "entity-not-found"
	case KindIOError:
		return "io-error"
	case KindConverterError:
		return "converter-error"
	default:
		return "unknown"
	}
}

// sentinel is the error value every occurrence of a Kind wraps. Callers
// match on it with errors.Is; it carries no per-occurrence detail.
type sentinel struct {
	kind Kind
}

func (s *sentinel) Error() string { return s.kind.String() }

var (
	ErrNotAnArchive        error = &sentinel{KindNotAnArchive}
	ErrUnsupportedVersion  error = &sentinel{KindUnsupportedVersion}
	ErrFormatError         error = &sentinel{KindFormatError}
	ErrInvalidID           error = &sentinel{KindInvalidID}
	ErrMissingDependency   error = &sentinel{KindMissingDependency}
	ErrCyclicDependencies  error = &sentinel{KindCyclicDependencies}
	ErrUnknownDescriptor   error = &sentinel{KindUnknownDescriptor}
	ErrEntityNotFound      error = &sentinel{KindEntityNotFound}
	ErrIOError             error = &sentinel{KindIOError}
	ErrConverterError      error = &sentinel{KindConverterError}
)

// Error is the wrapper type returned by pgdmp functions: it carries the
// Kind for errors.Is matching plus a human message and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Offset  int64 // byte offset into the archive, -1 if not applicable
	Cause   error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return sentinelFor(e.Kind)
}

// Is allows errors.Is(err, errs.ErrFormatError) to succeed without a
// chain of Unwrap calls reaching the underlying sentinel first.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func sentinelFor(k Kind) error {
	switch k {
	case KindNotAnArchive:
		return ErrNotAnArchive
	case KindUnsupportedVersion:
		return ErrUnsupportedVersion
	case KindFormatError:
		return ErrFormatError
	case KindInvalidID:
		return ErrInvalidID
	case KindMissingDependency:
		return ErrMissingDependency
	case KindCyclicDependencies:
		return ErrCyclicDependencies
	case KindUnknownDescriptor:
		return ErrUnknownDescriptor
	case KindEntityNotFound:
		return ErrEntityNotFound
	case KindIOError:
		return ErrIOError
	case KindConverterError:
		return ErrConverterError
	default:
		return &sentinel{KindUnknown}
	}
}

// New builds an *Error of the given kind with a formatted message and no
// byte-offset context.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// WithOffset builds a KindFormatError Error carrying the byte offset at
// which a truncated or self-inconsistent read was detected.
func WithOffset(offset int64, format string, args ...any) *Error {
	return &Error{Kind: KindFormatError, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// Wrap builds an *Error of the given kind around an underlying cause,
// preserving it for errors.As / errors.Unwrap.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1, Cause: cause}
}
