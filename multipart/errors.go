package multipart

import (
	"errors"
	"fmt"
)

// Kind discriminates the sub-kinds of ParseError. It exists so callers can
// match on the constants below (via errors.Is with a *ParseError carrying
// the Kind, or the Is* helpers) instead of matching on message text.
type Kind int

const (
	// ErrNotMultipart is returned synchronously from Parse when the
	// request's Content-Type does not start with "multipart/".
	ErrNotMultipart Kind = iota + 1
	// ErrMissingBoundary is returned synchronously from Parse when the
	// Content-Type has no boundary parameter.
	ErrMissingBoundary
	// ErrMissingInitialBoundary is raised when the stream ends during the
	// preamble scan without ever finding a dash-boundary.
	ErrMissingInitialBoundary
	// ErrMalformedDelimiter is raised when the bytes following a
	// dash-boundary are neither CRLF (optionally preceded by LWS) nor "--".
	ErrMalformedDelimiter
	// ErrHeaderTooLarge is raised when a part's header block exceeds the
	// limit set by WithMaxHeaderSize.
	ErrHeaderTooLarge
	// ErrPartTooLarge is raised when a part's payload would exceed the
	// limit set by WithMaxFileSize.
	ErrPartTooLarge
	// ErrUnexpectedEnd is raised when the stream ends mid-header-block or
	// mid-payload before a close-delimiter is seen.
	ErrUnexpectedEnd
	// ErrStreamAlreadyConsumed is raised when a caller attempts to read a
	// PartStream's body a second time.
	ErrStreamAlreadyConsumed
)

func (k Kind) String() string {
	switch k {
	case ErrNotMultipart:
		return "NotMultipart"
	case ErrMissingBoundary:
		return "MissingBoundary"
	case ErrMissingInitialBoundary:
		return "MissingInitialBoundary"
	case ErrMalformedDelimiter:
		return "MalformedDelimiter"
	case ErrHeaderTooLarge:
		return "HeaderTooLarge"
	case ErrPartTooLarge:
		return "PartTooLarge"
	case ErrUnexpectedEnd:
		return "UnexpectedEnd"
	case ErrStreamAlreadyConsumed:
		return "StreamAlreadyConsumed"
	default:
		return "Unknown"
	}
}

// ParseError is the single error type raised by this package. Discrimination
// is by Kind (use errors.Is with a *ParseError carrying the wanted Kind, or
// the Is* helpers) or by the human-readable Message.
type ParseError struct {
	Kind    Kind
	Message string
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return "multipart: " + e.Kind.String()
	}
	return fmt.Sprintf("multipart: %s: %s", e.Kind, e.Message)
}

// Is reports whether target is a *ParseError with the same Kind, so that
// errors.Is(err, &multipart.ParseError{Kind: multipart.ErrPartTooLarge})
// style checks work, as do the Is*(err) helpers below.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newParseError(kind Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsNotMultipart reports whether err is (or wraps) ErrNotMultipart.
func IsNotMultipart(err error) bool { return kindIs(err, ErrNotMultipart) }

// IsMissingBoundary reports whether err is (or wraps) ErrMissingBoundary.
func IsMissingBoundary(err error) bool { return kindIs(err, ErrMissingBoundary) }

// IsPartTooLarge reports whether err is (or wraps) ErrPartTooLarge.
func IsPartTooLarge(err error) bool { return kindIs(err, ErrPartTooLarge) }

// IsHeaderTooLarge reports whether err is (or wraps) ErrHeaderTooLarge.
func IsHeaderTooLarge(err error) bool { return kindIs(err, ErrHeaderTooLarge) }

// IsStreamAlreadyConsumed reports whether err is (or wraps) ErrStreamAlreadyConsumed.
func IsStreamAlreadyConsumed(err error) bool { return kindIs(err, ErrStreamAlreadyConsumed) }

func kindIs(err error, k Kind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == k
}
