package multipart

import (
	"errors"
	"testing"
)

func TestParseErrorIs(t *testing.T) {
	err := newParseError(ErrPartTooLarge, "part exceeds %d bytes", 100)
	if !errors.Is(err, &ParseError{Kind: ErrPartTooLarge}) {
		t.Fatalf("errors.Is should match on Kind alone")
	}
	if errors.Is(err, &ParseError{Kind: ErrHeaderTooLarge}) {
		t.Fatalf("errors.Is should not match a different Kind")
	}
	if !IsPartTooLarge(err) {
		t.Fatalf("IsPartTooLarge(err) = false, want true")
	}
	if IsHeaderTooLarge(err) {
		t.Fatalf("IsHeaderTooLarge(err) = true, want false")
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := newParseError(ErrUnexpectedEnd, "stream ended mid-header-block")
	if got, want := err.Error(), "multipart: UnexpectedEnd: stream ended mid-header-block"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	bare := &ParseError{Kind: ErrMissingBoundary}
	if got, want := bare.Error(), "multipart: MissingBoundary"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestKindHelpersRejectOtherErrorTypes(t *testing.T) {
	if IsPartTooLarge(errors.New("boom")) {
		t.Fatalf("IsPartTooLarge should reject non-ParseError values")
	}
	if IsNotMultipart(nil) {
		t.Fatalf("IsNotMultipart(nil) should be false")
	}
}
