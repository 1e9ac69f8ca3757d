package multipart

import (
	"context"
	"io"
)

// Session is one parse pass over a multipart body: it owns the ByteSource
// and yields PartStream handles in wire order. Session is not safe for
// concurrent use — per the concurrency model, exactly one part is ever
// "active" at a time.
type Session struct {
	scanner *scanner
	current *PartStream
	closed  bool
	err     error
}

// NewSession starts a low-level parse session over src using boundary
// directly, bypassing Content-Type sniffing. Most callers should use Parse.
func NewSession(src ByteSource, boundary string, opts ...Option) (*Session, error) {
	if err := validateBoundary(boundary); err != nil {
		return nil, err
	}
	cfg := defaultParserConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session{scanner: newScanner(src, boundary, cfg)}, nil
}

// Parse is the package's main entry point: given a request's headers and
// body, it validates the Content-Type is multipart/* and extracts the
// boundary, raising NotMultipart/MissingBoundary synchronously (before any
// byte is read from body), then returns a Session ready to iterate.
func Parse(headers HeaderGetter, body ByteSource, opts ...Option) (*Session, error) {
	contentType := headers.Get("Content-Type")
	if !IsMultipart(contentType) {
		return nil, newParseError(ErrNotMultipart, "content-type %q is not multipart", contentType)
	}
	boundary, ok := GetBoundary(contentType)
	if !ok {
		return nil, newParseError(ErrMissingBoundary, "content-type %q has no boundary parameter", contentType)
	}
	return NewSession(body, boundary, opts...)
}

// validateBoundary enforces RFC 2046's 1-70 printable-ASCII-byte boundary
// token constraint.
func validateBoundary(boundary string) error {
	if len(boundary) == 0 || len(boundary) > 70 {
		return newParseError(ErrMissingBoundary, "boundary length %d out of range [1,70]", len(boundary))
	}
	for i := 0; i < len(boundary); i++ {
		if boundary[i] < 0x20 || boundary[i] > 0x7E {
			return newParseError(ErrMissingBoundary, "boundary contains non-printable-ASCII byte %q", boundary[i])
		}
	}
	return nil
}

// Next drains or discards the previously returned PartStream (if any), then
// advances the scanner to the next part. It returns (nil, io.EOF) once the
// close-delimiter has been consumed and no parts remain.
func (s *Session) Next(ctx context.Context) (*PartStream, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, newParseError(ErrUnexpectedEnd, "session already closed")
	}
	if s.current != nil {
		if err := s.current.discard(ctx); err != nil {
			s.err = err
			s.Close()
			return nil, err
		}
		s.current = nil
	}
	headers, err := s.scanner.nextPart(ctx)
	if err != nil {
		s.err = err
		s.Close()
		return nil, err
	}
	if headers == nil {
		s.Close()
		return nil, io.EOF
	}
	part := newPartStream(s.scanner, headers)
	s.current = part
	return part, nil
}

// Close abandons the session: the underlying ChunkBuffer is released and no
// further reads occur. It is safe to call multiple times and is implicitly
// called once iteration completes or errors.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.scanner.release()
	return nil
}

// ForEach iterates every part, invoking fn with each one; fn must fully
// drain or discard the part's Body itself if it wants to inspect it past
// the callback, since a PartStream becomes inert once ForEach moves on.
// Iteration stops at the first error from fn or from the scanner itself.
func (s *Session) ForEach(ctx context.Context, fn func(*PartStream) error) error {
	defer s.Close()
	for {
		part, err := s.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(part); err != nil {
			return err
		}
	}
}
