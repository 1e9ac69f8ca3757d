package multipart

import (
	"context"
	"io"
)

var headerTerminator = []byte(crlf + crlf)

type scannerState int

const (
	statePreamble scannerState = iota
	stateHeaderBlock
	statePartPayload
	stateTerminated
)

// scanner drives the RFC 2046 state machine over a ChunkBuffer, locating
// delimiters across arbitrary chunk boundaries and handing header blocks
// and payload bytes to the Session/PartStream above it. It keeps its place
// between calls: search for the next delimiter, and if it isn't found yet,
// decide whether to ask for more input or fail.
type scanner struct {
	buf            *ChunkBuffer
	dashBoundary   []byte // "--" + boundary
	delimiter      []byte // CRLF + dashBoundary
	cfg            parserConfig
	state          scannerState
	partBytes      int64
	err            error
}

func newScanner(src ByteSource, boundary string, cfg parserConfig) *scanner {
	dash := append([]byte("--"), boundary...)
	delim := append(append([]byte(nil), crlfBytes...), dash...)
	return &scanner{
		buf:          newChunkBuffer(src),
		dashBoundary: dash,
		delimiter:    delim,
		cfg:          cfg,
		state:        statePreamble,
	}
}

func (s *scanner) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return s.err
}

func (s *scanner) release() { s.buf.release() }

// nextPart advances the scanner to (and parses the header block of) the
// next part, or reports iteration is finished. It must only be called while
// no part is currently active (PartPayload bytes fully drained or
// discarded).
func (s *scanner) nextPart(ctx context.Context) (*Headers, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.state == stateTerminated {
		return nil, nil
	}
	if s.state == statePreamble {
		done, err := s.scanPreamble(ctx)
		if err != nil {
			return nil, s.fail(err)
		}
		if done {
			return nil, nil
		}
	}
	headers, err := s.readHeaderBlock(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	s.state = statePartPayload
	s.partBytes = 0
	return headers, nil
}

// scanPreamble discards bytes up to and including the first dash-boundary,
// per RFC 2046's mandate to ignore preamble, then resolves its suffix. It
// reports done=true when the suffix was "--" (an empty, part-less message).
func (s *scanner) scanPreamble(ctx context.Context) (done bool, err error) {
	for {
		idx := s.buf.IndexOf(s.dashBoundary, 0)
		if idx != -1 {
			s.buf.DropPrefix(idx + len(s.dashBoundary))
			return s.scanDelimiterSuffix(ctx)
		}
		// Nothing we haven't already searched can be the start of a match
		// we haven't seen; keep only the trailing bytes that could still be
		// a split prefix of dashBoundary.
		safe := s.buf.Len() - (len(s.dashBoundary) - 1)
		if safe > 0 {
			s.buf.DropPrefix(safe)
		}
		ok, err := s.buf.Pull(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, newParseError(ErrMissingInitialBoundary, "stream ended before any dash-boundary was found")
		}
	}
}

// scanDelimiterSuffix resolves the two bytes following a dash-boundary or
// delimiter that was just dropped from the buffer: optional LWS, then
// either "--" (Terminated) or CRLF (HeaderBlock). It leaves the buffer
// positioned just past whichever suffix matched.
func (s *scanner) scanDelimiterSuffix(ctx context.Context) (terminated bool, err error) {
	for {
		i := 0
		for i < s.buf.Len() && isLWS(s.buf.ByteAt(i)) {
			i++
		}
		if s.buf.Len() < i+2 {
			ok, err := s.buf.Pull(ctx)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, newParseError(ErrUnexpectedEnd, "stream ended while resolving a boundary suffix")
			}
			continue
		}
		b0, b1 := s.buf.ByteAt(i), s.buf.ByteAt(i+1)
		switch {
		case b0 == '-' && b1 == '-':
			s.buf.DropPrefix(i + 2)
			s.state = stateTerminated
			return true, nil
		case b0 == crlfBytes[0] && b1 == crlfBytes[1]:
			s.buf.DropPrefix(i + 2)
			s.state = stateHeaderBlock
			return false, nil
		default:
			return false, newParseError(ErrMalformedDelimiter,
				"expected CRLF or \"--\" after boundary, found %q", []byte{b0, b1})
		}
	}
}

// readHeaderBlock accumulates bytes until CRLFCRLF is found, enforcing
// MaxHeaderSize, then parses and returns the header block.
func (s *scanner) readHeaderBlock(ctx context.Context) (*Headers, error) {
	for {
		idx := s.buf.IndexOf(headerTerminator, 0)
		if idx != -1 {
			if idx > s.cfg.maxHeaderSize {
				return nil, newParseError(ErrHeaderTooLarge, "header block exceeds %d bytes", s.cfg.maxHeaderSize)
			}
			block := append([]byte(nil), s.buf.Slice(0, idx)...)
			s.buf.DropPrefix(idx + len(headerTerminator))
			return parseHeaderBlock(block), nil
		}
		if s.buf.Len() > s.cfg.maxHeaderSize {
			return nil, newParseError(ErrHeaderTooLarge, "header block exceeds %d bytes", s.cfg.maxHeaderSize)
		}
		ok, err := s.buf.Pull(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newParseError(ErrUnexpectedEnd, "stream ended mid-header-block")
		}
	}
}

// readPayload copies as much of the active part's payload into dst as is
// currently safe to emit, pulling more input only when no safe bytes are
// yet available. It returns (0, io.EOF) once the delimiter terminating the
// part has been consumed and the scanner has advanced to the next
// HeaderBlock or Terminated state.
func (s *scanner) readPayload(ctx context.Context, dst []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	for {
		delimIdx := s.buf.IndexOf(s.delimiter, 0)
		safeLen := delimIdx
		if delimIdx == -1 {
			safeLen = s.buf.Len() - (len(s.delimiter) - 1)
		}
		if safeLen > 0 {
			n := safeLen
			if n > len(dst) {
				n = len(dst)
			}
			if n > 0 {
				if s.partBytes+int64(n) > s.cfg.maxFileSize {
					return 0, s.fail(newParseError(ErrPartTooLarge,
						"part exceeds max file size of %d bytes", s.cfg.maxFileSize))
				}
				copy(dst, s.buf.Slice(0, n))
				s.partBytes += int64(n)
				s.buf.DropPrefix(n)
				return n, nil
			}
		}
		if delimIdx == 0 {
			for s.buf.Len() < len(s.delimiter)+2 {
				ok, err := s.buf.Pull(ctx)
				if err != nil {
					return 0, s.fail(err)
				}
				if !ok {
					return 0, s.fail(newParseError(ErrUnexpectedEnd, "stream ended while resolving a boundary suffix"))
				}
			}
			s.buf.DropPrefix(len(s.delimiter))
			if _, err := s.scanDelimiterSuffix(ctx); err != nil {
				return 0, s.fail(err)
			}
			return 0, io.EOF
		}
		ok, err := s.buf.Pull(ctx)
		if err != nil {
			return 0, s.fail(err)
		}
		if !ok {
			return 0, s.fail(newParseError(ErrUnexpectedEnd, "stream ended mid-payload"))
		}
	}
}
