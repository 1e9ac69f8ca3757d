package mpreq

import (
	"context"
	"io"
	"net/http"

	"github.com/J1407B-K/mpstream/multipart"
)

// defaultChunkSize is the read size used when pulling from an
// *http.Request's Body; arbitrary, and the boundary it falls on carries no
// semantic meaning to the parser.
const defaultChunkSize = 32 * 1024

// httpBodySource adapts an io.Reader (an *http.Request's Body) into a
// multipart.ByteSource: a pull-on-demand loop over fixed-size reads rather
// than a single pre-buffered slice, so the body streams through the parser
// instead of being held in memory all at once.
type httpBodySource struct {
	r io.Reader
}

// FromHTTPRequest returns a ByteSource over r's Body and a HeaderGetter
// over r's Header (http.Header already satisfies the interface directly).
// It does not consume Body; the returned ByteSource pulls from it lazily.
func FromHTTPRequest(r *http.Request) (multipart.ByteSource, multipart.HeaderGetter) {
	return &httpBodySource{r: r.Body}, r.Header
}

func (s *httpBodySource) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := make([]byte, defaultChunkSize)
		n, err := s.r.Read(buf)
		if n > 0 {
			return buf[:n], err
		}
		if err != nil {
			return nil, err
		}
	}
}

// ParseHTTPRequest is the common-case entry point: it adapts r and calls
// multipart.Parse, returning NotMultipart/MissingBoundary synchronously
// exactly as multipart.Parse does.
func ParseHTTPRequest(r *http.Request, opts ...multipart.Option) (*multipart.Session, error) {
	body, headers := FromHTTPRequest(r)
	return multipart.Parse(headers, body, opts...)
}

// gnetConnSource is a one-shot ByteSource over a byte slice a gnet.Conn
// handler has already read into memory via c.Next(n). It yields the whole
// slice as a single chunk, then io.EOF.
type gnetConnSource struct {
	buf  []byte
	done bool
}

// FromGNetConn wraps a fully-buffered gnet connection read as a ByteSource.
// Use this when the whole inbound buffer is already resident in memory and
// there is no further streaming to do.
func FromGNetConn(buf []byte) multipart.ByteSource {
	return &gnetConnSource{buf: buf}
}

func (s *gnetConnSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.buf, io.EOF
}
