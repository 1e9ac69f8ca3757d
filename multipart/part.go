package multipart

import (
	"context"
	"io"
	"strings"
)

// PartStream is the handle surfaced to the caller for each part: its
// headers plus a lazy payload reader. The outer Session will not advance to
// the next part until this PartStream's Body is fully drained or
// explicitly discarded, per the coordination contract in the design.
type PartStream struct {
	headers  *Headers
	scanner  *scanner
	consumed bool
}

func newPartStream(s *scanner, headers *Headers) *PartStream {
	return &PartStream{headers: headers, scanner: s}
}

// Headers returns the part's parsed, case-insensitive header mapping.
func (p *PartStream) Headers() *Headers { return p.headers }

// Name returns the "name" parameter of the part's Content-Disposition
// header, or "" if absent.
func (p *PartStream) Name() string {
	return p.headers.contentDispositionParams()["name"]
}

// Filename returns the "filename" parameter of the part's
// Content-Disposition header, or "" if absent.
func (p *PartStream) Filename() string {
	return p.headers.contentDispositionParams()["filename"]
}

// IsFile reports whether the part carries a filename, i.e. it was submitted
// as a file rather than a plain form field.
func (p *PartStream) IsFile() bool {
	_, ok := p.headers.contentDispositionParams()["filename"]
	return ok
}

// MediaType returns the part's Content-Type, stripped of parameters, or ""
// if the header is absent. The value is not validated: whatever precedes
// the first ';' is returned, trimmed of surrounding whitespace.
func (p *PartStream) MediaType() string {
	ct := p.headers.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _ := splitMediaType(ct)
	return mt
}

// Body returns an io.Reader over the part's payload bytes. It may only be
// read to completion once; a second full read (or any Read call once the
// first has reached io.EOF or the part was discarded) returns
// ErrStreamAlreadyConsumed.
func (p *PartStream) Body() io.Reader { return (*partBody)(p) }

// partBody is PartStream under the io.Reader interface, kept as a distinct
// type so PartStream itself doesn't also expose Read (callers should go
// through Body()).
type partBody PartStream

func (p *partBody) Read(dst []byte) (int, error) {
	pp := (*PartStream)(p)
	if pp.consumed {
		return 0, &ParseError{Kind: ErrStreamAlreadyConsumed, Message: "part body already fully consumed"}
	}
	if len(dst) == 0 {
		return 0, nil
	}
	n, err := pp.scanner.readPayload(pp.scanner.cfg.ctx, dst)
	if err == io.EOF {
		pp.consumed = true
		return n, io.EOF
	}
	return n, err
}

// Bytes reads Body to completion and returns the full payload. Like Body,
// it may only be called once.
func (p *PartStream) Bytes() ([]byte, error) {
	return io.ReadAll(p.Body())
}

// Text decodes Body to completion as UTF-8 and returns it as a string. Like
// Body, it may only be called once. Charset conversion beyond UTF-8 is the
// caller's responsibility, per this package's non-goals.
func (p *PartStream) Text() (string, error) {
	var buf strings.Builder
	if _, err := io.Copy(&buf, p.Body()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteTo drains Body into w, satisfying io.WriterTo for callers that want
// to stream a part directly (e.g. onto disk) without an intermediate copy.
func (p *PartStream) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, p.Body())
}

// discard drains and drops the part's remaining payload without exposing it
// to the caller, so the scanner can advance to the next part. It is a
// no-op if the part has already been fully consumed or discarded.
func (p *PartStream) discard(ctx context.Context) error {
	if p.consumed {
		return nil
	}
	var scratch [32 * 1024]byte
	for {
		_, err := p.scanner.readPayload(ctx, scratch[:])
		if err == io.EOF {
			p.consumed = true
			return nil
		}
		if err != nil {
			return err
		}
	}
}
