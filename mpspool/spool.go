package mpspool

import (
	"bytes"
	"io"
	"os"

	"github.com/J1407B-K/mpstream/multipart"
)

// SpooledPart is an immutable, once-written blob staged either fully in
// memory (parts under threshold) or spilled onto disk past it. Grounded on
// the Buffer interface contract in the pack's foxcpp-maddy buffer package:
// "creator responsibility to call Remove after Buffer is no longer used",
// adapted here from mail message bodies to multipart parts.
type SpooledPart struct {
	mem     []byte
	path    string
	size    int64
	removed bool
}

// Size returns the total number of payload bytes spooled.
func (s *SpooledPart) Size() int64 { return s.size }

// OnDisk reports whether any bytes were spilled to a temp file.
func (s *SpooledPart) OnDisk() bool { return s.path != "" }

// Open returns a fresh reader over the spooled bytes. Multiple Opens may be
// in flight concurrently; each gets its own file handle.
func (s *SpooledPart) Open() (io.ReadCloser, error) {
	if s.removed {
		return nil, os.ErrNotExist
	}
	if s.path == "" {
		return io.NopCloser(bytes.NewReader(s.mem)), nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	if len(s.mem) == 0 {
		return f, nil
	}
	return &prefixedFile{prefix: bytes.NewReader(s.mem), file: f}, nil
}

// Remove discards the on-disk portion, if any, and releases associated
// resources. Calling it again is a no-op. Per the Buffer contract, readers
// obtained from a prior Open remain valid, but no new Open succeeds
// afterward (it returns os.ErrNotExist).
func (s *SpooledPart) Remove() error {
	if s.removed {
		return nil
	}
	s.removed = true
	if s.path == "" {
		return nil
	}
	path := s.path
	s.path = ""
	return os.Remove(path)
}

// prefixedFile glues an in-memory prefix (bytes written before the
// threshold was crossed) to the temp file holding the remainder, so Open
// callers see one seamless stream.
type prefixedFile struct {
	prefix *bytes.Reader
	file   *os.File
}

func (p *prefixedFile) Read(b []byte) (int, error) {
	if p.prefix.Len() > 0 {
		return p.prefix.Read(b)
	}
	return p.file.Read(b)
}

func (p *prefixedFile) Close() error { return p.file.Close() }

// SpoolToDisk drains p's Body, keeping up to threshold bytes in memory and
// spilling any remainder into a temp file under dir. Large-upload servers
// use this to bound per-request memory use without buffering the whole
// part, the same concern the core's ChunkBuffer addresses one layer down
// for the scanner itself.
func SpoolToDisk(p *multipart.PartStream, dir string, threshold int64) (*SpooledPart, error) {
	body := p.Body()
	mem := make([]byte, 0, minInt64(threshold, 64<<10))
	var total int64

	for total < threshold {
		chunk := make([]byte, 32*1024)
		if remaining := threshold - total; int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		n, err := body.Read(chunk)
		if n > 0 {
			mem = append(mem, chunk[:n]...)
			total += int64(n)
		}
		if err == io.EOF {
			return &SpooledPart{mem: mem, size: total}, nil
		}
		if err != nil {
			return nil, err
		}
	}

	f, err := os.CreateTemp(dir, "mpspool-*")
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(f, body)
	total += n
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	return &SpooledPart{mem: mem, path: f.Name(), size: total}, nil
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
