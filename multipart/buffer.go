package multipart

import (
	"bytes"
	"context"
	"io"

	"github.com/valyala/bytebufferpool"
)

var bufferPool bytebufferpool.Pool

// ChunkBuffer is a sliding window over the unread prefix of a ByteSource: an
// append-on-read, prefix-discard-on-consume buffer over a single growable
// []byte, extended with pattern search across chunk joins and on-demand
// pulls from the source.
//
// After DropPrefix(n), index 0 always refers to the first undrained byte;
// representation (single slice with a head offset) is an implementation
// detail, not part of the contract.
type ChunkBuffer struct {
	src  ByteSource
	bb   *bytebufferpool.ByteBuffer
	head int
	eof  bool
}

func newChunkBuffer(src ByteSource) *ChunkBuffer {
	return &ChunkBuffer{src: src, bb: bufferPool.Get()}
}

// release returns the pooled backing buffer. Safe to call once the
// ChunkBuffer is no longer in use.
func (c *ChunkBuffer) release() {
	if c.bb == nil {
		return
	}
	bufferPool.Put(c.bb)
	c.bb = nil
}

// Len returns the number of currently buffered, undrained bytes.
func (c *ChunkBuffer) Len() int { return len(c.bb.B) - c.head }

// ByteAt returns the byte at logical offset i (0 is the first undrained byte).
func (c *ChunkBuffer) ByteAt(i int) byte { return c.bb.B[c.head+i] }

// Slice returns the undrained bytes in [i, j). The returned slice aliases
// the buffer's backing array and is only valid until the next DropPrefix or
// Pull call.
func (c *ChunkBuffer) Slice(i, j int) []byte { return c.bb.B[c.head+i : c.head+j] }

// IndexOf returns the offset of the first occurrence of pattern at or after
// start, restricted to currently buffered bytes, or -1 if not present.
func (c *ChunkBuffer) IndexOf(pattern []byte, start int) int {
	if start < 0 {
		start = 0
	}
	if start > c.Len() {
		return -1
	}
	idx := bytes.Index(c.bb.B[c.head+start:], pattern)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// compactionThreshold bounds how long a buffer is allowed to carry dead
// space at its front before it is memmove'd back to offset 0, per the
// fraction-of-capacity rule in the design notes.
const compactionThreshold = 4096

// DropPrefix discards the first n bytes (n is clamped to Len()). Compaction
// of the dead space at the front of the backing array is deferred until the
// head offset grows past half of capacity or past compactionThreshold,
// whichever is smaller — small drops (the common case: one payload chunk at
// a time) don't pay a memmove on every call.
func (c *ChunkBuffer) DropPrefix(n int) {
	if n <= 0 {
		return
	}
	if n > c.Len() {
		n = c.Len()
	}
	c.head += n
	if c.head == len(c.bb.B) {
		c.bb.B = c.bb.B[:0]
		c.head = 0
		return
	}
	if c.head >= compactionThreshold || c.head*2 >= cap(c.bb.B) {
		c.compact()
	}
}

func (c *ChunkBuffer) compact() {
	remaining := len(c.bb.B) - c.head
	copy(c.bb.B, c.bb.B[c.head:])
	c.bb.B = c.bb.B[:remaining]
	c.head = 0
}

// Pull awaits and appends one more chunk from the source. It returns false
// once the source is exhausted and no further bytes were appended; a
// non-nil error means the source itself failed (and is propagated
// unchanged, not wrapped in a ParseError, so callers can tell a transport
// failure from a malformed body).
func (c *ChunkBuffer) Pull(ctx context.Context) (bool, error) {
	if c.eof {
		return false, nil
	}
	chunk, err := c.src.Next(ctx)
	if len(chunk) > 0 {
		c.bb.B = append(c.bb.B, chunk...)
	}
	if err != nil {
		if err == io.EOF {
			c.eof = true
			return len(chunk) > 0, nil
		}
		return false, err
	}
	return true, nil
}
