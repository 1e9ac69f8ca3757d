package buff

// ConnContext accumulates one connection's inbound bytes across event-loop
// callbacks until a full request is present, then gives the caller a cheap
// way to drop the bytes it has consumed without reallocating. Exported so
// callers that drive ParseHTTPRequest directly (outside the now-removed
// router dispatch) get the same buffering discipline instead of
// reimplementing it.
type ConnContext struct {
	buf []byte
}

func (g *ConnContext) Append(p []byte) {
	g.buf = append(g.buf, p...)
}

func (g *ConnContext) Discard(n int) {
	switch {
	case n >= len(g.buf):
		g.buf = g.buf[:0]
	case n > 0:
		copy(g.buf, g.buf[n:])
		g.buf = g.buf[:len(g.buf)-n]
	}
}

func (g *ConnContext) Reset() {
	g.buf = nil
}

func (g *ConnContext) Bytes() []byte {
	return g.buf
}
