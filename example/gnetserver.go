package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gnet "github.com/panjf2000/gnet/v2"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"

	"github.com/J1407B-K/mpstream/buff"
)

const (
	crlf                   = "\r\n"
	defaultMaxHeaderBytes  = 8 << 10
	defaultShutdownTimeout = 5 * time.Second
	serverHeader           = "mpstream-example"
)

// uploadHandler is a gnet event handler serving one route: POST a
// multipart/* body, get back a JSON summary of what was received. It reuses
// buff.ConnContext for read buffering and buff.ParseHTTPRequest for request
// framing, then hands the parsed *http.Request straight to this
// repository's own multipart parser.
type uploadHandler struct {
	gnet.BuiltinEventEngine

	engine gnet.Engine
	server *uploadServer

	bufPool         *bytebufferpool.Pool
	maxHeaderBytes  int
	shutdownTimeout time.Duration
}

func newUploadHandler(server *uploadServer) *uploadHandler {
	return &uploadHandler{
		server:          server,
		bufPool:         &bytebufferpool.Pool{},
		maxHeaderBytes:  defaultMaxHeaderBytes,
		shutdownTimeout: defaultShutdownTimeout,
	}
}

func (h *uploadHandler) OnBoot(engine gnet.Engine) gnet.Action {
	h.engine = engine
	go h.handleSignals()
	return gnet.None
}

func (h *uploadHandler) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	h.server.log.Info("shutting down", zap.String("signal", sig.String()))
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.engine.Stop(ctx); err != nil {
		h.server.log.Error("gnet stop error", zap.Error(err))
	}
}

func (h *uploadHandler) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(&buff.ConnContext{})
	return nil, gnet.None
}

func (h *uploadHandler) OnClose(c gnet.Conn, err error) gnet.Action {
	if ctx, ok := c.Context().(*buff.ConnContext); ok {
		ctx.Reset()
	}
	return gnet.None
}

func (h *uploadHandler) OnTraffic(c gnet.Conn) gnet.Action {
	ctx, ok := c.Context().(*buff.ConnContext)
	if !ok {
		ctx = &buff.ConnContext{}
		c.SetContext(ctx)
	}

	if n := c.InboundBuffered(); n > 0 {
		data, err := c.Next(n)
		if err != nil {
			h.writeError(c, http.StatusInternalServerError, "read error")
			return gnet.Close
		}
		ctx.Append(data)
	}

	for len(ctx.Bytes()) > 0 {
		req, consumed, closeAfter, err := buff.ParseHTTPRequest(ctx.Bytes(), h.maxHeaderBytes)
		if err != nil {
			if errors.Is(err, buff.ErrNeedMoreData) {
				break
			}
			switch {
			case errors.Is(err, buff.ErrHeaderTooLarge):
				h.writeError(c, http.StatusRequestHeaderFieldsTooLarge, err.Error())
			case errors.Is(err, buff.ErrNotMultipart):
				h.writeError(c, http.StatusUnsupportedMediaType, err.Error())
			case errors.Is(err, buff.ErrChunkedUnsupported):
				h.writeError(c, http.StatusNotImplemented, err.Error())
			default:
				h.writeError(c, http.StatusBadRequest, err.Error())
			}
			return gnet.Close
		}

		status, contentType, body := h.server.handleRequest(req)
		respBuf := h.writeHTTPResponse(status, contentType, body, closeAfter)
		if _, err := c.Write(respBuf.Bytes()); err != nil {
			h.bufPool.Put(respBuf)
			return gnet.Close
		}
		h.bufPool.Put(respBuf)
		ctx.Discard(consumed)

		if closeAfter {
			return gnet.Close
		}
	}
	return gnet.None
}

func (h *uploadHandler) writeError(c gnet.Conn, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	body := []byte(msg + "\n")
	buf := h.bufPool.Get()
	buf.Reset()
	fmt.Fprintf(buf, "HTTP/1.1 %d %s%s", status, http.StatusText(status), crlf)
	buf.WriteString("Content-Type: text/plain; charset=utf-8" + crlf)
	fmt.Fprintf(buf, "Content-Length: %d%s", len(body), crlf)
	buf.WriteString("Connection: close" + crlf)
	buf.WriteString(crlf)
	buf.Write(body)
	_, _ = c.Write(buf.Bytes())
	h.bufPool.Put(buf)
}

// writeHTTPResponse renders status/body into a pooled buffer as a complete
// HTTP/1.1 response without the generality of an http.ResponseWriter in
// front of it (this server only ever emits one of two bodies: a JSON
// summary or a plain-text error).
func (h *uploadHandler) writeHTTPResponse(status int, contentType string, body []byte, closeAfter bool) *bytebufferpool.ByteBuffer {
	out := h.bufPool.Get()
	out.Reset()
	fmt.Fprintf(out, "HTTP/1.1 %d %s%s", status, http.StatusText(status), crlf)
	out.WriteString("Server: " + serverHeader + crlf)
	out.WriteString("Date: " + time.Now().UTC().Format(http.TimeFormat) + crlf)
	out.WriteString("Content-Type: " + contentType + crlf)
	fmt.Fprintf(out, "Content-Length: %d%s", len(body), crlf)
	if closeAfter {
		out.WriteString("Connection: close" + crlf)
	}
	out.WriteString(crlf)
	out.Write(body)
	return out
}
