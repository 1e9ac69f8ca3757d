package buff

import "errors"

const (
	crlf                  = "\r\n"
	headerBodySeparator   = "\r\n\r\n"
	defaultMaxHeaderBytes = 8 << 10
)

var (
	errNeedMoreData       = errors.New("incomplete http request")
	errHeaderTooLarge     = errors.New("request header too large")
	errNotMultipart       = errors.New("request is not a multipart upload")
	errChunkedUnsupported = errors.New("chunked transfer-encoding not supported")
)

// ErrNeedMoreData, ErrHeaderTooLarge, ErrNotMultipart, and
// ErrChunkedUnsupported let callers outside this package (the demo upload
// server drives ParseHTTPRequest directly) use errors.Is against the same
// sentinels parseHTTPRequest returns.
var (
	ErrNeedMoreData       = errNeedMoreData
	ErrHeaderTooLarge     = errHeaderTooLarge
	ErrNotMultipart       = errNotMultipart
	ErrChunkedUnsupported = errChunkedUnsupported
)
