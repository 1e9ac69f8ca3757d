package multipart

// crlf is the two-byte line terminator RFC 2046 mandates around boundaries
// and header lines.
const crlf = "\r\n"

var crlfBytes = []byte(crlf)

// isLWS reports whether b is linear whitespace (space or tab), the bytes a
// compliant producer may insert between a dash-boundary/delimiter and its
// trailing CRLF.
func isLWS(b byte) bool { return b == ' ' || b == '\t' }
