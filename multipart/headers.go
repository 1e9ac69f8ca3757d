package multipart

import (
	"mime"
	"net/textproto"
	"strings"
)

// Headers is a part's ordered, case-insensitive header mapping. Lines
// without a colon are preserved in Raw but are not indexed by name, per the
// "malformed headers do not poison the part" tie-break.
type Headers struct {
	mime textproto.MIMEHeader
	// Raw holds every header line exactly as it appeared, in wire order,
	// including lines that had no colon.
	Raw []string
}

// Get returns the first value associated with the case-insensitive key, or
// "" if absent.
func (h *Headers) Get(key string) string {
	if h == nil || h.mime == nil {
		return ""
	}
	return h.mime.Get(key)
}

// Values returns all values associated with the case-insensitive key, in
// wire order, preserving duplicates.
func (h *Headers) Values(key string) []string {
	if h == nil || h.mime == nil {
		return nil
	}
	return h.mime.Values(key)
}

// Names returns every distinct, canonicalized header name present, in
// first-seen order.
func (h *Headers) Names() []string {
	if h == nil || h.mime == nil {
		return nil
	}
	names := make([]string, 0, len(h.mime))
	seen := make(map[string]bool, len(h.mime))
	for _, line := range h.Raw {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		name := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(line[:colon]))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// parseHeaderBlock splits block (the bytes between the delimiter-CRLF and
// the terminating CRLFCRLF, CRLFCRLF itself excluded) into header lines:
// split on CRLF, split each line on the first colon, trim linear whitespace
// from the value, canonicalize the name. Lines without a colon are kept in
// Raw and not indexed. Folded (continuation) header lines are not supported
// and are treated as separate malformed lines.
func parseHeaderBlock(block []byte) *Headers {
	h := &Headers{mime: make(textproto.MIMEHeader)}
	if len(block) == 0 {
		return h
	}
	lines := strings.Split(string(block), crlf)
	for _, line := range lines {
		if line == "" {
			continue
		}
		h.Raw = append(h.Raw, line)
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		name := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(line[:colon]))
		value := trimLWS(line[colon+1:])
		h.mime.Add(name, value)
	}
	return h
}

// trimLWS trims leading/trailing linear whitespace (0x20, 0x09), the same
// bytes RFC 2046/§4.2.1 designates as LWS.
func trimLWS(s string) string {
	return strings.Trim(s, " \t")
}

// contentDispositionParams lazily parses the part's Content-Disposition
// header into its parameter map, caching nothing since parts are single-pass
// by design and this is only ever called once per derived accessor.
func (h *Headers) contentDispositionParams() map[string]string {
	cd := h.Get("Content-Disposition")
	if cd == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return nil
	}
	return params
}
