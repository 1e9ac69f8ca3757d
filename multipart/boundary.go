package multipart

import "strings"

// IsMultipart reports whether contentType's media type begins with
// "multipart/", case-insensitively, ignoring any parameters.
func IsMultipart(contentType string) bool {
	mediaType, _ := splitMediaType(contentType)
	return strings.HasPrefix(strings.ToLower(mediaType), "multipart/")
}

// GetBoundary returns the boundary parameter's value from contentType,
// honoring RFC 2045 quoted-string rules (quoted values unescape \c -> c;
// unquoted values terminate at ';' or whitespace). It reports false if the
// media type is not multipart/* or the boundary parameter is absent.
func GetBoundary(contentType string) (string, bool) {
	mediaType, rest := splitMediaType(contentType)
	if !strings.HasPrefix(strings.ToLower(mediaType), "multipart/") {
		return "", false
	}
	return findParam(rest, "boundary")
}

// splitMediaType splits "type/subtype; a=b; c=d" into the bare media type
// and the remaining parameter string, trimming surrounding whitespace.
func splitMediaType(contentType string) (mediaType, params string) {
	idx := strings.IndexByte(contentType, ';')
	if idx == -1 {
		return strings.TrimSpace(contentType), ""
	}
	return strings.TrimSpace(contentType[:idx]), contentType[idx+1:]
}

// findParam scans a ";"-separated parameter list for name (case-insensitive)
// and returns its decoded value. A quoted value's escaped characters
// (\c -> c) are unescaped; an unquoted value terminates at the first ';' or
// linear-whitespace byte.
func findParam(params, name string) (string, bool) {
	for len(params) > 0 {
		params = strings.TrimLeft(params, " \t")
		if params == "" {
			break
		}
		semi := strings.IndexByte(params, ';')
		var entry string
		if semi == -1 {
			entry, params = params, ""
		} else {
			entry, params = params[:semi], params[semi+1:]
		}
		eq := strings.IndexByte(entry, '=')
		if eq == -1 {
			continue
		}
		key := strings.TrimSpace(entry[:eq])
		if !strings.EqualFold(key, name) {
			continue
		}
		return unquoteParamValue(strings.TrimSpace(entry[eq+1:])), true
	}
	return "", false
}

// unquoteParamValue decodes an RFC 2045 quoted-string parameter value, or
// trims an unquoted token at its first ';'/whitespace terminator.
func unquoteParamValue(v string) string {
	if len(v) >= 2 && v[0] == '"' {
		var b strings.Builder
		for i := 1; i < len(v); i++ {
			c := v[i]
			if c == '"' {
				break
			}
			if c == '\\' && i+1 < len(v) {
				i++
				b.WriteByte(v[i])
				continue
			}
			b.WriteByte(c)
		}
		return b.String()
	}
	for i := 0; i < len(v); i++ {
		if v[i] == ';' || isLWS(v[i]) {
			return v[:i]
		}
	}
	return v
}
