// Package mpreq adapts platform-specific request types — *net/http.Request
// and gnet's per-connection inbound buffer — into the generic
// multipart.ByteSource/multipart.HeaderGetter the core parser consumes.
// It does no boundary scanning or header parsing of its own.
package mpreq
